package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/pkg/serverutils"
	"agent-dashboard-be/internal/registry"
	"agent-dashboard-be/internal/repository/implementation"
	"agent-dashboard-be/internal/repository/memory"
	"agent-dashboard-be/internal/service"
	"agent-dashboard-be/pkg/agent"
	"agent-dashboard-be/pkg/eventbus"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider replies instantly; genErr flips /character/gen into failure mode.
type fakeProvider struct {
	genErr error
}

func (p *fakeProvider) Prompt(ctx context.Context, pathName, prompt string, history []agent.Message) (string, error) {
	return "stub reply", nil
}

func (p *fakeProvider) GenerateCharacterField(ctx context.Context, req agent.GenFieldRequest) (json.RawMessage, error) {
	if p.genErr != nil {
		return nil, p.genErr
	}
	return json.RawMessage(`["brave","quiet"]`), nil
}

type testEnv struct {
	app      *fiber.App
	provider *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewNopLogger()
	bus := eventbus.New(watermill.NopLogger{})
	provider := &fakeProvider{}

	characterRepo := implementation.NewCharacterRepository(t.TempDir(), log)
	settingsRepo := implementation.NewSettingsRepository(t.TempDir(), log)

	characterService := service.NewCharacterService(characterRepo, registry.New(characterRepo), provider, bus)
	settingsService := service.NewSettingsService(settingsRepo, registry.New(settingsRepo), bus)
	chatService := service.NewChatService(memory.NewSessionRepository(), provider, bus, log, 5*time.Second)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewCharacterController(characterService).RegisterRoutes(app)
	NewSettingsController(settingsService).RegisterRoutes(app)
	NewChatController(chatService).RegisterRoutes(app)

	return &testEnv{app: app, provider: provider}
}

func (e *testEnv) request(t *testing.T, method, target string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
	return resp, decoded
}

func characterPayload(pathName string) map[string]any {
	return map[string]any{
		"path_name":    pathName,
		"alias":        "Sage",
		"bio":          "A patient mentor.",
		"adjectives":   []any{"thoughtful"},
		"lore":         []any{},
		"styles":       []any{},
		"topics":       []any{},
		"inspirations": []any{},
	}
}

func TestCharactersEmptyDirectory(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, "GET", "/characters", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCharacterSaveThenLoad(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/character/save", characterPayload("sage.json"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sage.json", body["path_name"])

	resp, body = env.request(t, "GET", "/character/load?file=sage.json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sage", body["alias"])
	assert.Equal(t, "sage.json", body["path_name"])
}

func TestCharacterLoadMissingParam(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "GET", "/character/load", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestCharacterLoadUnknownFile(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "GET", "/character/load?file=ghost.json", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestCharacterSaveInvalidShape(t *testing.T) {
	env := newTestEnv(t)

	payload := characterPayload("bad.json")
	delete(payload, "bio")

	resp, body := env.request(t, "POST", "/character/save", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestCharacterSaveWithoutPathName(t *testing.T) {
	env := newTestEnv(t)

	payload := characterPayload("")
	delete(payload, "path_name")

	resp, _ := env.request(t, "POST", "/character/save", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCharacterSelectUnknownKeepsSelection(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.request(t, "POST", "/character/save", characterPayload("sage.json"))

	resp, body := env.request(t, "POST", "/character/select", map[string]any{"path_name": "ghost.json"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	selected, ok := body["selected"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sage.json", selected["path_name"])
}

func TestCharacterGenerateField(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/character/gen", map[string]any{
		"character_data": characterPayload("sage.json"),
		"prompt":         "more adjectives",
		"field":          "adjectives",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"brave", "quiet"}, body["content"])
}

func TestCharacterGenerateFieldAgentFailure(t *testing.T) {
	env := newTestEnv(t)
	env.provider.genErr = errors.New("agent down")

	resp, body := env.request(t, "POST", "/character/gen", map[string]any{
		"character_data": characterPayload("sage.json"),
		"prompt":         "more adjectives",
		"field":          "adjectives",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestSettingsCreateAndList(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/settings/create", map[string]any{"name": "config.json"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "config.json", body["path_name"])
	assert.Equal(t, map[string]any{}, body["client_configs"])

	resp, _ = env.request(t, "GET", "/settings", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSettingsCreateMissingName(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, "POST", "/settings/create", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsSaveInvalidShape(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, "POST", "/settings/save", map[string]any{
		"path_name": "config.json",
		"db":        "local",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatSendAcknowledgesImmediately(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "POST", "/chat/send", map[string]any{
		"path_name": "sage.json",
		"content":   "hello",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// The stub replies instantly, so the agent message lands shortly after.
	require.Eventually(t, func() bool {
		_, body := env.request(t, "GET", "/chat/messages?path_name=sage.json", nil)
		messages, _ := body["messages"].([]any)
		return len(messages) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestChatSendMissingContent(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, "POST", "/chat/send", map[string]any{"path_name": "sage.json"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatMessagesMissingPathName(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, "GET", "/chat/messages", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatClearRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.request(t, "POST", "/chat/send", map[string]any{"path_name": "sage.json", "content": "hello"})

	resp, body := env.request(t, "POST", "/chat/clear", map[string]any{"path_name": "sage.json"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	_, body = env.request(t, "GET", "/chat/messages?path_name=sage.json", nil)
	messages, _ := body["messages"].([]any)
	assert.Empty(t, messages)
	assert.Equal(t, false, body["in_progress"])
}
