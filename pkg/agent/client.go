package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agent-dashboard-be/internal/entity"
)

// Message is a history entry in the wire format the agent server expects.
// Agent replies are mapped to the "assistant" role on the way out.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionProvider is the boundary to the external agent process. It is not
// reimplemented here; the dashboard only calls it.
type CompletionProvider interface {
	// Prompt asks the agent to reply as the given character.
	Prompt(ctx context.Context, pathName, prompt string, history []Message) (string, error)

	// GenerateCharacterField asks the agent to draft character profile fields.
	GenerateCharacterField(ctx context.Context, req GenFieldRequest) (json.RawMessage, error)
}

type GenFieldRequest struct {
	CharacterData entity.Document `json:"character_data"`
	Prompt        string          `json:"prompt"`
	Field         string          `json:"field"`
	KeepCurrent   bool            `json:"keep_current"`
	NumFields     int             `json:"num_fields"`
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

var _ CompletionProvider = &Client{}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

type promptRequest struct {
	PathName string    `json:"path_name"`
	Prompt   string    `json:"prompt"`
	History  []Message `json:"history"`
}

type promptResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (c *Client) Prompt(ctx context.Context, pathName, prompt string, history []Message) (string, error) {
	if history == nil {
		history = []Message{}
	}
	payload := promptRequest{PathName: pathName, Prompt: prompt, History: history}

	body, err := c.post(ctx, "/prompt", payload)
	if err != nil {
		return "", err
	}

	var resp promptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("agent error: %s", resp.Error)
	}
	return resp.Response, nil
}

type genFieldResponse struct {
	Content json.RawMessage `json:"content"`
	Error   string          `json:"error"`
}

func (c *Client) GenerateCharacterField(ctx context.Context, req GenFieldRequest) (json.RawMessage, error) {
	body, err := c.post(ctx, "/character/gen", req)
	if err != nil {
		return nil, err
	}

	var resp genFieldResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("agent error: %s", resp.Error)
	}
	return resp.Content, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
