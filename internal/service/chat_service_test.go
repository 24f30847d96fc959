package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/repository/memory"
	"agent-dashboard-be/pkg/agent"
	"agent-dashboard-be/pkg/eventbus"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider blocks each Prompt call until released, so tests can observe
// the session mid-flight.
type stubProvider struct {
	mu       sync.Mutex
	release  chan struct{}
	reply    string
	err      error
	lastReq  []agent.Message
	lastPath string
}

func newStubProvider() *stubProvider {
	return &stubProvider{release: make(chan struct{})}
}

func (p *stubProvider) Prompt(ctx context.Context, pathName, prompt string, history []agent.Message) (string, error) {
	p.mu.Lock()
	p.lastPath = pathName
	p.lastReq = history
	p.mu.Unlock()

	select {
	case <-p.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reply, p.err
}

func (p *stubProvider) GenerateCharacterField(ctx context.Context, req agent.GenFieldRequest) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (p *stubProvider) respond(reply string) {
	p.mu.Lock()
	p.reply = reply
	p.mu.Unlock()
	close(p.release)
}

func (p *stubProvider) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.release)
}

func (p *stubProvider) history() []agent.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReq
}

func (p *stubProvider) path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPath
}

func newChatService(provider agent.CompletionProvider) IChatService {
	bus := eventbus.New(watermill.NopLogger{})
	return NewChatService(memory.NewSessionRepository(), provider, bus, logger.NewNopLogger(), 5*time.Second)
}

func TestSendEmptyContentIsNoOp(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	require.NoError(t, svc.Send(context.Background(), "sage.json", ""))

	messages, inProgress := svc.Messages("sage.json")
	assert.Empty(t, messages)
	assert.False(t, inProgress)
}

func TestSendResolvesPendingMessage(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	require.NoError(t, svc.Send(context.Background(), "sage.json", "hello"))

	messages, inProgress := svc.Messages("sage.json")
	require.Len(t, messages, 1)
	assert.Equal(t, entity.MessageStatusPending, messages[0].Status)
	assert.True(t, inProgress)

	provider.respond("hi there")

	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) == 2
	}, time.Second, 5*time.Millisecond)

	messages, inProgress = svc.Messages("sage.json")
	assert.Equal(t, entity.MessageStatusCompleted, messages[0].Status)
	assert.Equal(t, entity.MessageRoleAgent, messages[1].Role)
	assert.Equal(t, "hi there", messages[1].Content)
	assert.Equal(t, entity.MessageStatusCompleted, messages[1].Status)
	assert.False(t, inProgress)
}

func TestSendSnapshotsHistoryBeforeAppend(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	require.NoError(t, svc.Send(context.Background(), "sage.json", "first"))

	// The first prompt carries no history: the message being sent is the
	// prompt, not context.
	require.Eventually(t, func() bool {
		return provider.path() == "sage.json"
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, provider.history())

	provider.respond("ack")
	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) == 2
	}, time.Second, 5*time.Millisecond)

	// The second prompt sees the first exchange but not itself.
	require.NoError(t, svc.Send(context.Background(), "sage.json", "second"))
	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) == 4
	}, time.Second, 5*time.Millisecond)

	history := provider.history()
	require.Len(t, history, 2)
	assert.Equal(t, agent.Message{Role: "user", Content: "first"}, history[0])
	assert.Equal(t, agent.Message{Role: "assistant", Content: "ack"}, history[1])
}

func TestCancelDropsLateReply(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	require.NoError(t, svc.Send(context.Background(), "sage.json", "hello"))
	svc.Cancel("sage.json")

	messages, inProgress := svc.Messages("sage.json")
	require.Len(t, messages, 1)
	assert.Equal(t, entity.MessageStatusCanceled, messages[0].Status)
	assert.False(t, inProgress)

	// The reply arrives after cancellation and must be discarded.
	provider.respond("too late")

	assert.Never(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) != 1
	}, 100*time.Millisecond, 10*time.Millisecond)

	messages, _ = svc.Messages("sage.json")
	assert.Equal(t, entity.MessageStatusCanceled, messages[0].Status)
}

func TestCancelWithoutPendingIsNoOp(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	svc.Cancel("sage.json")

	require.NoError(t, svc.Send(context.Background(), "sage.json", "hello"))
	provider.respond("done")
	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) == 2
	}, time.Second, 5*time.Millisecond)

	// Nothing pending anymore, so cancel must leave both messages untouched.
	svc.Cancel("sage.json")
	messages, _ := svc.Messages("sage.json")
	assert.Equal(t, entity.MessageStatusCompleted, messages[0].Status)
	assert.Equal(t, entity.MessageStatusCompleted, messages[1].Status)
}

func TestFailedCallMarksMessageFailed(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	require.NoError(t, svc.Send(context.Background(), "sage.json", "hello"))
	provider.fail(errors.New("agent down"))

	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) == 1 && messages[0].Status == entity.MessageStatusFailed
	}, time.Second, 5*time.Millisecond)

	_, inProgress := svc.Messages("sage.json")
	assert.False(t, inProgress)
}

func TestClearEmptiesOnlyThatSession(t *testing.T) {
	provider := newStubProvider()
	svc := newChatService(provider)

	require.NoError(t, svc.Send(context.Background(), "sage.json", "hello"))
	provider.respond("hi")
	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("sage.json")
		return len(messages) == 2
	}, time.Second, 5*time.Millisecond)

	// A second character's session on the same service. The provider's release
	// channel is already closed, so this resolves immediately.
	require.NoError(t, svc.Send(context.Background(), "scout.json", "ping"))
	require.Eventually(t, func() bool {
		messages, _ := svc.Messages("scout.json")
		return len(messages) == 2
	}, time.Second, 5*time.Millisecond)

	svc.Clear("sage.json")

	messages, _ := svc.Messages("sage.json")
	assert.Empty(t, messages)

	messages, _ = svc.Messages("scout.json")
	assert.Len(t, messages, 2)
}

func TestHistoryExcludesFailedAndCanceled(t *testing.T) {
	messages := []*entity.ChatMessage{
		{Role: entity.MessageRoleUser, Content: "a", Status: entity.MessageStatusCompleted},
		{Role: entity.MessageRoleAgent, Content: "b", Status: entity.MessageStatusCompleted},
		{Role: entity.MessageRoleUser, Content: "c", Status: entity.MessageStatusFailed},
		{Role: entity.MessageRoleUser, Content: "d", Status: entity.MessageStatusCanceled},
	}

	history := buildHistory(messages)
	require.Len(t, history, 2)
	assert.Equal(t, agent.Message{Role: "user", Content: "a"}, history[0])
	assert.Equal(t, agent.Message{Role: "assistant", Content: "b"}, history[1])
}

func TestHistoryKeepsOnlyMostRecentEntries(t *testing.T) {
	messages := make([]*entity.ChatMessage, 0, historyLimit+5)
	for i := 0; i < historyLimit+5; i++ {
		messages = append(messages, &entity.ChatMessage{
			Role:    entity.MessageRoleUser,
			Content: string(rune('a' + i)),
			Status:  entity.MessageStatusCompleted,
		})
	}

	history := buildHistory(messages)
	require.Len(t, history, historyLimit)
	assert.Equal(t, messages[5].Content, history[0].Content)
	assert.Equal(t, messages[len(messages)-1].Content, history[len(history)-1].Content)
}
