package service

import (
	"context"
	"sync"
	"time"

	"agent-dashboard-be/internal/entity"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/repository/memory"
	"agent-dashboard-be/pkg/agent"
	"agent-dashboard-be/pkg/eventbus"
	"agent-dashboard-be/pkg/events"

	"github.com/google/uuid"
)

// historyLimit caps how much context each prompt carries to the agent.
const historyLimit = 10

type IChatService interface {
	// Send appends a pending user message and issues the agent call in the
	// background. Empty content is a no-op: nothing is appended, no call made.
	Send(ctx context.Context, pathName, content string) error

	// Cancel marks the last pending message canceled. Cooperative only: the
	// in-flight agent call keeps running, its reply is discarded on arrival.
	Cancel(pathName string)

	// Clear empties exactly that character's session.
	Clear(pathName string)

	// Messages returns a snapshot of the session and its in-progress flag.
	Messages(pathName string) ([]*entity.ChatMessage, bool)
}

type chatService struct {
	sessions *memory.SessionRepository
	provider agent.CompletionProvider
	bus      *eventbus.Bus
	logger   logger.ILogger
	timeout  time.Duration

	// One mutex per character session. All mutations of a session's message
	// log, including the async completion callback, run under its lock.
	locks sync.Map // path_name -> *sync.Mutex
}

func NewChatService(
	sessions *memory.SessionRepository,
	provider agent.CompletionProvider,
	bus *eventbus.Bus,
	log logger.ILogger,
	timeout time.Duration,
) IChatService {
	return &chatService{
		sessions: sessions,
		provider: provider,
		bus:      bus,
		logger:   log,
		timeout:  timeout,
	}
}

func (s *chatService) lock(pathName string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(pathName, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *chatService) Send(ctx context.Context, pathName, content string) error {
	if content == "" {
		return nil
	}

	mu := s.lock(pathName)
	mu.Lock()
	session := s.sessions.LoadOrCreate(pathName)

	// History is snapshotted before the optimistic append: the new message is
	// the prompt, not context.
	history := buildHistory(session.Messages)

	msg := &entity.ChatMessage{
		Id:        uuid.New(),
		Role:      entity.MessageRoleUser,
		Content:   content,
		Status:    entity.MessageStatusPending,
		CreatedAt: time.Now(),
	}
	session.Messages = append(session.Messages, msg)
	s.sessions.Save(session)
	mu.Unlock()

	s.publish(events.NewChatEvent(events.TypeChatMessageAppended, pathName, map[string]interface{}{
		"message_id": msg.Id.String(),
		"content":    content,
	}))

	go s.complete(pathName, content, history)
	return nil
}

// complete runs the agent call and settles the pending message.
func (s *chatService) complete(pathName, prompt string, history []agent.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	reply, err := s.provider.Prompt(ctx, pathName, prompt, history)

	mu := s.lock(pathName)
	mu.Lock()
	defer mu.Unlock()

	session := s.sessions.LoadOrCreate(pathName)
	last := session.LastMessage()
	if last == nil || last.Status == entity.MessageStatusCanceled {
		// The user canceled (or cleared) before the reply arrived. Drop it.
		s.logger.Info("Chat", "Discarding reply for canceled message", map[string]interface{}{"path_name": pathName})
		return
	}

	if err != nil {
		if last.Status == entity.MessageStatusPending {
			last.Status = entity.MessageStatusFailed
			s.sessions.Save(session)
		}
		s.logger.Error("Chat", "Agent call failed", map[string]interface{}{"path_name": pathName, "error": err.Error()})
		s.publish(events.NewChatEvent(events.TypeChatMessageFailed, pathName, nil))
		return
	}

	if last.Status == entity.MessageStatusPending {
		last.Status = entity.MessageStatusCompleted
	}
	agentMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		Role:      entity.MessageRoleAgent,
		Content:   reply,
		Status:    entity.MessageStatusCompleted,
		CreatedAt: time.Now(),
	}
	session.Messages = append(session.Messages, agentMsg)
	s.sessions.Save(session)

	s.publish(events.NewChatEvent(events.TypeChatMessageResolved, pathName, map[string]interface{}{
		"message_id": agentMsg.Id.String(),
		"content":    reply,
	}))
}

func (s *chatService) Cancel(pathName string) {
	mu := s.lock(pathName)
	mu.Lock()
	defer mu.Unlock()

	session, found := s.sessions.Get(pathName)
	if !found {
		return
	}
	last := session.LastMessage()
	if last == nil || last.Status != entity.MessageStatusPending {
		return
	}
	last.Status = entity.MessageStatusCanceled
	s.sessions.Save(session)
	s.publish(events.NewChatEvent(events.TypeChatMessageCanceled, pathName, map[string]interface{}{
		"message_id": last.Id.String(),
	}))
}

func (s *chatService) Clear(pathName string) {
	mu := s.lock(pathName)
	mu.Lock()
	defer mu.Unlock()

	session := s.sessions.LoadOrCreate(pathName)
	session.Messages = make([]*entity.ChatMessage, 0)
	s.sessions.Save(session)
	s.publish(events.NewChatEvent(events.TypeChatCleared, pathName, nil))
}

func (s *chatService) Messages(pathName string) ([]*entity.ChatMessage, bool) {
	mu := s.lock(pathName)
	mu.Lock()
	defer mu.Unlock()

	session, found := s.sessions.Get(pathName)
	if !found {
		return []*entity.ChatMessage{}, false
	}
	out := make([]*entity.ChatMessage, len(session.Messages))
	for i, m := range session.Messages {
		cp := *m
		out[i] = &cp
	}
	return out, session.InProgress()
}

func (s *chatService) publish(event events.Event) {
	if err := s.bus.Publish(event); err != nil {
		s.logger.Warn("Chat", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}

// buildHistory maps prior messages to the agent wire format: failed and
// canceled entries are dropped, agent becomes assistant, and only the most
// recent entries are kept.
func buildHistory(messages []*entity.ChatMessage) []agent.Message {
	history := make([]agent.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Status == entity.MessageStatusFailed || msg.Status == entity.MessageStatusCanceled {
			continue
		}
		role := "user"
		if msg.Role == entity.MessageRoleAgent {
			role = "assistant"
		}
		history = append(history, agent.Message{Role: role, Content: msg.Content})
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	return history
}
