package service

import (
	"context"
	"time"

	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/websocket"
	"agent-dashboard-be/pkg/eventbus"
	"agent-dashboard-be/pkg/events"
	"agent-dashboard-be/pkg/natspub"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IConsumerService drains the in-process event bus: every event is logged,
// pushed to connected dashboards over the websocket hub, and, when NATS is
// configured, mirrored to the external bus.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	bus     *eventbus.Bus
	hub     *websocket.Hub
	natsPub *natspub.Publisher // nil when NATS is not configured
	logger  logger.ILogger
}

func NewConsumerService(
	bus *eventbus.Bus,
	hub *websocket.Hub,
	natsPub *natspub.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		bus:     bus,
		hub:     hub,
		natsPub: natsPub,
		logger:  log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	env, err := eventbus.Decode(msg)
	if err != nil {
		cs.logger.Error("Consumer", "Failed to decode event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // ack malformed messages to prevent infinite retry
		return
	}

	cs.logger.Info("Consumer", "Event", map[string]interface{}{"type": env.Type, "payload": env.Payload})

	cs.hub.Broadcast(env)

	if cs.natsPub != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := cs.natsPub.Publish(pubCtx, events.BaseEvent{
			Type:       env.Type,
			Data:       env.Payload,
			OccurredAt: env.OccurredAt,
		})
		cancel()
		if err != nil {
			cs.logger.Warn("Consumer", "Failed to mirror event to NATS", map[string]interface{}{"type": env.Type, "error": err.Error()})
		}
	}

	msg.Ack()
}
