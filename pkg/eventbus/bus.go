package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agent-dashboard-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic carries every dashboard event. Consumers fan out by envelope type.
const Topic = "dashboard.events"

// Envelope is the wire form of an event on the bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Bus is an in-process pub/sub built on watermill's gochannel transport.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func New(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			// Publishers fire from request and session paths; never let a
			// slow consumer stall them.
			OutputChannelBuffer: 256,
		}, logger),
	}
}

func (b *Bus) Publish(event events.Event) error {
	data, err := json.Marshal(Envelope{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.pubSub.Publish(Topic, msg)
}

func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, Topic)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// Decode parses a bus message back into an envelope.
func Decode(msg *message.Message) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode event envelope: %w", err)
	}
	return env, nil
}
