package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Topic carries every domain event the CRM emits.
const Topic = "crm.events"

// Event types published by the services.
const (
	TypeLeadCreated     = "lead.created"
	TypeLeadConverted   = "lead.converted"
	TypePaymentReceived = "payment.received"
)

// Event is the envelope published on the event bus.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// NewEvent builds an event with identity and timestamp filled in.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Source:     "crm-service",
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// EventPublisher abstracts the outbound event bus. Publishing is best-effort:
// callers log failures and never fail the primary operation over them.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ===== WATERMILL-BACKED PUBLISHER =====

type watermillPublisher struct {
	publisher message.Publisher
}

// NewGoChannelBus creates the in-process pub/sub used when no Kafka brokers
// are configured. The returned GoChannel serves both as publisher and as the
// subscriber side for the notification dispatcher.
func NewGoChannelBus(logger *slog.Logger) (*gochannel.GoChannel, EventPublisher) {
	bus := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return bus, &watermillPublisher{publisher: bus}
}

// NewKafkaPublisher creates a Kafka-backed publisher for deployments where
// other services consume CRM events.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return &watermillPublisher{publisher: publisher}, nil
}

func (p *watermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// ===== MOCK PUBLISHER (tests) =====

type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
