package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/kafka"
)

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mu                    sync.Mutex
	createdEvents         []*domain.Booking
	confirmedEvents       []*domain.Booking
	reminderEvents        []*domain.Booking
	publishCreatedError   error
	publishConfirmedError error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishCreatedError != nil {
		return m.publishCreatedError
	}
	m.createdEvents = append(m.createdEvents, booking)
	return nil
}

func (m *MockEventPublisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishConfirmedError != nil {
		return m.publishConfirmedError
	}
	m.confirmedEvents = append(m.confirmedEvents, booking)
	return nil
}

func (m *MockEventPublisher) PublishReminderSent(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminderEvents = append(m.reminderEvents, booking)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

func (m *MockEventPublisher) GetCreatedEvents() []*domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createdEvents
}

func (m *MockEventPublisher) GetConfirmedEvents() []*domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmedEvents
}

func (m *MockEventPublisher) GetReminderEvents() []*domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminderEvents
}

// fakeProducer records produced messages
type fakeProducer struct {
	messages []*kafka.Message
	err      error
	closed   bool
}

func (f *fakeProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeProducer) Close() { f.closed = true }

func TestNoOpEventPublisher(t *testing.T) {
	publisher := NewNoOpEventPublisher()
	ctx := context.Background()
	booking := &domain.Booking{ID: "b-1", SessionID: "s-1", Seats: 2, Status: domain.BookingStatusPendingPayment}

	t.Run("PublishBookingCreated returns nil", func(t *testing.T) {
		if err := publisher.PublishBookingCreated(ctx, booking); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("PublishBookingConfirmed returns nil", func(t *testing.T) {
		if err := publisher.PublishBookingConfirmed(ctx, booking); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("PublishReminderSent returns nil", func(t *testing.T) {
		if err := publisher.PublishReminderSent(ctx, booking); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := publisher.Close(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})
}

func TestKafkaEventPublisher_PublishEvent(t *testing.T) {
	ctx := context.Background()
	booking := &domain.Booking{
		ID:               "b-42",
		WorkshopSlug:     "pottery",
		SessionID:        "s-7",
		CustomerEmail:    "asha@example.com",
		Seats:            2,
		Amount:           4998.0,
		Status:           domain.BookingStatusConfirmed,
		PaymentReference: "pay_1",
	}

	prod := &fakeProducer{}
	publisher := newKafkaEventPublisher(prod, "", "")

	if err := publisher.PublishBookingConfirmed(ctx, booking); err != nil {
		t.Fatalf("PublishBookingConfirmed() error = %v", err)
	}
	if len(prod.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(prod.messages))
	}

	msg := prod.messages[0]
	if msg.Topic != "handiq-booking-events" {
		t.Errorf("expected default topic, got %s", msg.Topic)
	}
	if string(msg.Key) != "s-7" {
		t.Errorf("expected key to be the session id, got %s", msg.Key)
	}
	if msg.Headers["event_type"] != string(domain.BookingEventConfirmed) {
		t.Errorf("unexpected event_type header %q", msg.Headers["event_type"])
	}

	var event domain.BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event.BookingID != booking.ID || event.Currency != domain.Currency || event.PaymentReference != "pay_1" {
		t.Errorf("unexpected event payload %+v", event)
	}

	_ = publisher.Close()
	if !prod.closed {
		t.Error("expected producer to be closed")
	}
}

func TestKafkaEventPublisher_ProduceError(t *testing.T) {
	prod := &fakeProducer{err: errors.New("broker down")}
	publisher := newKafkaEventPublisher(prod, "topic", "svc")

	err := publisher.PublishReminderSent(context.Background(), &domain.Booking{ID: "b-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, prod.err) {
		t.Errorf("expected wrapped producer error, got %v", err)
	}
}

func TestNewKafkaEventPublisher_RequiresBrokers(t *testing.T) {
	if _, err := NewKafkaEventPublisher(context.Background(), nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewKafkaEventPublisher(context.Background(), &EventPublisherConfig{}); err == nil {
		t.Error("expected error for missing brokers")
	}
}
