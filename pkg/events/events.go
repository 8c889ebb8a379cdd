// Package events publishes domain events about bookings, stays and
// service sales after they are committed.
package events

import (
	"context"
	"time"

	"hotelier/pkg/kafka"
	"hotelier/pkg/logger"
	"hotelier/pkg/middleware"
)

const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	BookingDeleted   = "booking.deleted"

	StayCheckedIn      = "stay.checked_in"
	StayCheckedOut     = "stay.checked_out"
	StayPaymentApplied = "stay.payment_applied"

	ServiceSaleCreated = "service_sale.created"
	ServiceSaleUpdated = "service_sale.updated"
	ServiceSaleDeleted = "service_sale.deleted"
)

const schemaVersion = "1"

type Event struct {
	Type        string
	AggregateID string
	Payload     any
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
	timeout  time.Duration
}

func NewKafkaPublisher(producer *kafka.Producer, source string, timeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source, timeout: timeout}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event Event) error {
	msg, err := kafka.NewMessage().
		WithTopic(topic).
		WithKey(event.AggregateID).
		WithEventType(event.Type).
		WithSource(p.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithValue(event.Payload).
		Build()
	if err != nil {
		return err
	}

	// the write already committed; a client disconnect must not drop the event
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	return p.producer.Publish(ctx, msg)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }

// Emit publishes and logs a failure instead of returning it. Callers use it
// after the state change is durable, when an error can no longer undo it.
func Emit(ctx context.Context, pub Publisher, log *logger.Logger, topic string, event Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, event); err != nil {
		log.Warn("Failed to publish domain event",
			"event_type", event.Type,
			"aggregate_id", event.AggregateID,
			"topic", topic,
			"error", err,
		)
	}
}
