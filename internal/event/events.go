package event

import (
	"context"
	"time"
)

type CustomerEventPayload struct {
	CustomerID       string    `json:"customerId"`
	SerialNumber     int64     `json:"serialNumber"`
	Name             string    `json:"name"`
	Mobile           string    `json:"mobile"`
	InstallationDate time.Time `json:"installationDate"`
	MonthlyRent      int64     `json:"monthlyRent"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	CustomerID string    `json:"customerId"`
}

// ReminderGeneratedEvent is emitted for every consolidated reminder produced
// by the daily batch so a downstream SMS/WhatsApp dispatcher can deliver it.
type ReminderGeneratedEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	ReminderID     string    `json:"reminderId"`
	CustomerID     string    `json:"customerId"`
	CustomerMobile string    `json:"customerMobile"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	MessageHi      string    `json:"messageHi"`
}

type Publisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error
	PublishReminderGenerated(ctx context.Context, event ReminderGeneratedEvent) error
}

// NoopPublisher drops all events. Used when RabbitMQ is disabled (guest mode).
type NoopPublisher struct{}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error { return nil }

func (NoopPublisher) PublishCustomerDeleted(context.Context, CustomerDeletedEvent) error { return nil }

func (NoopPublisher) PublishReminderGenerated(context.Context, ReminderGeneratedEvent) error {
	return nil
}
