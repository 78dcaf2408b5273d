package event

import (
	"context"
	"time"
)

const (
	RoutingKeyCustomerCreated    = "customer.created"
	RoutingKeyCustomerUpdated    = "customer.updated"
	RoutingKeyReservationCreated = "reservation.created"
)

type CustomerPayload struct {
	CustomerID int64  `json:"customerId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone,omitempty"`
}

type CustomerEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Payload   CustomerPayload `json:"payload"`
}

type ReservationPayload struct {
	ReservationID int64     `json:"reservationId"`
	CustomerID    int64     `json:"customerId"`
	StartAt       time.Time `json:"startAt"`
	NumGuests     int       `json:"numGuests"`
}

type ReservationEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   ReservationPayload `json:"payload"`
}

type Publisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerEvent) error
	PublishReservationCreated(ctx context.Context, event ReservationEvent) error
}

// NoopPublisher drops every event. Used when messaging is disabled.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerEvent) error { return nil }

func (NoopPublisher) PublishCustomerUpdated(context.Context, CustomerEvent) error { return nil }

func (NoopPublisher) PublishReservationCreated(context.Context, ReservationEvent) error { return nil }
