package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"lunchly/internal/event"
	"os"
	"time"
)

type Service interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]*Reservation, error)
	Create(ctx context.Context, customerID int64, startAt time.Time, numGuests int, notes string) (*Reservation, error)
}

var _ Service = (*reservationService)(nil)

type reservationService struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
}

func NewReservationService(repo Repository, pub event.Publisher, logger *slog.Logger) Service {
	if repo == nil {
		panic("reservation repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewReservationService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &reservationService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "reservationService")),
	}
}

func (s *reservationService) ListForCustomer(ctx context.Context, customerID int64) ([]*Reservation, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Listing reservations for customer")

	reservations, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		logger.ErrorContext(ctx, "Repository failed to list reservations", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list reservations for customer %d: %w", customerID, err)
	}
	return reservations, nil
}

func (s *reservationService) Create(ctx context.Context, customerID int64, startAt time.Time, numGuests int, notes string) (*Reservation, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to create reservation")

	r := NewReservation(customerID, startAt, numGuests, notes)
	if err := s.repo.Save(ctx, r); err != nil {
		logger.ErrorContext(ctx, "Repository failed to save new reservation", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new reservation: %w", err)
	}

	logger = logger.With(slog.Int64("reservationID", r.ID()))
	evt := event.ReservationEvent{
		Timestamp: time.Now(),
		Payload: event.ReservationPayload{
			ReservationID: r.ID(),
			CustomerID:    r.CustomerID(),
			StartAt:       r.StartAt,
			NumGuests:     r.NumGuests,
		},
	}
	if pubErr := s.pub.PublishReservationCreated(ctx, evt); pubErr != nil {
		logger.ErrorContext(ctx, "Reservation created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logger.InfoContext(ctx, "Successfully created reservation")
	return r, nil
}
