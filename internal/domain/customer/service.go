package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"lunchly/internal/domain/reservation"
	"lunchly/internal/event"
	"lunchly/internal/pkg/apperrors"
	"os"
	"strings"
	"time"
)

const customerNotFound = "Customer not found by repository"

// Details holds the four mutable customer fields as submitted by a form.
type Details struct {
	FirstName string
	LastName  string
	Phone     string
	Notes     string
}

type CustomerService interface {
	ListAll(ctx context.Context) ([]*Customer, error)
	GetByID(ctx context.Context, customerID int64) (*Customer, error)
	Search(ctx context.Context, term string) ([]*Customer, error)
	TopTen(ctx context.Context) ([]*Customer, error)
	GetReservations(ctx context.Context, customer *Customer) ([]*reservation.Reservation, error)
	Create(ctx context.Context, details Details) (*Customer, error)
	Update(ctx context.Context, customerID int64, details Details) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo         CustomerRepository
	reservations reservation.Service
	pub          event.Publisher
	logger       *slog.Logger
}

func NewCustomerService(repo CustomerRepository, reservations reservation.Service, pub event.Publisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if reservations == nil {
		panic("reservation service cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}

	return &customerService{
		repo:         repo,
		reservations: reservations,
		pub:          pub,
		logger:       logger.With(slog.String("component", "customerService")),
	}
}

func newCustomerEvent(c *Customer) event.CustomerEvent {
	return event.CustomerEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerPayload{
			CustomerID: c.ID(),
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Phone:      c.Phone,
		},
	}
}

func (s *customerService) ListAll(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository FindAll")
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) GetByID(ctx context.Context, customerID int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Calling repository FindByID")

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, customerNotFound)
			return nil, apperrors.NewNotFound("No such customer: %d", customerID)
		}
		logger.ErrorContext(ctx, "Repository error getting customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return customer, nil
}

func (s *customerService) Search(ctx context.Context, term string) ([]*Customer, error) {
	logger := s.logger.With(slog.String("term", term))
	logger.DebugContext(ctx, "Calling repository Search")

	customers, err := s.repo.Search(ctx, term)
	if err != nil {
		logger.ErrorContext(ctx, "Repository error searching customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	logger.InfoContext(ctx, "Customer search finished", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) TopTen(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository TopByReservations")
	customers, err := s.repo.TopByReservations(ctx, TopTenLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error ranking customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to rank customers by reservations: %w", err)
	}
	if len(customers) > TopTenLimit {
		customers = customers[:TopTenLimit]
	}
	return customers, nil
}

func (s *customerService) GetReservations(ctx context.Context, customer *Customer) ([]*reservation.Reservation, error) {
	if customer == nil || customer.IsNew() {
		return []*reservation.Reservation{}, nil
	}
	reservations, err := s.reservations.ListForCustomer(ctx, customer.ID())
	if err != nil {
		s.logger.ErrorContext(ctx, "Reservation service error loading reservations", slog.Int64("customerID", customer.ID()), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load reservations for customer %d: %w", customer.ID(), err)
	}
	return reservations, nil
}

func (s *customerService) Create(ctx context.Context, details Details) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	if err := requireNames(details); err != nil {
		s.logger.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		return nil, err
	}

	customer := NewCustomer(details.FirstName, details.LastName, details.Phone, details.Notes)
	if err := s.repo.Save(ctx, customer); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logger := s.logger.With(slog.Int64("customerID", customer.ID()))
	if pubErr := s.pub.PublishCustomerCreated(ctx, newCustomerEvent(customer)); pubErr != nil {
		logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logger.InfoContext(ctx, "Successfully created new customer")
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, customerID int64, details Details) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to update customer")

	if err := requireNames(details); err != nil {
		logger.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		return nil, err
	}

	customer, err := s.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.FirstName = details.FirstName
	customer.LastName = details.LastName
	customer.Phone = details.Phone
	customer.SetNotes(details.Notes)

	if err := s.repo.Save(ctx, customer); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before save could complete")
			return nil, apperrors.NewNotFound("No such customer: %d", customerID)
		}
		logger.ErrorContext(ctx, "Repository failed to save customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	if pubErr := s.pub.PublishCustomerUpdated(ctx, newCustomerEvent(customer)); pubErr != nil {
		logger.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}

	logger.InfoContext(ctx, "Successfully updated customer")
	return customer, nil
}

func requireNames(d Details) error {
	if strings.TrimSpace(d.FirstName) == "" {
		return apperrors.NewBadRequest("first name cannot be empty")
	}
	if strings.TrimSpace(d.LastName) == "" {
		return apperrors.NewBadRequest("last name cannot be empty")
	}
	return nil
}
