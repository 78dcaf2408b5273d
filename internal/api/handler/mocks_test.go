package handler

import (
	"context"
	"io"
	"log/slog"
	"lunchly/internal/domain/customer"
	"lunchly/internal/domain/reservation"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) ListAll(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) GetByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) Search(ctx context.Context, term string) ([]*customer.Customer, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) TopTen(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) GetReservations(ctx context.Context, c *customer.Customer) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockCustomerService) Create(ctx context.Context, details customer.Details) (*customer.Customer, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, customerID int64, details customer.Details) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) ListForCustomer(ctx context.Context, customerID int64) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) Create(ctx context.Context, customerID int64, startAt time.Time, numGuests int, notes string) (*reservation.Reservation, error) {
	args := m.Called(ctx, customerID, startAt, numGuests, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

// recordingRenderer captures what a handler hands to the view layer.
type recordingRenderer struct {
	calls []renderCall
	err   error
}

type renderCall struct {
	status int
	name   string
	data   map[string]any
}

func (r *recordingRenderer) Render(w http.ResponseWriter, status int, name string, data map[string]any) error {
	r.calls = append(r.calls, renderCall{status: status, name: name, data: data})
	if r.err != nil && name != "error.html" {
		return r.err
	}
	w.WriteHeader(status)
	return nil
}

func (r *recordingRenderer) last() renderCall {
	if len(r.calls) == 0 {
		return renderCall{}
	}
	return r.calls[len(r.calls)-1]
}

func newTestRouter(ch *CustomerHandler, rh *ReservationHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", ch.ListOrSearch)
	r.Get("/top-ten/", ch.TopTen)
	r.Get("/add/", ch.NewForm)
	r.Post("/add/", ch.Create)
	r.Get("/{id}/", ch.Detail)
	r.Get("/{id}/edit/", ch.EditForm)
	r.Post("/{id}/edit/", ch.Update)
	if rh != nil {
		r.Post("/{id}/add-reservation/", rh.Create)
	}
	return r
}
