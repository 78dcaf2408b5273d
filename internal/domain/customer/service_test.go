package customer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lunchly/internal/domain/customer"
	"lunchly/internal/domain/reservation"
	"lunchly/internal/event"
	"lunchly/internal/pkg/apperrors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCustomerCreated(ctx context.Context, evt event.CustomerEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockPublisher) PublishCustomerUpdated(ctx context.Context, evt event.CustomerEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockPublisher) PublishReservationCreated(ctx context.Context, evt event.ReservationEvent) error {
	return m.Called(ctx, evt).Error(0)
}

type fixture struct {
	repo         *customer.MockCustomerRepository
	reservations *customer.MockReservationService
	pub          *mockPublisher
	service      customer.CustomerService
}

func setupTest() fixture {
	f := fixture{
		repo:         new(customer.MockCustomerRepository),
		reservations: new(customer.MockReservationService),
		pub:          new(mockPublisher),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = customer.NewCustomerService(f.repo, f.reservations, f.pub, logger)
	return f
}

func strPtr(s string) *string { return &s }

func TestCustomerService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		expected := []*customer.Customer{
			customer.Hydrate(2, "Jane", "Doe", nil, nil),
			customer.Hydrate(1, "Ann", "Smith", nil, nil),
		}
		f.repo.On("FindAll", ctx).Return(expected, nil).Once()

		got, err := f.service.ListAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, got)
		f.repo.AssertExpectations(t)
	})

	t.Run("Repository Failure", func(t *testing.T) {
		f := setupTest()
		dbError := fmt.Errorf("%w: connection reset", apperrors.ErrDatabase)
		f.repo.On("FindAll", ctx).Return(nil, dbError).Once()

		got, err := f.service.ListAll(ctx)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
	})
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()
	customerID := int64(42)

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		expected := customer.Hydrate(customerID, "Jane", "Doe", strPtr("555-1212"), strPtr("VIP"))
		f.repo.On("FindByID", ctx, customerID).Return(expected, nil).Once()

		got, err := f.service.GetByID(ctx, customerID)

		assert.NoError(t, err)
		assert.Same(t, expected, got)
	})

	t.Run("Not Found", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		got, err := f.service.GetByID(ctx, customerID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
		assert.Equal(t, "No such customer: 42", apperrors.Message(err))
	})

	t.Run("Repository Failure", func(t *testing.T) {
		f := setupTest()
		dbError := errors.New("timeout")
		f.repo.On("FindByID", ctx, customerID).Return(nil, dbError).Once()

		got, err := f.service.GetByID(ctx, customerID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, dbError)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("Passes term through", func(t *testing.T) {
		f := setupTest()
		expected := []*customer.Customer{customer.Hydrate(1, "Jane", "Doe", nil, nil)}
		f.repo.On("Search", ctx, "doe").Return(expected, nil).Once()

		got, err := f.service.Search(ctx, "doe")

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "Jane Doe", got[0].FullName())
	})

	t.Run("Empty result is not an error", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Search", ctx, "zzz").Return([]*customer.Customer{}, nil).Once()

		got, err := f.service.Search(ctx, "zzz")

		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCustomerService_TopTen(t *testing.T) {
	ctx := context.Background()

	t.Run("Requests ten and caps result", func(t *testing.T) {
		f := setupTest()
		ranked := make([]*customer.Customer, 0, 12)
		for i := 1; i <= 12; i++ {
			c := customer.Hydrate(int64(i), "First", "Last", nil, nil)
			c.ReservationCount = 20 - i
			ranked = append(ranked, c)
		}
		f.repo.On("TopByReservations", ctx, customer.TopTenLimit).Return(ranked, nil).Once()

		got, err := f.service.TopTen(ctx)

		assert.NoError(t, err)
		assert.Len(t, got, 10)
		for _, c := range got {
			assert.Positive(t, c.ReservationCount)
		}
	})

	t.Run("Repository Failure", func(t *testing.T) {
		f := setupTest()
		f.repo.On("TopByReservations", ctx, customer.TopTenLimit).Return(nil, errors.New("boom")).Once()

		_, err := f.service.TopTen(ctx)

		assert.ErrorContains(t, err, "failed to rank customers by reservations")
	})
}

func TestCustomerService_GetReservations(t *testing.T) {
	ctx := context.Background()

	t.Run("Delegates to reservation service", func(t *testing.T) {
		f := setupTest()
		c := customer.Hydrate(8, "Jane", "Doe", nil, nil)
		expected := []*reservation.Reservation{
			reservation.Hydrate(1, 8, time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), 4, strPtr("window seat")),
		}
		f.reservations.On("ListForCustomer", ctx, int64(8)).Return(expected, nil).Once()

		got, err := f.service.GetReservations(ctx, c)

		assert.NoError(t, err)
		assert.Equal(t, expected, got)
		f.reservations.AssertExpectations(t)
	})

	t.Run("Unsaved customer has no reservations", func(t *testing.T) {
		f := setupTest()

		got, err := f.service.GetReservations(ctx, customer.NewCustomer("A", "B", "", ""))

		assert.NoError(t, err)
		assert.Empty(t, got)
		f.reservations.AssertNotCalled(t, "ListForCustomer", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	details := customer.Details{FirstName: "Jane", LastName: "Doe", Phone: "555-1212", Notes: "VIP"}

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			match := c.IsNew() && c.FirstName == "Jane" && c.LastName == "Doe" && c.Phone == "555-1212" && c.Notes() == "VIP"
			if match {
				_ = c.MarkPersisted(17)
			}
			return match
		})).Return(nil).Once()
		f.pub.On("PublishCustomerCreated", ctx, mock.MatchedBy(func(e event.CustomerEvent) bool {
			return e.Payload.CustomerID == 17 && e.Payload.FirstName == "Jane"
		})).Return(nil).Once()

		created, err := f.service.Create(ctx, details)

		assert.NoError(t, err)
		if assert.NotNil(t, created) {
			assert.Equal(t, int64(17), created.ID())
		}
		f.repo.AssertExpectations(t)
		f.pub.AssertExpectations(t)
	})

	t.Run("Error - Empty First Name", func(t *testing.T) {
		f := setupTest()

		_, err := f.service.Create(ctx, customer.Details{FirstName: " ", LastName: "Doe"})

		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Repository Save Failure", func(t *testing.T) {
		f := setupTest()
		dbError := errors.New("database connection failed")
		f.repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(dbError).Once()

		created, err := f.service.Create(ctx, details)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to save new customer")
		f.pub.AssertNotCalled(t, "PublishCustomerCreated", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	customerID := int64(5)
	details := customer.Details{FirstName: "Janet", LastName: "Doe-Smith", Phone: "", Notes: ""}

	t.Run("Overwrites all mutable fields", func(t *testing.T) {
		f := setupTest()
		existing := customer.Hydrate(customerID, "Jane", "Doe", strPtr("555-1212"), strPtr("VIP"))
		f.repo.On("FindByID", ctx, customerID).Return(existing, nil).Once()
		f.repo.On("Save", ctx, existing).Return(nil).Once()
		f.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		updated, err := f.service.Update(ctx, customerID, details)

		assert.NoError(t, err)
		assert.Equal(t, customerID, updated.ID())
		assert.Equal(t, "Janet", updated.FirstName)
		assert.Equal(t, "Doe-Smith", updated.LastName)
		assert.Equal(t, "", updated.Phone)
		assert.Equal(t, "", updated.Notes())
		f.repo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		_, err := f.service.Update(ctx, customerID, details)

		assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Row vanished during save", func(t *testing.T) {
		f := setupTest()
		existing := customer.Hydrate(customerID, "Jane", "Doe", nil, nil)
		f.repo.On("FindByID", ctx, customerID).Return(existing, nil).Once()
		f.repo.On("Save", ctx, existing).Return(apperrors.ErrNotFound).Once()

		_, err := f.service.Update(ctx, customerID, details)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		f.pub.AssertNotCalled(t, "PublishCustomerUpdated", mock.Anything, mock.Anything)
	})

	t.Run("Publish failure is logged only", func(t *testing.T) {
		f := setupTest()
		existing := customer.Hydrate(customerID, "Jane", "Doe", nil, nil)
		f.repo.On("FindByID", ctx, customerID).Return(existing, nil).Once()
		f.repo.On("Save", ctx, existing).Return(nil).Once()
		f.pub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(errors.New("channel closed")).Once()

		_, err := f.service.Update(ctx, customerID, details)

		assert.NoError(t, err)
	})
}
