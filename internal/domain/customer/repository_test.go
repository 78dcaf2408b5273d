package customer

import (
	"context"
	"lunchly/internal/domain/reservation"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, customer)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Customer); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerRepository) FindAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Search(ctx context.Context, term string) ([]*Customer, error) {
	ret := _m.Called(ctx, term)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) TopByReservations(ctx context.Context, limit int) ([]*Customer, error) {
	ret := _m.Called(ctx, limit)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (_m *MockReservationService) ListForCustomer(ctx context.Context, customerID int64) ([]*reservation.Reservation, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*reservation.Reservation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*reservation.Reservation)
	}

	return r0, ret.Error(1)
}

func (_m *MockReservationService) Create(ctx context.Context, customerID int64, startAt time.Time, numGuests int, notes string) (*reservation.Reservation, error) {
	ret := _m.Called(ctx, customerID, startAt, numGuests, notes)

	var r0 *reservation.Reservation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*reservation.Reservation)
	}

	return r0, ret.Error(1)
}
