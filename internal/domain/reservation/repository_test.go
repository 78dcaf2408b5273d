package reservation

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Save(ctx context.Context, reservation *Reservation) error {
	ret := _m.Called(ctx, reservation)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Reservation) error); ok {
		r0 = rf(ctx, reservation)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*Reservation, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Reservation
	if rf, ok := ret.Get(0).(func(context.Context, int64) []*Reservation); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*Reservation)
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
