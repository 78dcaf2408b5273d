package reservation

import "context"

type Repository interface {
	Save(ctx context.Context, reservation *Reservation) error

	FindByCustomer(ctx context.Context, customerID int64) ([]*Reservation, error)
}
