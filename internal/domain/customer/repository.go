package customer

import "context"

// TopTenLimit caps the reservation-count ranking.
const TopTenLimit = 10

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	Search(ctx context.Context, term string) ([]*Customer, error)

	TopByReservations(ctx context.Context, limit int) ([]*Customer, error)
}
