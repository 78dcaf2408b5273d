package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"lunchly/internal/domain/customer"
	"lunchly/internal/pkg/apperrors"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	selectCustomersSQL = `
        SELECT id, first_name, last_name, phone, notes
        FROM customers`

	findAllCustomersSQL = selectCustomersSQL + `
        ORDER BY last_name, first_name, id`

	findCustomerByIDSQL = selectCustomersSQL + `
        WHERE id = $1`

	searchCustomersSQL = selectCustomersSQL + `
        WHERE first_name ILIKE $1
           OR last_name ILIKE $1
        ORDER BY last_name, first_name, id`

	topCustomersByReservationsSQL = `
        SELECT c.id, c.first_name, c.last_name, c.phone, c.notes, COUNT(*) AS reservation_count
        FROM customers AS c
        JOIN reservations AS r ON c.id = r.customer_id
        GROUP BY c.id
        ORDER BY reservation_count DESC, c.last_name, c.first_name
        LIMIT $1`

	insertCustomerSQL = `
        INSERT INTO customers (first_name, last_name, phone, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	updateCustomerSQL = `
        UPDATE customers
        SET first_name = $1,
            last_name = $2,
            phone = $3,
            notes = $4
        WHERE id = $5`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

// Save inserts cust when it has no identifier yet and updates the row with
// its identifier otherwise.
func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return apperrors.NewBadRequest("customer cannot be nil")
	}

	if cust.IsNew() {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) (err error) {
	defer func(start time.Time) { observe("customer_insert", start, err) }(time.Now())

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("lastName", cust.LastName))

	var id int64
	err = r.db.QueryRow(ctx, insertCustomerSQL,
		cust.FirstName,
		cust.LastName,
		nullableText(cust.Phone),
		cust.Notes(),
	).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	if err = cust.MarkPersisted(id); err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", id))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) (err error) {
	defer func(start time.Time) { observe("customer_update", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", cust.ID()))
	logger.InfoContext(ctx, "Attempting to update customer")

	cmdTag, err := r.db.Exec(ctx, updateCustomerSQL,
		cust.FirstName,
		cust.LastName,
		nullableText(cust.Phone),
		cust.Notes(),
		cust.ID(),
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return translateDBError(err, logger)
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (_ *customer.Customer, err error) {
	defer func(start time.Time) { observe("customer_find_by_id", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Attempting to find customer by ID")

	cust, err := scanCustomer(r.db.QueryRow(ctx, findCustomerByIDSQL, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnContext(ctx, "Customer not found")
			return nil, apperrors.ErrNotFound
		}
		logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) (_ []*customer.Customer, err error) {
	defer func(start time.Time) { observe("customer_find_all", start, err) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to find all customers")
	return r.queryCustomers(ctx, "find all customers", findAllCustomersSQL)
}

// Search matches term as a case-insensitive substring of either name. LIKE
// wildcards in term are matched literally.
func (r *CustomerRepository) Search(ctx context.Context, term string) (_ []*customer.Customer, err error) {
	defer func(start time.Time) { observe("customer_search", start, err) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to search customers", slog.String("term", term))
	return r.queryCustomers(ctx, "search customers", searchCustomersSQL, "%"+likeEscaper.Replace(term)+"%")
}

func (r *CustomerRepository) TopByReservations(ctx context.Context, limit int) (_ []*customer.Customer, err error) {
	defer func(start time.Time) { observe("customer_top_by_reservations", start, err) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to rank customers by reservation count", slog.Int("limit", limit))

	rows, err := r.db.Query(ctx, topCustomersByReservationsSQL, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query top customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query top customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0, limit)
	for rows.Next() {
		var (
			id               int64
			first, last      string
			phone, notes     *string
			reservationCount int64
		)
		if err := rows.Scan(&id, &first, &last, &phone, &notes, &reservationCount); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan top customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan top customer row: %w", apperrors.ErrDatabase, err)
		}
		cust := customer.Hydrate(id, first, last, phone, notes)
		cust.ReservationCount = int(reservationCount)
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating top customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating top customer rows: %w", apperrors.ErrDatabase, err)
	}

	return customers, nil
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, op, query string, args ...any) ([]*customer.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to %s: %w", apperrors.ErrDatabase, op, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.String("op", op), slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished querying customers", slog.String("op", op), slog.Int("count", len(customers)))
	return customers, nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var (
		id           int64
		first, last  string
		phone, notes *string
	)
	if err := row.Scan(&id, &first, &last, &phone, &notes); err != nil {
		return nil, err
	}
	return customer.Hydrate(id, first, last, phone, notes), nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
