package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"lunchly/internal/domain/reservation"
	"lunchly/internal/pkg/apperrors"
	"os"
	"time"
)

const (
	findReservationsByCustomerSQL = `
        SELECT id, customer_id, start_at, num_guests, notes
        FROM reservations
        WHERE customer_id = $1
        ORDER BY start_at, id`

	insertReservationSQL = `
        INSERT INTO reservations (customer_id, start_at, num_guests, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	updateReservationSQL = `
        UPDATE reservations
        SET customer_id = $1,
            start_at = $2,
            num_guests = $3,
            notes = $4
        WHERE id = $5`
)

type ReservationRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ reservation.Repository = (*ReservationRepository)(nil)

func NewReservationRepository(db DBPool, logger *slog.Logger) *ReservationRepository {
	if db == nil {
		panic("DBPool cannot be nil for ReservationRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewReservationRepository, using default stderr handler")
	}
	return &ReservationRepository{db: db, logger: logger.With("component", "ReservationRepository")}
}

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	if res == nil {
		return apperrors.NewBadRequest("reservation cannot be nil")
	}
	if res.IsNew() {
		return r.create(ctx, res)
	}
	return r.update(ctx, res)
}

func (r *ReservationRepository) create(ctx context.Context, res *reservation.Reservation) (err error) {
	defer func(start time.Time) { observe("reservation_insert", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", res.CustomerID()))
	logger.InfoContext(ctx, "Attempting to insert new reservation")

	var id int64
	err = r.db.QueryRow(ctx, insertReservationSQL,
		res.CustomerID(),
		res.StartAt,
		res.NumGuests,
		res.Notes(),
	).Scan(&id)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to insert reservation", slog.Any("error", err))
		return translateDBError(err, logger)
	}

	if err = res.MarkPersisted(id); err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	logger.InfoContext(ctx, "Reservation inserted successfully", slog.Int64("reservationID", id))
	return nil
}

func (r *ReservationRepository) update(ctx context.Context, res *reservation.Reservation) (err error) {
	defer func(start time.Time) { observe("reservation_update", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("reservationID", res.ID()))
	logger.InfoContext(ctx, "Attempting to update reservation")

	cmdTag, err := r.db.Exec(ctx, updateReservationSQL,
		res.CustomerID(),
		res.StartAt,
		res.NumGuests,
		res.Notes(),
		res.ID(),
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to update reservation", slog.Any("error", err))
		return translateDBError(err, logger)
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Update affected zero rows, reservation likely not found")
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *ReservationRepository) FindByCustomer(ctx context.Context, customerID int64) (_ []*reservation.Reservation, err error) {
	defer func(start time.Time) { observe("reservation_find_by_customer", start, err) }(time.Now())

	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Attempting to find reservations for customer")

	rows, err := r.db.Query(ctx, findReservationsByCustomerSQL, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query reservations", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query reservations: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	reservations := make([]*reservation.Reservation, 0)
	for rows.Next() {
		var (
			id, ownerID int64
			startAt     time.Time
			numGuests   int
			notes       *string
		)
		if err := rows.Scan(&id, &ownerID, &startAt, &numGuests, &notes); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan reservation row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan reservation row: %w", apperrors.ErrDatabase, err)
		}
		reservations = append(reservations, reservation.Hydrate(id, ownerID, startAt, numGuests, notes))
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating reservation rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating reservation rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished finding reservations", slog.Int("count", len(reservations)))
	return reservations, nil
}
