package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"lunchly/internal/infrastructure/monitoring"
	"lunchly/internal/pkg/apperrors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

// DBPool is the query gateway every repository talks to.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var errMsgFormat = "%w: %w"

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			contextLogger.Warn("Database foreign key violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: referenced row does not exist (%s)", apperrors.ErrNotFound, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s: %w", apperrors.ErrDatabase, pgErr.Code, err)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}

// observe records the latency of one named query.
func observe(queryName string, start time.Time, err error) {
	monitoring.RecordDBQuery(queryName, err, time.Since(start))
}
