package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

var migrations = []string{
	createCustomersTable,
	createReservationsTable,
	widenIdentifierColumns,
}

// RunMigrations applies the schema. Every statement is idempotent so it is
// safe to run on each start.
func RunMigrations(ctx context.Context, db DBPool, logger *slog.Logger) error {
	for i, migration := range migrations {
		logger.Info("Running migration", "step", i+1, "total", len(migrations))
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	logger.Info("All migrations completed successfully")
	return nil
}

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
  id BIGSERIAL PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(last_name, first_name);
`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
  id BIGSERIAL PRIMARY KEY,
  customer_id BIGINT NOT NULL REFERENCES customers(id),
  start_at TIMESTAMP WITH TIME ZONE NOT NULL,
  num_guests INTEGER NOT NULL,
  notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_reservations_customer_id ON reservations(customer_id);
`

// widenIdentifierColumns upgrades databases created while ids were 32-bit.
// Altering a column to its current type is a no-op.
const widenIdentifierColumns = `
ALTER TABLE customers ALTER COLUMN id TYPE BIGINT;
ALTER SEQUENCE IF EXISTS customers_id_seq AS BIGINT;
ALTER TABLE reservations
  ALTER COLUMN id TYPE BIGINT,
  ALTER COLUMN customer_id TYPE BIGINT;
ALTER SEQUENCE IF EXISTS reservations_id_seq AS BIGINT;
`
