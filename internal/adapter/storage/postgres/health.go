package postgres

import (
	"context"
	"errors"
	"fmt"
)

const schemaProbe = `SELECT to_regclass('account_operations') IS NOT NULL`

// errSchemaMissing means the database answers but Migrate never ran on it.
var errSchemaMissing = errors.New("ledger schema missing: account_operations")

// Ping checks that the database answers and holds the ledger tables.
func (r *AccountRepo) Ping(ctx context.Context) error {
	var present bool
	if err := r.pool.QueryRow(ctx, schemaProbe).Scan(&present); err != nil {
		return fmt.Errorf("probing ledger schema: %w", err)
	}
	if !present {
		return errSchemaMissing
	}
	return nil
}

func (r *AccountRepo) Name() string {
	return "postgresql"
}
