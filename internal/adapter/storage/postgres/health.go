package postgres

import (
	"context"
	"errors"
	"fmt"
)

// HealthCheck implements ports.HealthChecker for PostgreSQL. The database is
// healthy once it answers and the ledger schema has been migrated.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var applied int
	err := h.pool.QueryRow(ctx, `SELECT count(*) FROM `+migrationTable).Scan(&applied)
	if err != nil {
		return fmt.Errorf("query %s: %w", migrationTable, err)
	}
	if applied == 0 {
		return errors.New("ledger schema not migrated")
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
