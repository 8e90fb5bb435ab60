package postgres

import (
	"context"
	"fmt"

	"asset-exchange/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository on the accounts table.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Exists reports whether name is registered, reading through tx.
func (r *AccountRepo) Exists(ctx context.Context, tx pgx.Tx, name domain.Name) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE name = $1)`, name.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	return exists, nil
}

// Create registers an account. It returns false when the name was taken.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (name, created_at) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		a.Name.String(), a.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert account: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
