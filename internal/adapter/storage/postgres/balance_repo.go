package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-exchange/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository on the balances table.
// Rows with a zero amount are never stored; the table enforces amount > 0.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

func scanBalance(row pgx.Row) (*domain.BalanceRecord, error) {
	var (
		owner     string
		code      string
		precision int16
		amount    int64
		b         domain.BalanceRecord
	)
	if err := row.Scan(&owner, &code, &precision, &amount, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Owner = domain.Name(owner)
	b.Balance = domain.NewAsset(amount, domain.Symbol{Precision: uint8(precision), Code: code})
	return &b, nil
}

// GetForUpdate fetches and row-locks owner's balance of code.
// This MUST be called within a transaction.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, owner domain.Name, code string) (*domain.BalanceRecord, error) {
	query := `SELECT owner, symbol_code, precision, amount, updated_at
		FROM balances WHERE owner = $1 AND symbol_code = $2 FOR UPDATE`

	b, err := scanBalance(tx.QueryRow(ctx, query, owner.String(), code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Insert creates a balance row within a transaction.
func (r *BalanceRepo) Insert(ctx context.Context, tx pgx.Tx, rec *domain.BalanceRecord) error {
	query := `INSERT INTO balances (owner, symbol_code, precision, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		rec.Owner.String(), rec.Balance.Symbol.Code, int16(rec.Balance.Symbol.Precision),
		rec.Balance.Amount, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}
	return nil
}

// Update overwrites owner's amount of balance's symbol within a transaction.
func (r *BalanceRepo) Update(ctx context.Context, tx pgx.Tx, owner domain.Name, balance domain.Asset) error {
	query := `UPDATE balances SET amount = $1, updated_at = NOW() WHERE owner = $2 AND symbol_code = $3`

	tag, err := tx.Exec(ctx, query, balance.Amount, owner.String(), balance.Symbol.Code)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance not found: %s/%s", owner, balance.Symbol.Code)
	}
	return nil
}

// Delete removes owner's row of code within a transaction.
func (r *BalanceRepo) Delete(ctx context.Context, tx pgx.Tx, owner domain.Name, code string) error {
	query := `DELETE FROM balances WHERE owner = $1 AND symbol_code = $2`

	tag, err := tx.Exec(ctx, query, owner.String(), code)
	if err != nil {
		return fmt.Errorf("delete balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance not found: %s/%s", owner, code)
	}
	return nil
}

// ListByOwner returns every row of owner ordered by symbol code.
func (r *BalanceRepo) ListByOwner(ctx context.Context, owner domain.Name) ([]domain.BalanceRecord, error) {
	query := `SELECT owner, symbol_code, precision, amount, updated_at
		FROM balances WHERE owner = $1 ORDER BY symbol_code`

	rows, err := r.pool.Query(ctx, query, owner.String())
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	records := make([]domain.BalanceRecord, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		records = append(records, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balances: %w", err)
	}
	return records, nil
}
