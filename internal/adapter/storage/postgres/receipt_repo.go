package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"asset-exchange/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ReceiptRepo implements ports.ReceiptRepository on the deferred_receipts table.
type ReceiptRepo struct {
	pool Pool
}

// NewReceiptRepo creates a new ReceiptRepo.
func NewReceiptRepo(pool Pool) *ReceiptRepo {
	return &ReceiptRepo{pool: pool}
}

// upsertReceiptQuery inserts a receipt or overwrites one that is still
// pending, or failed only because its action could not be queued.
const upsertReceiptQuery = `INSERT INTO deferred_receipts (id, action, payload, status, error_code, execute_at, executed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		error_code = EXCLUDED.error_code,
		executed_at = EXCLUDED.executed_at
	WHERE deferred_receipts.status = 'PENDING'
		OR (deferred_receipts.status = 'FAILED'
			AND deferred_receipts.error_code = '` + domain.CodeSchedulerUnavailable + `'
			AND EXCLUDED.status <> 'PENDING')`

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func upsertReceipt(ctx context.Context, db execer, rec *domain.DeferredReceipt) (bool, error) {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return false, fmt.Errorf("marshal receipt payload: %w", err)
	}
	tag, err := db.Exec(ctx, upsertReceiptQuery,
		rec.ID, string(rec.Action), payload, string(rec.Status),
		rec.ErrorCode, rec.ExecuteAt, rec.ExecutedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Save upserts a receipt. A settled receipt is never overwritten.
func (r *ReceiptRepo) Save(ctx context.Context, rec *domain.DeferredReceipt) error {
	if _, err := upsertReceipt(ctx, r.pool, rec); err != nil {
		return fmt.Errorf("save receipt: %w", err)
	}
	return nil
}

// Settle upserts a receipt within a transaction. It returns false when the
// stored receipt was already settled.
func (r *ReceiptRepo) Settle(ctx context.Context, tx pgx.Tx, rec *domain.DeferredReceipt) (bool, error) {
	ok, err := upsertReceipt(ctx, tx, rec)
	if err != nil {
		return false, fmt.Errorf("settle receipt: %w", err)
	}
	return ok, nil
}

// GetByID fetches a receipt.
func (r *ReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeferredReceipt, error) {
	query := `SELECT id, action, payload, status, error_code, execute_at, executed_at
		FROM deferred_receipts WHERE id = $1`

	var (
		rec     domain.DeferredReceipt
		action  string
		status  string
		payload []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &action, &payload, &status, &rec.ErrorCode, &rec.ExecuteAt, &rec.ExecutedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	if err := json.Unmarshal(payload, &rec.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal receipt payload: %w", err)
	}
	rec.Action = domain.ActionName(action)
	rec.Status = domain.ReceiptStatus(status)
	return &rec, nil
}
