package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

// balanceStore holds the only two operations allowed to change a balance row.
type balanceStore struct {
	repo ports.BalanceRepository
	now  func() time.Time
}

// add credits value to owner, creating the row on first credit.
func (b balanceStore) add(ctx context.Context, tx pgx.Tx, owner domain.Name, value domain.Asset) error {
	rec, err := b.repo.GetForUpdate(ctx, tx, owner, value.Symbol.Code)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock balance %s: %w", owner, err))
	}
	if rec == nil {
		err := b.repo.Insert(ctx, tx, &domain.BalanceRecord{Owner: owner, Balance: value, UpdatedAt: b.now()})
		if err != nil {
			return apperror.InternalError(fmt.Errorf("insert balance %s: %w", owner, err))
		}
		return nil
	}

	sum, err := rec.Balance.Add(value)
	if err != nil {
		return arithmeticError(err)
	}
	if err := b.repo.Update(ctx, tx, owner, sum); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance %s: %w", owner, err))
	}
	return nil
}

// sub debits value from owner. A row that reaches exactly zero is deleted.
func (b balanceStore) sub(ctx context.Context, tx pgx.Tx, owner domain.Name, value domain.Asset) error {
	rec, err := b.repo.GetForUpdate(ctx, tx, owner, value.Symbol.Code)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock balance %s: %w", owner, err))
	}
	if rec == nil {
		return apperror.ErrNoBalance()
	}
	if rec.Balance.Symbol != value.Symbol {
		return apperror.ErrSymbolMismatch()
	}
	if rec.Balance.Amount < value.Amount {
		return apperror.ErrOverdrawn()
	}

	if rec.Balance.Amount == value.Amount {
		if err := b.repo.Delete(ctx, tx, owner, value.Symbol.Code); err != nil {
			return apperror.InternalError(fmt.Errorf("delete balance %s: %w", owner, err))
		}
		return nil
	}

	diff, err := rec.Balance.Sub(value)
	if err != nil {
		return arithmeticError(err)
	}
	if err := b.repo.Update(ctx, tx, owner, diff); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance %s: %w", owner, err))
	}
	return nil
}

func arithmeticError(err error) error {
	if errors.Is(err, domain.ErrSymbolMismatch) {
		return apperror.ErrSymbolMismatch()
	}
	return apperror.InternalError(err)
}
