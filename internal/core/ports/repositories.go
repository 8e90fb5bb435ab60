package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"asset-exchange/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DescriptorRepository persists one AssetDescriptor per symbol code.
// Methods accepting pgx.Tx run inside the action's transaction and lock the row.
type DescriptorRepository interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.AssetDescriptor, error)
	Insert(ctx context.Context, tx pgx.Tx, descriptor *domain.AssetDescriptor) error
	UpdateSupply(ctx context.Context, tx pgx.Tx, code string, supply domain.Asset) error
	GetByCode(ctx context.Context, code string) (*domain.AssetDescriptor, error)
}

// BalanceRepository persists balance rows keyed by (owner, symbol code).
type BalanceRepository interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, owner domain.Name, code string) (*domain.BalanceRecord, error)
	Insert(ctx context.Context, tx pgx.Tx, record *domain.BalanceRecord) error
	Update(ctx context.Context, tx pgx.Tx, owner domain.Name, balance domain.Asset) error
	Delete(ctx context.Context, tx pgx.Tx, owner domain.Name, code string) error
	ListByOwner(ctx context.Context, owner domain.Name) ([]domain.BalanceRecord, error)
}

// AccountRepository is the directory of resolvable accounts.
type AccountRepository interface {
	Exists(ctx context.Context, tx pgx.Tx, name domain.Name) (bool, error)
	// Create returns false when the account was already registered.
	Create(ctx context.Context, account *domain.Account) (bool, error)
}

// ReceiptRepository stores the outcome of executed deferred actions.
// Save and Settle only overwrite a receipt that is still Settleable.
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *domain.DeferredReceipt) error
	// Settle writes receipt within tx and returns false when the stored
	// receipt was already settled.
	Settle(ctx context.Context, tx pgx.Tx, receipt *domain.DeferredReceipt) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeferredReceipt, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
