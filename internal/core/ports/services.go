package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"asset-exchange/internal/core/domain"

	"github.com/google/uuid"
)

// AuthorizationProvider is the gate every mutating action passes through.
type AuthorizationProvider interface {
	// Require fails with an AUTH_001 error unless the current action holds
	// a permission of account.
	Require(ctx context.Context, account domain.Name) error
}

// NotificationSink delivers transfer notices to observing accounts. Delivery is best-effort.
type NotificationSink interface {
	Notify(ctx context.Context, notice *domain.TransferNotice) error
}

// Scheduler accepts deferred actions for later, independent execution.
type Scheduler interface {
	Schedule(ctx context.Context, action *domain.DeferredAction) error
}

// DeferredQueue is the scheduler side the settlement worker consumes.
type DeferredQueue interface {
	Scheduler
	// ClaimDue leases and returns up to limit actions whose ExecuteAt is not
	// after now. A claimed action that is not acknowledged before its lease
	// runs out is handed out again. When some claimed bodies cannot be
	// decoded the decoded actions are returned with an *UnreadableActionsError.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DeferredAction, error)
	// Ack removes a claimed action for good.
	Ack(ctx context.Context, id uuid.UUID) error
}

// UnreadableActionsError lists claimed queue items whose bodies could not be decoded.
type UnreadableActionsError struct {
	IDs []uuid.UUID
	Err error
}

func (e *UnreadableActionsError) Error() string {
	return fmt.Sprintf("%d unreadable deferred actions: %v", len(e.IDs), e.Err)
}

func (e *UnreadableActionsError) Unwrap() error { return e.Err }

// DeferredExecutor runs a claimed deferred action as its own transaction.
type DeferredExecutor interface {
	ExecuteDeferred(ctx context.Context, action *domain.DeferredAction) error
}

// ActionObserver receives the outcome of every ledger action.
type ActionObserver interface {
	ObserveAction(action domain.ActionName, err error, elapsed time.Duration)
	ObserveDeferred(status domain.ReceiptStatus)
}

// TokenService issues and validates bearer tokens that grant account permissions.
type TokenService interface {
	Generate(account domain.Name) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims is what a valid bearer token grants: Account@active.
type TokenClaims struct {
	Account domain.Name
	TokenID string
}

// AuditService records audited requests.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// LedgerService is the asset ledger: registry, issuance, direct and deferred transfer.
type LedgerService interface {
	Create(ctx context.Context, req CreateRequest) (*domain.AssetDescriptor, error)
	Issue(ctx context.Context, req IssueRequest) (*domain.AssetDescriptor, error)
	TransferIn(ctx context.Context, req TransferRequest) error
	Transfer(ctx context.Context, req DeferredTransferRequest) (*domain.DeferredAction, error)
	RegisterAccount(ctx context.Context, name domain.Name) (*domain.Account, error)

	GetAsset(ctx context.Context, code string) (*domain.AssetDescriptor, error)
	GetBalances(ctx context.Context, owner domain.Name) ([]domain.BalanceRecord, error)
	GetDeferredStatus(ctx context.Context, id uuid.UUID) (*domain.DeferredReceipt, error)
}

// CreateRequest registers a new asset type.
type CreateRequest struct {
	Issuer    domain.Name
	MaxSupply domain.Asset
}

// IssueRequest mints quantity into the issuer's balance and optionally forwards it.
type IssueRequest struct {
	To       domain.Name
	Quantity domain.Asset
	Memo     string
}

// TransferRequest moves quantity between two accounts immediately.
type TransferRequest struct {
	From     domain.Name
	To       domain.Name
	Quantity domain.Asset
	Memo     string
}

// DeferredTransferRequest schedules a TransferRequest to run after Delay.
type DeferredTransferRequest struct {
	TransferRequest
	Delay time.Duration
}
