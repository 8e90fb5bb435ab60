package service

import (
	"context"
	"fmt"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/pkg/apperror"
	"asset-exchange/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxMemoBytes = 256
	tracerName   = "asset-exchange/ledger"
)

// LedgerDeps groups the collaborators of the ledger service.
// Notifier and Observer are optional.
type LedgerDeps struct {
	Descriptors ports.DescriptorRepository
	Balances    ports.BalanceRepository
	Accounts    ports.AccountRepository
	Receipts    ports.ReceiptRepository
	Transactor  ports.DBTransactor
	Auth        ports.AuthorizationProvider
	Scheduler   ports.Scheduler
	Notifier    ports.NotificationSink
	Observer    ports.ActionObserver
}

// LedgerServiceImpl implements ports.LedgerService and ports.DeferredExecutor.
type LedgerServiceImpl struct {
	descriptors ports.DescriptorRepository
	accounts    ports.AccountRepository
	receipts    ports.ReceiptRepository
	transactor  ports.DBTransactor
	auth        ports.AuthorizationProvider
	scheduler   ports.Scheduler
	notifier    ports.NotificationSink
	observer    ports.ActionObserver
	balances    balanceStore

	contract domain.Name
	maxDelay time.Duration
	tracer   trace.Tracer
	now      func() time.Time
	log      zerolog.Logger
}

// NewLedgerService creates the ledger. contract is the registry owner whose
// authority create and account registration require.
func NewLedgerService(deps LedgerDeps, contract domain.Name, maxDelay time.Duration, log zerolog.Logger) *LedgerServiceImpl {
	s := &LedgerServiceImpl{
		descriptors: deps.Descriptors,
		accounts:    deps.Accounts,
		receipts:    deps.Receipts,
		transactor:  deps.Transactor,
		auth:        deps.Auth,
		scheduler:   deps.Scheduler,
		notifier:    deps.Notifier,
		observer:    deps.Observer,
		contract:    contract,
		maxDelay:    maxDelay,
		tracer:      otel.Tracer(tracerName),
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
	if s.observer == nil {
		s.observer = noopObserver{}
	}
	s.balances = balanceStore{repo: deps.Balances, now: func() time.Time { return s.now() }}
	return s
}

// actionScope is the state shared by an action and every inline action it runs.
type actionScope struct {
	tx      pgx.Tx
	notices []domain.TransferNotice
}

// requireRecipient queues a notice for both parties of a transfer.
func (sc *actionScope) requireRecipient(action domain.ActionName, p domain.TransferPayload, at time.Time) {
	for _, who := range []domain.Name{p.From, p.To} {
		sc.notices = append(sc.notices, domain.TransferNotice{Recipient: who, Action: action, Transfer: p, At: at})
	}
}

// instrument wraps fn in a span and reports its outcome to the observer.
func (s *LedgerServiceImpl) instrument(ctx context.Context, name domain.ActionName, fn func(ctx context.Context) error) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "ledger."+string(name), trace.WithAttributes(attribute.String("ledger.action", string(name))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperror.CodeOf(err))
		}
		span.End()
		s.observer.ObserveAction(name, err, time.Since(start))
	}()
	return fn(ctx)
}

// execute runs body as one all-or-nothing database transaction. Notices are
// delivered only after commit.
func (s *LedgerServiceImpl) execute(ctx context.Context, name domain.ActionName, body func(ctx context.Context, scope *actionScope) error) error {
	return s.instrument(ctx, name, func(ctx context.Context) error {
		tx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer tx.Rollback(ctx) //nolint:errcheck

		scope := &actionScope{tx: tx}
		if err := body(ctx, scope); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}

		s.dispatch(ctx, scope.notices)
		return nil
	})
}

func (s *LedgerServiceImpl) dispatch(ctx context.Context, notices []domain.TransferNotice) {
	if s.notifier == nil {
		return
	}
	log := logger.WithSpan(ctx, s.log)
	for i := range notices {
		if err := s.notifier.Notify(ctx, &notices[i]); err != nil {
			log.Warn().Err(err).Str("recipient", notices[i].Recipient.String()).Msg("transfer notice not delivered")
		}
	}
}

// Create registers a new asset type with zero supply.
func (s *LedgerServiceImpl) Create(ctx context.Context, req ports.CreateRequest) (*domain.AssetDescriptor, error) {
	var created *domain.AssetDescriptor
	err := s.execute(ctx, domain.ActionCreate, func(ctx context.Context, scope *actionScope) error {
		if err := s.auth.Require(ctx, s.contract); err != nil {
			return err
		}
		if !req.Issuer.IsValid() {
			return apperror.ErrInvalidAccountName()
		}
		sym := req.MaxSupply.Symbol
		if !sym.IsValid() {
			return apperror.ErrInvalidSupply("invalid symbol name")
		}
		if !req.MaxSupply.IsValid() {
			return apperror.ErrInvalidSupply("invalid supply")
		}
		if req.MaxSupply.Amount <= 0 {
			return apperror.ErrInvalidSupply("max-supply must be positive")
		}

		existing, err := s.descriptors.GetForUpdate(ctx, scope.tx, sym.Code)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock descriptor %s: %w", sym.Code, err))
		}
		if existing != nil {
			return apperror.ErrAlreadyExists("Token with symbol")
		}

		now := s.now()
		d := &domain.AssetDescriptor{
			Supply:    domain.NewAsset(0, sym),
			MaxSupply: req.MaxSupply,
			Issuer:    req.Issuer,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.descriptors.Insert(ctx, scope.tx, d); err != nil {
			return apperror.InternalError(fmt.Errorf("insert descriptor %s: %w", sym.Code, err))
		}
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("symbol", created.Symbol().String()).Str("issuer", created.Issuer.String()).Msg("asset created")
	return created, nil
}

// Issue mints quantity to the issuer and, when To differs, forwards it with an
// inline transfer inside the same transaction.
func (s *LedgerServiceImpl) Issue(ctx context.Context, req ports.IssueRequest) (*domain.AssetDescriptor, error) {
	var issued *domain.AssetDescriptor
	err := s.execute(ctx, domain.ActionIssue, func(ctx context.Context, scope *actionScope) error {
		sym := req.Quantity.Symbol
		if !sym.IsValid() {
			return apperror.ErrInvalidSymbol()
		}
		if len(req.Memo) > maxMemoBytes {
			return apperror.ErrMemoTooLong()
		}

		d, err := s.descriptors.GetForUpdate(ctx, scope.tx, sym.Code)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock descriptor %s: %w", sym.Code, err))
		}
		if d == nil {
			return apperror.ErrNotFound("Token with symbol")
		}
		if err := s.auth.Require(ctx, d.Issuer); err != nil {
			return err
		}

		if !req.Quantity.IsValid() {
			return apperror.ErrInvalidQuantity("invalid quantity")
		}
		if req.Quantity.Amount <= 0 {
			return apperror.ErrInvalidQuantity("must issue positive quantity")
		}
		if sym != d.Symbol() {
			return apperror.ErrSymbolMismatch()
		}
		if req.Quantity.Amount > d.Available() {
			return apperror.ErrSupplyExceeded()
		}

		supply, err := d.Supply.Add(req.Quantity)
		if err != nil {
			return arithmeticError(err)
		}
		if err := s.descriptors.UpdateSupply(ctx, scope.tx, sym.Code, supply); err != nil {
			return apperror.InternalError(fmt.Errorf("update supply %s: %w", sym.Code, err))
		}
		d.Supply = supply
		d.UpdatedAt = s.now()

		if err := s.balances.add(ctx, scope.tx, d.Issuer, req.Quantity); err != nil {
			return err
		}

		if req.To != d.Issuer {
			inline := domain.InlineAction{
				Name:          domain.ActionTransferIn,
				Authorization: []domain.PermissionLevel{domain.Active(d.Issuer)},
				Payload: domain.TransferPayload{
					From:     d.Issuer,
					To:       req.To,
					Quantity: req.Quantity,
					Memo:     req.Memo,
				},
			}
			if err := s.runInline(ctx, scope, inline); err != nil {
				return err
			}
		}
		issued = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// runInline executes an inline action under its own declared authorization,
// sharing the caller's transaction.
func (s *LedgerServiceImpl) runInline(ctx context.Context, scope *actionScope, action domain.InlineAction) error {
	ctx = domain.WithAuthorization(ctx, action.Authorization...)
	switch action.Name {
	case domain.ActionTransferIn:
		return s.transferIn(ctx, scope, action.Payload)
	default:
		return apperror.InternalError(fmt.Errorf("unsupported inline action %q", action.Name))
	}
}

// TransferIn moves quantity between two accounts immediately.
func (s *LedgerServiceImpl) TransferIn(ctx context.Context, req ports.TransferRequest) error {
	return s.execute(ctx, domain.ActionTransferIn, func(ctx context.Context, scope *actionScope) error {
		return s.transferIn(ctx, scope, domain.TransferPayload{
			From:     req.From,
			To:       req.To,
			Quantity: req.Quantity,
			Memo:     req.Memo,
		})
	})
}

func (s *LedgerServiceImpl) transferIn(ctx context.Context, scope *actionScope, p domain.TransferPayload) error {
	if p.From == p.To {
		return apperror.ErrSelfTransfer()
	}
	if err := s.auth.Require(ctx, p.From); err != nil {
		return err
	}

	exists, err := s.accounts.Exists(ctx, scope.tx, p.To)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("resolve account %s: %w", p.To, err))
	}
	if !exists {
		return apperror.ErrUnknownAccount()
	}

	code := p.Quantity.Symbol.Code
	d, err := s.descriptors.GetForUpdate(ctx, scope.tx, code)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock descriptor %s: %w", code, err))
	}
	if d == nil {
		return apperror.ErrNotFound("Token with symbol")
	}

	scope.requireRecipient(domain.ActionTransferIn, p, s.now())

	if !p.Quantity.IsValid() {
		return apperror.ErrInvalidQuantity("invalid quantity")
	}
	if p.Quantity.Amount <= 0 {
		return apperror.ErrInvalidQuantity("must transfer positive quantity")
	}
	if p.Quantity.Symbol != d.Symbol() {
		return apperror.ErrSymbolMismatch()
	}
	if len(p.Memo) > maxMemoBytes {
		return apperror.ErrMemoTooLong()
	}

	if err := s.balances.sub(ctx, scope.tx, p.From, p.Quantity); err != nil {
		return err
	}
	return s.balances.add(ctx, scope.tx, p.To, p.Quantity)
}

// Transfer hands a transferin to the scheduler to run after req.Delay. It
// changes no balance.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.DeferredTransferRequest) (*domain.DeferredAction, error) {
	var scheduled *domain.DeferredAction
	err := s.instrument(ctx, domain.ActionTransfer, func(ctx context.Context) error {
		if err := s.auth.Require(ctx, req.From); err != nil {
			return err
		}
		if req.Delay < 0 || (s.maxDelay > 0 && req.Delay > s.maxDelay) {
			return apperror.ErrInvalidDelay()
		}

		now := s.now()
		action := &domain.DeferredAction{
			ID:            uuid.New(),
			Name:          domain.ActionTransferIn,
			Authorization: []domain.PermissionLevel{domain.Active(req.From)},
			Payload: domain.TransferPayload{
				From:     req.From,
				To:       req.To,
				Quantity: req.Quantity,
				Memo:     req.Memo,
			},
			Payer:       req.From,
			SubmittedAt: now,
			ExecuteAt:   now.Add(req.Delay),
		}

		receipt := &domain.DeferredReceipt{
			ID:        action.ID,
			Action:    action.Name,
			Payload:   action.Payload,
			Status:    domain.ReceiptStatusPending,
			ExecuteAt: action.ExecuteAt,
		}
		if err := s.receipts.Save(ctx, receipt); err != nil {
			return apperror.InternalError(fmt.Errorf("save pending receipt: %w", err))
		}

		if err := s.scheduler.Schedule(ctx, action); err != nil {
			code := apperror.ErrSchedulerUnavailable(err).Code
			receipt.Status = domain.ReceiptStatusFailed
			receipt.ErrorCode = &code
			if saveErr := s.receipts.Save(ctx, receipt); saveErr != nil {
				log := logger.WithSpan(ctx, s.log)
				log.Error().Err(saveErr).Str("id", action.ID.String()).Msg("failed to mark unscheduled receipt")
			}
			return apperror.ErrSchedulerUnavailable(err)
		}

		scheduled = action
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", scheduled.ID.String()).
		Str("from", scheduled.Payload.From.String()).
		Time("execute_at", scheduled.ExecuteAt).
		Msg("deferred transfer scheduled")
	return scheduled, nil
}

// ExecuteDeferred implements ports.DeferredExecutor. The stored authorization
// replaces whatever the worker context carries. The receipt is settled in the
// same transaction as the transfer, so an action delivered twice runs once and
// the second delivery fails with domain.ErrReceiptSettled.
func (s *LedgerServiceImpl) ExecuteDeferred(ctx context.Context, action *domain.DeferredAction) error {
	ctx = domain.WithAuthorization(ctx, action.Authorization...)
	return s.execute(ctx, action.Name, func(ctx context.Context, scope *actionScope) error {
		if action.Name != domain.ActionTransferIn {
			return apperror.InternalError(fmt.Errorf("unsupported deferred action %q", action.Name))
		}
		executedAt := s.now()
		settled, err := s.receipts.Settle(ctx, scope.tx, &domain.DeferredReceipt{
			ID:         action.ID,
			Action:     action.Name,
			Payload:    action.Payload,
			Status:     domain.ReceiptStatusExecuted,
			ExecuteAt:  action.ExecuteAt,
			ExecutedAt: &executedAt,
		})
		if err != nil {
			return apperror.InternalError(fmt.Errorf("settle receipt: %w", err))
		}
		if !settled {
			return domain.ErrReceiptSettled
		}
		return s.transferIn(ctx, scope, action.Payload)
	})
}

// RegisterAccount adds name to the account directory.
func (s *LedgerServiceImpl) RegisterAccount(ctx context.Context, name domain.Name) (*domain.Account, error) {
	if err := s.auth.Require(ctx, s.contract); err != nil {
		return nil, err
	}
	if !name.IsValid() {
		return nil, apperror.ErrInvalidAccountName()
	}

	account := &domain.Account{Name: name, CreatedAt: s.now()}
	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}
	if !created {
		return nil, apperror.ErrAlreadyExists("Account")
	}
	return account, nil
}

// GetAsset returns the descriptor of code.
func (s *LedgerServiceImpl) GetAsset(ctx context.Context, code string) (*domain.AssetDescriptor, error) {
	d, err := s.descriptors.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get descriptor: %w", err))
	}
	if d == nil {
		return nil, apperror.ErrNotFound("Token with symbol")
	}
	return d, nil
}

// GetBalances lists every non-zero holding of owner.
func (s *LedgerServiceImpl) GetBalances(ctx context.Context, owner domain.Name) ([]domain.BalanceRecord, error) {
	if !owner.IsValid() {
		return nil, apperror.ErrInvalidAccountName()
	}
	records, err := s.balances.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list balances: %w", err))
	}
	return records, nil
}

// GetDeferredStatus returns the receipt of a scheduled transfer.
func (s *LedgerServiceImpl) GetDeferredStatus(ctx context.Context, id uuid.UUID) (*domain.DeferredReceipt, error) {
	r, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get receipt: %w", err))
	}
	if r == nil {
		return nil, apperror.ErrNotFound("Deferred action")
	}
	return r, nil
}

type noopObserver struct{}

func (noopObserver) ObserveAction(domain.ActionName, error, time.Duration) {}
func (noopObserver) ObserveDeferred(domain.ReceiptStatus)                   {}
