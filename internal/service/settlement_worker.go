package service

import (
	"context"
	"errors"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const settleTimeout = 30 * time.Second

// SettlementConfig tunes the settlement worker.
type SettlementConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxPerSecond float64
}

// SettlementWorker claims due deferred actions and executes each one as an
// independent transaction. Failed actions are recorded, never retried. An
// action is acknowledged to the queue only after its outcome is stored.
type SettlementWorker struct {
	queue    ports.DeferredQueue
	executor ports.DeferredExecutor
	receipts ports.ReceiptRepository
	observer ports.ActionObserver
	limiter  *rate.Limiter
	cfg      SettlementConfig
	now      func() time.Time
	log      zerolog.Logger
}

// NewSettlementWorker creates a worker. observer may be nil.
func NewSettlementWorker(
	queue ports.DeferredQueue,
	executor ports.DeferredExecutor,
	receipts ports.ReceiptRepository,
	observer ports.ActionObserver,
	cfg SettlementConfig,
	log zerolog.Logger,
) *SettlementWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	limit, burst := rate.Inf, cfg.BatchSize
	if cfg.MaxPerSecond > 0 {
		limit = rate.Limit(cfg.MaxPerSecond)
		burst = max(1, int(cfg.MaxPerSecond))
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &SettlementWorker{
		queue:    queue,
		executor: executor,
		receipts: receipts,
		observer: observer,
		limiter:  rate.NewLimiter(limit, burst),
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// Run polls until ctx is cancelled.
func (w *SettlementWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.log.Info().Dur("poll_interval", w.cfg.PollInterval).Int("batch_size", w.cfg.BatchSize).Msg("settlement worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("settlement worker stopped")
			return
		case <-ticker.C:
			if _, err := w.Tick(ctx); err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("settlement tick failed")
			}
		}
	}
}

// Tick claims one batch of due actions and settles them. It returns how many
// were executed, successfully or not.
func (w *SettlementWorker) Tick(ctx context.Context) (int, error) {
	claimed, err := w.queue.ClaimDue(ctx, w.now(), w.cfg.BatchSize)
	var unreadable *ports.UnreadableActionsError
	switch {
	case errors.As(err, &unreadable):
		w.reject(ctx, unreadable)
	case err != nil:
		return 0, err
	}

	for i, action := range claimed {
		if werr := w.limiter.Wait(ctx); werr != nil {
			w.requeue(claimed[i:])
			return i, werr
		}
		w.settle(ctx, action)
	}
	return len(claimed), err
}

// settle executes one action. Once started it runs to completion even if ctx
// is cancelled, bounded by settleTimeout.
func (w *SettlementWorker) settle(ctx context.Context, action *domain.DeferredAction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	err := w.executor.ExecuteDeferred(ctx, action)
	switch {
	case err == nil:
		w.observer.ObserveDeferred(domain.ReceiptStatusExecuted)
	case errors.Is(err, domain.ErrReceiptSettled):
		w.log.Info().Str("id", action.ID.String()).Msg("deferred action already settled")
	default:
		w.log.Warn().
			Err(err).
			Str("id", action.ID.String()).
			Str("from", action.Payload.From.String()).
			Str("to", action.Payload.To.String()).
			Msg("deferred transfer failed")
		if !w.fail(ctx, action, apperror.CodeOf(err)) {
			return
		}
	}
	w.ack(ctx, action.ID)
}

// fail records a failed receipt for action. An unrecorded failure keeps the
// action leased so it is delivered again.
func (w *SettlementWorker) fail(ctx context.Context, action *domain.DeferredAction, code string) bool {
	executedAt := w.now()
	receipt := &domain.DeferredReceipt{
		ID:         action.ID,
		Action:     action.Name,
		Payload:    action.Payload,
		Status:     domain.ReceiptStatusFailed,
		ErrorCode:  &code,
		ExecuteAt:  action.ExecuteAt,
		ExecutedAt: &executedAt,
	}
	if err := w.receipts.Save(ctx, receipt); err != nil {
		w.log.Error().Err(err).Str("id", action.ID.String()).Msg("failed to save deferred receipt")
		return false
	}
	w.observer.ObserveDeferred(domain.ReceiptStatusFailed)
	return true
}

// reject fails the receipts of claimed items that could not be decoded.
func (w *SettlementWorker) reject(ctx context.Context, unreadable *ports.UnreadableActionsError) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	code := apperror.ErrUnreadableAction(unreadable.Err).Code
	for _, id := range unreadable.IDs {
		receipt, err := w.receipts.GetByID(ctx, id)
		if err != nil {
			w.log.Error().Err(err).Str("id", id.String()).Msg("failed to load deferred receipt")
			continue
		}
		if receipt != nil {
			at := w.now()
			receipt.Status = domain.ReceiptStatusFailed
			receipt.ErrorCode = &code
			receipt.ExecutedAt = &at
			if err := w.receipts.Save(ctx, receipt); err != nil {
				w.log.Error().Err(err).Str("id", id.String()).Msg("failed to save deferred receipt")
				continue
			}
			w.observer.ObserveDeferred(domain.ReceiptStatusFailed)
		}
		w.ack(ctx, id)
	}
}

func (w *SettlementWorker) ack(ctx context.Context, id uuid.UUID) {
	if err := w.queue.Ack(ctx, id); err != nil {
		w.log.Error().Err(err).Str("id", id.String()).Msg("failed to ack deferred action")
	}
}

// requeue hands back claimed actions that were not attempted.
func (w *SettlementWorker) requeue(actions []*domain.DeferredAction) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, a := range actions {
		if err := w.queue.Schedule(ctx, a); err != nil {
			w.log.Error().Err(err).Str("id", a.ID.String()).Msg("failed to requeue deferred action")
		}
	}
}
