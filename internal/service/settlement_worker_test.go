package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"asset-exchange/internal/adapter/storage/memory"
	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/internal/core/ports/mocks"
	"asset-exchange/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type workerMockDeps struct {
	worker   *SettlementWorker
	queue    *mocks.MockDeferredQueue
	executor *mocks.MockDeferredExecutor
	receipts *mocks.MockReceiptRepository
	observer *mocks.MockActionObserver
	ctrl     *gomock.Controller
}

func setupWorker(t *testing.T, cfg SettlementConfig) *workerMockDeps {
	ctrl := gomock.NewController(t)
	d := &workerMockDeps{
		queue:    mocks.NewMockDeferredQueue(ctrl),
		executor: mocks.NewMockDeferredExecutor(ctrl),
		receipts: mocks.NewMockReceiptRepository(ctrl),
		observer: mocks.NewMockActionObserver(ctrl),
		ctrl:     ctrl,
	}
	d.worker = NewSettlementWorker(d.queue, d.executor, d.receipts, d.observer, cfg, zerolog.Nop())
	return d
}

func dueAction() *domain.DeferredAction {
	return &domain.DeferredAction{
		ID:            uuid.New(),
		Name:          domain.ActionTransferIn,
		Authorization: []domain.PermissionLevel{domain.Active("alice")},
		Payload:       domain.TransferPayload{From: "alice", To: "bob", Quantity: symAsset(1)},
		ExecuteAt:     time.Now().Add(-time.Second),
	}
}

func TestSettlementWorker_Tick_RecordsOutcomes(t *testing.T) {
	d := setupWorker(t, SettlementConfig{BatchSize: 5})
	defer d.ctrl.Finish()

	ok, bad := dueAction(), dueAction()
	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 5).Return([]*domain.DeferredAction{ok, bad}, nil)
	d.executor.EXPECT().ExecuteDeferred(gomock.Any(), ok).Return(nil)
	d.executor.EXPECT().ExecuteDeferred(gomock.Any(), bad).Return(apperror.ErrOverdrawn())

	var failed *domain.DeferredReceipt
	d.receipts.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.DeferredReceipt) error {
			failed = r
			return nil
		})
	d.queue.EXPECT().Ack(gomock.Any(), ok.ID).Return(nil)
	d.queue.EXPECT().Ack(gomock.Any(), bad.ID).Return(nil)
	d.observer.EXPECT().ObserveDeferred(domain.ReceiptStatusExecuted)
	d.observer.EXPECT().ObserveDeferred(domain.ReceiptStatusFailed)

	n, err := d.worker.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NotNil(t, failed)
	assert.Equal(t, bad.ID, failed.ID)
	assert.Equal(t, domain.ReceiptStatusFailed, failed.Status)
	assert.NotNil(t, failed.ExecutedAt)
	require.NotNil(t, failed.ErrorCode)
	assert.Equal(t, "STATE_005", *failed.ErrorCode)
}

func TestSettlementWorker_Tick_ClaimError(t *testing.T) {
	d := setupWorker(t, SettlementConfig{})
	defer d.ctrl.Finish()

	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 50).Return(nil, errors.New("redis: connection refused"))

	n, err := d.worker.Tick(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestSettlementWorker_Tick_UnsavedFailureStaysLeased(t *testing.T) {
	d := setupWorker(t, SettlementConfig{BatchSize: 2})
	defer d.ctrl.Finish()

	a, b := dueAction(), dueAction()
	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 2).Return([]*domain.DeferredAction{a, b}, nil)
	d.executor.EXPECT().ExecuteDeferred(gomock.Any(), gomock.Any()).Return(apperror.ErrNoBalance()).Times(2)
	d.receipts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db down")).Times(2)
	// no Ack and no outcome: both come back once their lease runs out

	n, err := d.worker.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSettlementWorker_Tick_RedeliveredActionIsAcked(t *testing.T) {
	d := setupWorker(t, SettlementConfig{BatchSize: 1})
	defer d.ctrl.Finish()

	a := dueAction()
	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 1).Return([]*domain.DeferredAction{a}, nil)
	d.executor.EXPECT().ExecuteDeferred(gomock.Any(), a).Return(domain.ErrReceiptSettled)
	d.queue.EXPECT().Ack(gomock.Any(), a.ID).Return(nil)

	n, err := d.worker.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSettlementWorker_Tick_UnreadableItemsFailTheirReceipts(t *testing.T) {
	d := setupWorker(t, SettlementConfig{BatchSize: 3})
	defer d.ctrl.Finish()

	readable := dueAction()
	known, orphan := uuid.New(), uuid.New()
	unreadable := &ports.UnreadableActionsError{IDs: []uuid.UUID{known, orphan}, Err: errors.New("invalid character")}

	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 3).Return([]*domain.DeferredAction{readable}, unreadable)
	d.receipts.EXPECT().GetByID(gomock.Any(), known).Return(&domain.DeferredReceipt{ID: known, Status: domain.ReceiptStatusPending}, nil)
	d.receipts.EXPECT().GetByID(gomock.Any(), orphan).Return(nil, nil)

	var saved *domain.DeferredReceipt
	d.receipts.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.DeferredReceipt) error {
			saved = r
			return nil
		})
	d.executor.EXPECT().ExecuteDeferred(gomock.Any(), readable).Return(nil)
	d.queue.EXPECT().Ack(gomock.Any(), known).Return(nil)
	d.queue.EXPECT().Ack(gomock.Any(), orphan).Return(nil)
	d.queue.EXPECT().Ack(gomock.Any(), readable.ID).Return(nil)
	d.observer.EXPECT().ObserveDeferred(domain.ReceiptStatusFailed)
	d.observer.EXPECT().ObserveDeferred(domain.ReceiptStatusExecuted)

	n, err := d.worker.Tick(context.Background())
	assert.Equal(t, 1, n, "the readable action still settles")
	var got *ports.UnreadableActionsError
	require.ErrorAs(t, err, &got)

	require.NotNil(t, saved)
	assert.Equal(t, known, saved.ID)
	assert.Equal(t, domain.ReceiptStatusFailed, saved.Status)
	require.NotNil(t, saved.ErrorCode)
	assert.Equal(t, "SYS_003", *saved.ErrorCode)
}

func TestSettlementWorker_Tick_RequeuesWhenCancelled(t *testing.T) {
	d := setupWorker(t, SettlementConfig{BatchSize: 3, MaxPerSecond: 1})
	defer d.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, b := dueAction(), dueAction()
	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 3).Return([]*domain.DeferredAction{a, b}, nil)
	d.queue.EXPECT().Schedule(gomock.Any(), a).Return(nil)
	d.queue.EXPECT().Schedule(gomock.Any(), b).Return(nil)

	n, err := d.worker.Tick(ctx)
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestSettlementWorker_RunStopsOnCancel(t *testing.T) {
	d := setupWorker(t, SettlementConfig{PollInterval: 10 * time.Millisecond})
	defer d.ctrl.Finish()

	d.queue.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.worker.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

// liveOnlyReceipts refuses every write made under a finished context.
type liveOnlyReceipts struct{ *memory.ReceiptRepo }

func (r liveOnlyReceipts) Save(ctx context.Context, receipt *domain.DeferredReceipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.ReceiptRepo.Save(ctx, receipt)
}

// cancelThenExecute cancels the worker's context right before executing, as
// a shutdown arriving mid-batch would.
type cancelThenExecute struct {
	inner  ports.DeferredExecutor
	cancel context.CancelFunc
}

func (e cancelThenExecute) ExecuteDeferred(ctx context.Context, action *domain.DeferredAction) error {
	e.cancel()
	return e.inner.ExecuteDeferred(ctx, action)
}

func TestSettlementWorker_SettleOutlivesShutdown(t *testing.T) {
	f := newLedgerFixture(t)
	f.createSYM(t)
	f.issue(t, "alice", "10.0000 SYM")

	paid, err := f.svc.Transfer(as("alice"), ports.DeferredTransferRequest{
		TransferRequest: ports.TransferRequest{From: "alice", To: "bob", Quantity: mustAsset(t, "4.0000 SYM")},
	})
	require.NoError(t, err)

	receipts := liveOnlyReceipts{f.receipts}
	run := func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w := NewSettlementWorker(f.queue, cancelThenExecute{inner: f.svc, cancel: cancel}, receipts, nil,
			SettlementConfig{BatchSize: 1}, zerolog.Nop())
		n, err := w.Tick(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	run()
	receipt, err := f.svc.GetDeferredStatus(context.Background(), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusExecuted, receipt.Status)
	bob, _ := f.balance(t, "bob", "SYM")
	assert.Equal(t, int64(40_000), bob)

	// a failure is still recorded when the context goes away mid-settlement
	overdraw := &domain.DeferredAction{
		ID:            uuid.New(),
		Name:          domain.ActionTransferIn,
		Authorization: []domain.PermissionLevel{domain.Active("alice")},
		Payload:       domain.TransferPayload{From: "alice", To: "bob", Quantity: mustAsset(t, "100.0000 SYM")},
		ExecuteAt:     time.Now().Add(-time.Second),
	}
	require.NoError(t, f.receipts.Save(context.Background(), &domain.DeferredReceipt{
		ID: overdraw.ID, Action: overdraw.Name, Payload: overdraw.Payload,
		Status: domain.ReceiptStatusPending, ExecuteAt: overdraw.ExecuteAt,
	}))
	require.NoError(t, f.queue.Schedule(context.Background(), overdraw))

	run()
	receipt, err = f.svc.GetDeferredStatus(context.Background(), overdraw.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusFailed, receipt.Status)
	require.NotNil(t, receipt.ErrorCode)
	assert.Equal(t, "STATE_005", *receipt.ErrorCode)
	f.assertConserved(t, "SYM")
}
