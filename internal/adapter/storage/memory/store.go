package memory

import (
	"context"
	"errors"
	"sync"

	"asset-exchange/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrForeignTx is returned when a repository receives a transaction that was
// not started by its own Store.
var ErrForeignTx = errors.New("memory: transaction does not belong to this store")

type state struct {
	descriptors *Table[string, domain.AssetDescriptor]
	balances    *Table[domain.BalanceKey, domain.BalanceRecord]
	accounts    *Table[domain.Name, domain.Account]
	receipts    *Table[uuid.UUID, domain.DeferredReceipt]
	audit       []domain.AuditLog
}

func newState() *state {
	return &state{
		descriptors: NewTable(func(d domain.AssetDescriptor) string { return d.Symbol().Code }),
		balances:    NewTable(func(b domain.BalanceRecord) domain.BalanceKey { return b.Key() }),
		accounts:    NewTable(func(a domain.Account) domain.Name { return a.Name }),
		receipts:    NewTable(func(r domain.DeferredReceipt) uuid.UUID { return r.ID }),
	}
}

func (s *state) clone() *state {
	audit := make([]domain.AuditLog, len(s.audit))
	copy(audit, s.audit)
	return &state{
		descriptors: s.descriptors.Clone(),
		balances:    s.balances.Clone(),
		accounts:    s.accounts.Clone(),
		receipts:    s.receipts.Clone(),
		audit:       audit,
	}
}

// Store is an in-process ledger database. Transactions are fully serialised:
// Begin takes the write lock and works on a private copy of every table, which
// Commit publishes atomically. Reads outside a transaction see the last
// committed state.
type Store struct {
	writeMu sync.Mutex

	mu        sync.RWMutex
	committed *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()
	return &memTx{store: s, work: work}, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

// Ping implements ports.HealthChecker.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// read runs fn against the committed state.
func (s *Store) read(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.committed)
}

// write runs fn as its own single-statement transaction.
func (s *Store) write(fn func(*state)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.committed)
}

// memTx is the pgx.Tx handed out by Store.Begin. Only Commit and Rollback
// carry meaning; the SQL methods are inert.
type memTx struct {
	store  *Store
	work   *state
	closed bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.store.mu.Lock()
	t.store.committed = t.work
	t.store.mu.Unlock()
	t.store.writeMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.work = nil
	t.store.writeMu.Unlock()
	return nil
}

// Begin returns the same transaction; nested work shares its tables.
func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *memTx) Conn() *pgx.Conn                                              { return nil }

func (s *Store) workState(tx pgx.Tx) (*state, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return nil, ErrForeignTx
	}
	if mt.closed {
		return nil, pgx.ErrTxClosed
	}
	return mt.work, nil
}
