package memory

import (
	"context"
	"fmt"
	"time"

	"asset-exchange/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Descriptors ---

// DescriptorRepo implements ports.DescriptorRepository over a Store.
type DescriptorRepo struct{ store *Store }

func NewDescriptorRepo(store *Store) *DescriptorRepo { return &DescriptorRepo{store: store} }

func (r *DescriptorRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.AssetDescriptor, error) {
	st, err := r.store.workState(tx)
	if err != nil {
		return nil, err
	}
	d, ok := st.descriptors.Find(code)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DescriptorRepo) Insert(ctx context.Context, tx pgx.Tx, descriptor *domain.AssetDescriptor) error {
	st, err := r.store.workState(tx)
	if err != nil {
		return err
	}
	if !st.descriptors.Emplace(*descriptor) {
		return fmt.Errorf("insert descriptor %s: duplicate key", descriptor.Symbol().Code)
	}
	return nil
}

func (r *DescriptorRepo) UpdateSupply(ctx context.Context, tx pgx.Tx, code string, supply domain.Asset) error {
	st, err := r.store.workState(tx)
	if err != nil {
		return err
	}
	d, ok := st.descriptors.Find(code)
	if !ok {
		return fmt.Errorf("update supply %s: not found", code)
	}
	d.Supply = supply
	d.UpdatedAt = time.Now().UTC()
	st.descriptors.Modify(d)
	return nil
}

func (r *DescriptorRepo) GetByCode(ctx context.Context, code string) (*domain.AssetDescriptor, error) {
	var (
		d  domain.AssetDescriptor
		ok bool
	)
	r.store.read(func(st *state) { d, ok = st.descriptors.Find(code) })
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// --- Balances ---

// BalanceRepo implements ports.BalanceRepository over a Store.
type BalanceRepo struct{ store *Store }

func NewBalanceRepo(store *Store) *BalanceRepo { return &BalanceRepo{store: store} }

func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, owner domain.Name, code string) (*domain.BalanceRecord, error) {
	st, err := r.store.workState(tx)
	if err != nil {
		return nil, err
	}
	b, ok := st.balances.Find(domain.BalanceKey{Owner: owner, Code: code})
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BalanceRepo) Insert(ctx context.Context, tx pgx.Tx, record *domain.BalanceRecord) error {
	st, err := r.store.workState(tx)
	if err != nil {
		return err
	}
	if !st.balances.Emplace(*record) {
		return fmt.Errorf("insert balance %s/%s: duplicate key", record.Owner, record.Balance.Symbol.Code)
	}
	return nil
}

func (r *BalanceRepo) Update(ctx context.Context, tx pgx.Tx, owner domain.Name, balance domain.Asset) error {
	st, err := r.store.workState(tx)
	if err != nil {
		return err
	}
	rec := domain.BalanceRecord{Owner: owner, Balance: balance, UpdatedAt: time.Now().UTC()}
	if !st.balances.Modify(rec) {
		return fmt.Errorf("update balance %s/%s: not found", owner, balance.Symbol.Code)
	}
	return nil
}

func (r *BalanceRepo) Delete(ctx context.Context, tx pgx.Tx, owner domain.Name, code string) error {
	st, err := r.store.workState(tx)
	if err != nil {
		return err
	}
	if !st.balances.Erase(domain.BalanceKey{Owner: owner, Code: code}) {
		return fmt.Errorf("delete balance %s/%s: not found", owner, code)
	}
	return nil
}

func (r *BalanceRepo) ListByOwner(ctx context.Context, owner domain.Name) ([]domain.BalanceRecord, error) {
	var out []domain.BalanceRecord
	r.store.read(func(st *state) {
		out = st.balances.Select(
			func(b domain.BalanceRecord) bool { return b.Owner == owner },
			func(a, b domain.BalanceRecord) bool { return a.Balance.Symbol.Code < b.Balance.Symbol.Code },
		)
	})
	return out, nil
}

// Supply sums every balance row of code in the committed state.
func (r *BalanceRepo) Supply(code string) int64 {
	var total int64
	r.store.read(func(st *state) {
		for _, b := range st.balances.Select(func(b domain.BalanceRecord) bool { return b.Balance.Symbol.Code == code }, nil) {
			total += b.Balance.Amount
		}
	})
	return total
}

// --- Accounts ---

// AccountRepo implements ports.AccountRepository over a Store.
type AccountRepo struct{ store *Store }

func NewAccountRepo(store *Store) *AccountRepo { return &AccountRepo{store: store} }

func (r *AccountRepo) Exists(ctx context.Context, tx pgx.Tx, name domain.Name) (bool, error) {
	st, err := r.store.workState(tx)
	if err != nil {
		return false, err
	}
	_, ok := st.accounts.Find(name)
	return ok, nil
}

func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) (bool, error) {
	var created bool
	r.store.write(func(st *state) { created = st.accounts.Emplace(*account) })
	return created, nil
}

// --- Receipts ---

// ReceiptRepo implements ports.ReceiptRepository over a Store.
type ReceiptRepo struct{ store *Store }

func NewReceiptRepo(store *Store) *ReceiptRepo { return &ReceiptRepo{store: store} }

// Save upserts receipt. A settled receipt is never overwritten.
func (r *ReceiptRepo) Save(ctx context.Context, receipt *domain.DeferredReceipt) error {
	r.store.write(func(st *state) { upsertReceipt(st, receipt) })
	return nil
}

// Settle upserts receipt within tx.
func (r *ReceiptRepo) Settle(ctx context.Context, tx pgx.Tx, receipt *domain.DeferredReceipt) (bool, error) {
	st, err := r.store.workState(tx)
	if err != nil {
		return false, err
	}
	return upsertReceipt(st, receipt), nil
}

func upsertReceipt(st *state, receipt *domain.DeferredReceipt) bool {
	existing, ok := st.receipts.Find(receipt.ID)
	switch {
	case !ok:
		return st.receipts.Emplace(*receipt)
	case existing.Status == domain.ReceiptStatusPending,
		existing.Settleable() && receipt.Status != domain.ReceiptStatusPending:
		return st.receipts.Modify(*receipt)
	}
	return false
}

func (r *ReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeferredReceipt, error) {
	var (
		rec domain.DeferredReceipt
		ok  bool
	)
	r.store.read(func(st *state) { rec, ok = st.receipts.Find(id) })
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// --- Audit ---

// AuditRepo implements ports.AuditRepository over a Store.
type AuditRepo struct{ store *Store }

func NewAuditRepo(store *Store) *AuditRepo { return &AuditRepo{store: store} }

func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.store.write(func(st *state) { st.audit = append(st.audit, *log) })
	return nil
}

// List returns every audit entry in insertion order.
func (r *AuditRepo) List() []domain.AuditLog {
	var out []domain.AuditLog
	r.store.read(func(st *state) {
		out = make([]domain.AuditLog, len(st.audit))
		copy(out, st.audit)
	})
	return out
}
