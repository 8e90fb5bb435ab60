package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-exchange/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const descriptorColumns = `symbol_code, precision, supply, max_supply, issuer, created_at, updated_at`

// DescriptorRepo implements ports.DescriptorRepository on the asset_stats table.
type DescriptorRepo struct {
	pool Pool
}

// NewDescriptorRepo creates a new DescriptorRepo.
func NewDescriptorRepo(pool Pool) *DescriptorRepo {
	return &DescriptorRepo{pool: pool}
}

func scanDescriptor(row pgx.Row) (*domain.AssetDescriptor, error) {
	var (
		code      string
		precision int16
		supply    int64
		maxSupply int64
		issuer    string
		d         domain.AssetDescriptor
	)
	if err := row.Scan(&code, &precision, &supply, &maxSupply, &issuer, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	sym := domain.Symbol{Precision: uint8(precision), Code: code}
	d.Supply = domain.NewAsset(supply, sym)
	d.MaxSupply = domain.NewAsset(maxSupply, sym)
	d.Issuer = domain.Name(issuer)
	return &d, nil
}

// GetForUpdate fetches and row-locks the descriptor of code.
// This MUST be called within a transaction.
func (r *DescriptorRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.AssetDescriptor, error) {
	query := `SELECT ` + descriptorColumns + ` FROM asset_stats WHERE symbol_code = $1 FOR UPDATE`

	d, err := scanDescriptor(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get descriptor for update: %w", err)
	}
	return d, nil
}

// Insert adds a new descriptor within a transaction.
func (r *DescriptorRepo) Insert(ctx context.Context, tx pgx.Tx, d *domain.AssetDescriptor) error {
	query := `INSERT INTO asset_stats (` + descriptorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	sym := d.Symbol()
	_, err := tx.Exec(ctx, query,
		sym.Code, int16(sym.Precision), d.Supply.Amount, d.MaxSupply.Amount,
		d.Issuer.String(), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert descriptor: %w", err)
	}
	return nil
}

// UpdateSupply sets the circulating supply of code within a transaction.
func (r *DescriptorRepo) UpdateSupply(ctx context.Context, tx pgx.Tx, code string, supply domain.Asset) error {
	query := `UPDATE asset_stats SET supply = $1, updated_at = NOW() WHERE symbol_code = $2`

	tag, err := tx.Exec(ctx, query, supply.Amount, code)
	if err != nil {
		return fmt.Errorf("update supply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("descriptor not found: %s", code)
	}
	return nil
}

// GetByCode fetches a descriptor without locking.
func (r *DescriptorRepo) GetByCode(ctx context.Context, code string) (*domain.AssetDescriptor, error) {
	query := `SELECT ` + descriptorColumns + ` FROM asset_stats WHERE symbol_code = $1`

	d, err := scanDescriptor(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get descriptor: %w", err)
	}
	return d, nil
}
