package domain

import "time"

// AssetDescriptor holds the per-symbol supply configuration.
// Issuer and symbol never change once the descriptor is created.
type AssetDescriptor struct {
	Supply    Asset     `json:"supply"`
	MaxSupply Asset     `json:"max_supply"`
	Issuer    Name      `json:"issuer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Symbol returns the symbol the descriptor governs.
func (d *AssetDescriptor) Symbol() Symbol {
	return d.MaxSupply.Symbol
}

// Available returns how much can still be issued.
func (d *AssetDescriptor) Available() int64 {
	return d.MaxSupply.Amount - d.Supply.Amount
}
