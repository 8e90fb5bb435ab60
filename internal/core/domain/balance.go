package domain

import "time"

// BalanceRecord is one account's holding of one symbol.
// A record with a zero amount is never persisted.
type BalanceRecord struct {
	Owner     Name      `json:"owner"`
	Balance   Asset     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceKey is the logical primary key of a balance row.
type BalanceKey struct {
	Owner Name
	Code  string
}

// Key returns the (owner, symbol code) key of the record.
func (b *BalanceRecord) Key() BalanceKey {
	return BalanceKey{Owner: b.Owner, Code: b.Balance.Symbol.Code}
}
