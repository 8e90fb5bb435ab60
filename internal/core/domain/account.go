package domain

import "time"

// Account is an entry in the account directory. Only registered accounts can
// receive transfers.
type Account struct {
	Name      Name      `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
