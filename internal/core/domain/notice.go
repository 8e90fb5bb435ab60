package domain

import "time"

// TransferNotice is delivered to each observer of a committed transfer.
type TransferNotice struct {
	Recipient Name            `json:"recipient"`
	Action    ActionName      `json:"action"`
	Transfer  TransferPayload `json:"transfer"`
	At        time.Time       `json:"at"`
}
