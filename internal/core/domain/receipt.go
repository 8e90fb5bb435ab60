package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReceiptStatus is the outcome of an executed deferred action.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "PENDING"
	ReceiptStatusExecuted ReceiptStatus = "EXECUTED"
	ReceiptStatusFailed   ReceiptStatus = "FAILED"
)

// CodeSchedulerUnavailable is the error code of a receipt whose action could
// not be confirmed as queued. The action may still have been queued.
const CodeSchedulerUnavailable = "SYS_002"

// ErrReceiptSettled is returned when a deferred action is delivered again after
// its receipt was already settled.
var ErrReceiptSettled = errors.New("deferred action already settled")

// DeferredReceipt records what happened when a deferred action ran.
type DeferredReceipt struct {
	ID         uuid.UUID       `json:"id"`
	Action     ActionName      `json:"action"`
	Payload    TransferPayload `json:"payload"`
	Status     ReceiptStatus   `json:"status"`
	ErrorCode  *string         `json:"error_code,omitempty"`
	ExecuteAt  time.Time       `json:"execute_at"`
	ExecutedAt *time.Time      `json:"executed_at,omitempty"`
}

// IsTerminal returns true once the action has run, successfully or not.
func (r *DeferredReceipt) IsTerminal() bool {
	return r.Status == ReceiptStatusExecuted || r.Status == ReceiptStatusFailed
}

// Settleable reports whether an outcome may still be recorded on r.
func (r *DeferredReceipt) Settleable() bool {
	switch r.Status {
	case ReceiptStatusPending:
		return true
	case ReceiptStatusFailed:
		return r.ErrorCode != nil && *r.ErrorCode == CodeSchedulerUnavailable
	}
	return false
}
