package dto

import (
	"time"

	"asset-exchange/internal/core/domain"
)

// CreateAssetRequest is the request body for registering an asset type.
type CreateAssetRequest struct {
	Issuer    string `json:"issuer" binding:"required,account_name"`
	MaxSupply string `json:"maximum_supply" binding:"required"`
}

// IssueRequest is the request body for minting new supply.
type IssueRequest struct {
	To       string `json:"to" binding:"required,account_name"`
	Quantity string `json:"quantity" binding:"required"`
	Memo     string `json:"memo" sanitize:"-"`
}

// TransferRequest is the request body for an immediate transfer.
type TransferRequest struct {
	From     string `json:"from" binding:"required,account_name"`
	To       string `json:"to" binding:"required,account_name"`
	Quantity string `json:"quantity" binding:"required"`
	Memo     string `json:"memo" sanitize:"-"`
}

// DeferredTransferRequest is the request body for a scheduled transfer.
type DeferredTransferRequest struct {
	TransferRequest
	DelaySeconds int64 `json:"delay_seconds"`
}

// RegisterAccountRequest is the request body for adding an account name.
type RegisterAccountRequest struct {
	Name string `json:"name" binding:"required,account_name"`
}

// AssetURI binds the :symbol path segment.
type AssetURI struct {
	Symbol string `uri:"symbol" binding:"required,symbol_code"`
}

// AccountURI binds the :account path segment.
type AccountURI struct {
	Account string `uri:"account" binding:"required,account_name"`
}

// DeferredURI binds the :id path segment.
type DeferredURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// AssetResponse describes an asset type.
type AssetResponse struct {
	Symbol    string    `json:"symbol"`
	Supply    string    `json:"supply"`
	MaxSupply string    `json:"maximum_supply"`
	Available string    `json:"available"`
	Issuer    string    `json:"issuer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAssetResponse(d *domain.AssetDescriptor) AssetResponse {
	return AssetResponse{
		Symbol:    d.Symbol().String(),
		Supply:    d.Supply.String(),
		MaxSupply: d.MaxSupply.String(),
		Available: domain.NewAsset(d.Available(), d.Symbol()).String(),
		Issuer:    d.Issuer.String(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// BalancesResponse lists every holding of one account.
type BalancesResponse struct {
	Owner    string   `json:"owner"`
	Balances []string `json:"balances"`
}

func NewBalancesResponse(owner domain.Name, rows []domain.BalanceRecord) BalancesResponse {
	out := BalancesResponse{Owner: owner.String(), Balances: make([]string, 0, len(rows))}
	for _, r := range rows {
		out.Balances = append(out.Balances, r.Balance.String())
	}
	return out
}

// TransferResponse acknowledges an immediate transfer.
type TransferResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}

// DeferredResponse describes a scheduled or settled deferred transfer.
type DeferredResponse struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	ErrorCode  *string    `json:"error_code,omitempty"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Quantity   string     `json:"quantity"`
	ExecuteAt  time.Time  `json:"execute_at"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`
}

func NewScheduledResponse(a *domain.DeferredAction) DeferredResponse {
	return DeferredResponse{
		ID:        a.ID.String(),
		Status:    "pending",
		From:      a.Payload.From.String(),
		To:        a.Payload.To.String(),
		Quantity:  a.Payload.Quantity.String(),
		ExecuteAt: a.ExecuteAt,
	}
}

func NewReceiptResponse(r *domain.DeferredReceipt) DeferredResponse {
	status := "pending"
	switch r.Status {
	case domain.ReceiptStatusExecuted:
		status = "executed"
	case domain.ReceiptStatusFailed:
		status = "failed"
	}
	return DeferredResponse{
		ID:         r.ID.String(),
		Status:     status,
		ErrorCode:  r.ErrorCode,
		From:       r.Payload.From.String(),
		To:         r.Payload.To.String(),
		Quantity:   r.Payload.Quantity.String(),
		ExecuteAt:  r.ExecuteAt,
		ExecutedAt: r.ExecutedAt,
	}
}

// AccountResponse describes a registered account.
type AccountResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
