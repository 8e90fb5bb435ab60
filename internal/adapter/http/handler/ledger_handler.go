package handler

import (
	"math"
	"time"

	"asset-exchange/internal/adapter/http/dto"
	"asset-exchange/internal/adapter/http/middleware"
	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/pkg/apperror"
	"asset-exchange/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler serves the asset ledger API.
type LedgerHandler struct {
	ledger ports.LedgerService
}

func NewLedgerHandler(ledger ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// CreateAsset handles POST /api/v1/assets.
func (h *LedgerHandler) CreateAsset(c *gin.Context) {
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	maxSupply, err := dto.ParseSupply(req.MaxSupply)
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.ledger.Create(c.Request.Context(), ports.CreateRequest{
		Issuer:    domain.Name(req.Issuer),
		MaxSupply: maxSupply,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, d.Symbol().Code)
	response.Created(c, dto.NewAssetResponse(d))
}

// Issue handles POST /api/v1/assets/issue.
func (h *LedgerHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	quantity, err := dto.ParseQuantity(req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.ledger.Issue(c.Request.Context(), ports.IssueRequest{
		To:       domain.Name(req.To),
		Quantity: quantity,
		Memo:     req.Memo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, d.Symbol().Code)
	response.OK(c, dto.NewAssetResponse(d))
}

// Transfer handles POST /api/v1/transfers.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	transfer, err := transferRequest(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.ledger.TransferIn(c.Request.Context(), transfer); err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, req.From+"->"+req.To)
	response.OK(c, dto.TransferResponse{
		From:     req.From,
		To:       req.To,
		Quantity: transfer.Quantity.String(),
		Memo:     req.Memo,
	})
}

// DeferredTransfer handles POST /api/v1/transfers/deferred.
func (h *LedgerHandler) DeferredTransfer(c *gin.Context) {
	var req dto.DeferredTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	transfer, err := transferRequest(req.TransferRequest)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.DelaySeconds > math.MaxInt64/int64(time.Second) {
		response.Error(c, apperror.ErrInvalidDelay())
		return
	}

	action, err := h.ledger.Transfer(c.Request.Context(), ports.DeferredTransferRequest{
		TransferRequest: transfer,
		Delay:           time.Duration(req.DelaySeconds) * time.Second,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, action.ID.String())
	response.Accepted(c, "/api/v1/deferred/"+action.ID.String(), dto.NewScheduledResponse(action))
}

func transferRequest(req dto.TransferRequest) (ports.TransferRequest, error) {
	quantity, err := dto.ParseQuantity(req.Quantity)
	if err != nil {
		return ports.TransferRequest{}, err
	}
	return ports.TransferRequest{
		From:     domain.Name(req.From),
		To:       domain.Name(req.To),
		Quantity: quantity,
		Memo:     req.Memo,
	}, nil
}

// RegisterAccount handles POST /api/v1/accounts.
func (h *LedgerHandler) RegisterAccount(c *gin.Context) {
	var req dto.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	account, err := h.ledger.RegisterAccount(c.Request.Context(), domain.Name(req.Name))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, account.Name.String())
	response.Created(c, dto.AccountResponse{Name: account.Name.String(), CreatedAt: account.CreatedAt})
}

// GetAsset handles GET /api/v1/assets/:symbol.
func (h *LedgerHandler) GetAsset(c *gin.Context) {
	var uri dto.AssetURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	d, err := h.ledger.GetAsset(c.Request.Context(), uri.Symbol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAssetResponse(d))
}

// GetBalances handles GET /api/v1/accounts/:account/balances.
func (h *LedgerHandler) GetBalances(c *gin.Context) {
	var uri dto.AccountURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	owner := domain.Name(uri.Account)
	rows, err := h.ledger.GetBalances(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBalancesResponse(owner, rows))
}

// GetDeferred handles GET /api/v1/deferred/:id.
func (h *LedgerHandler) GetDeferred(c *gin.Context) {
	var uri dto.DeferredURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	id, err := uuid.Parse(uri.ID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid deferred id"))
		return
	}

	receipt, err := h.ledger.GetDeferredStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewReceiptResponse(receipt))
}
