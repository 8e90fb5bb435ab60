package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records every successful ledger mutation after the response is written.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 || c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		var actor *domain.Name
		if account, ok := AccountFrom(c); ok {
			actor = &account
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(response.CtxRequestID),
			"token_id":   c.GetString(CtxTokenID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Actor:        actor,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

// CtxResourceID is set by handlers to the identifier of what they changed.
const CtxResourceID = "resource_id"

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/assets":
		return domain.AuditActionCreate, "asset"
	case "/api/v1/assets/issue":
		return domain.AuditActionIssue, "asset"
	case "/api/v1/transfers":
		return domain.AuditActionTransferIn, "transfer"
	case "/api/v1/transfers/deferred":
		return domain.AuditActionTransfer, "deferred_transfer"
	case "/api/v1/accounts":
		return domain.AuditActionRegisterAccount, "account"
	}
	return "", ""
}
