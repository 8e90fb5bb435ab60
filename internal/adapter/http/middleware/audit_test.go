package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_TransferSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	done := make(chan *domain.AuditLog, 1)
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		done <- entry
	})

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/transfers", func(c *gin.Context) {
		c.Set(CtxAccount, domain.Name("alice"))
		c.Set(CtxTokenID, "jti-7")
		c.Set(CtxResourceID, "alice->bob")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case entry := <-done:
		assert.Equal(t, domain.AuditActionTransferIn, entry.Action)
		assert.Equal(t, "transfer", entry.ResourceType)
		assert.Equal(t, "alice->bob", entry.ResourceID)
		if assert.NotNil(t, entry.Actor) {
			assert.Equal(t, domain.Name("alice"), *entry.Actor)
		}
		assert.Contains(t, entry.Details, `"status":200`)
		assert.Contains(t, entry.Details, `"token_id":"jti-7"`)
	case <-time.After(time.Second):
		t.Fatal("audit not called")
	}
}

func TestAuditLog_SkipsReadsAndFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)
	// no expectations: Log must not be called

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.GET("/api/v1/assets/:symbol", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/assets/issue", func(c *gin.Context) { c.Status(http.StatusUnprocessableEntity) })
	r.POST("/api/v1/other", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/assets/SYM", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/assets/issue", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/other", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestMapRouteToAction(t *testing.T) {
	tests := []struct {
		route    string
		action   domain.AuditAction
		resource string
	}{
		{"/api/v1/assets", domain.AuditActionCreate, "asset"},
		{"/api/v1/assets/issue", domain.AuditActionIssue, "asset"},
		{"/api/v1/transfers", domain.AuditActionTransferIn, "transfer"},
		{"/api/v1/transfers/deferred", domain.AuditActionTransfer, "deferred_transfer"},
		{"/api/v1/accounts", domain.AuditActionRegisterAccount, "account"},
		{"/api/v1/unknown", "", ""},
	}
	for _, tt := range tests {
		action, resource := mapRouteToAction(tt.route)
		assert.Equal(t, tt.action, action, tt.route)
		assert.Equal(t, tt.resource, resource, tt.route)
	}
}
