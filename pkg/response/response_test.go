package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-exchange/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set(CtxRequestID, requestID)
	}
	return c, w
}

func TestSuccessEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		send       func(c *gin.Context)
		wantStatus int
		location   string
	}{
		{"balance read", func(c *gin.Context) { OK(c, gin.H{"balance": "75.0000 SYM"}) }, http.StatusOK, ""},
		{"asset created", func(c *gin.Context) { Created(c, gin.H{"balance": "0.0000 SYM"}) }, http.StatusCreated, ""},
		{"deferred accepted", func(c *gin.Context) {
			Accepted(c, "/api/v1/deferred/7", gin.H{"status": "PENDING"})
		}, http.StatusAccepted, "/api/v1/deferred/7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-" + tt.name)
			tt.send(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))

			var resp SuccessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "req-"+tt.name, resp.RequestID)
			_, err := time.Parse(time.RFC3339, resp.Timestamp)
			assert.NoError(t, err)
			assert.NotNil(t, resp.Data)
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantKind   apperror.Kind
		wantMsg    string
	}{
		{"overdrawn", apperror.ErrOverdrawn(), http.StatusUnprocessableEntity, "STATE_005", apperror.KindState, "Overdrawn balance"},
		{"wrapped authority", fmt.Errorf("transfer: %w", apperror.ErrMissingAuthority("alice")), http.StatusForbidden, "AUTH_001", apperror.KindAuthorization, ""},
		{"bad symbol", apperror.ErrInvalidSymbol(), http.StatusBadRequest, "VAL_001", apperror.KindValidation, ""},
		{"database cause hidden", apperror.ErrDatabaseError(errors.New("pq: relation balances is locked")), http.StatusInternalServerError, "SYS_001", apperror.KindSystem, "Internal database error"},
		{"plain error", errors.New("scheduler exploded"), http.StatusInternalServerError, "SYS_000", apperror.KindSystem, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-err")
			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
			assert.NotContains(t, w.Body.String(), "exploded")

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.ErrorCode)
			assert.Equal(t, string(tt.wantKind), resp.Kind)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			assert.Equal(t, "req-err", resp.RequestID)

			require.Len(t, c.Errors, 1)
			assert.ErrorIs(t, c.Errors.Last().Err, tt.err)
		})
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	c, w := newContext("")
	OK(c, nil)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RequestID, 36)
}
