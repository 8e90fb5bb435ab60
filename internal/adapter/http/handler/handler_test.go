package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/internal/core/ports/mocks"
	"asset-exchange/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var sym = domain.Symbol{Precision: 4, Code: "SYM"}

func testDescriptor() *domain.AssetDescriptor {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.AssetDescriptor{
		Supply:    domain.NewAsset(1_000_000, sym),
		MaxSupply: domain.NewAsset(10_000_000, sym),
		Issuer:    "alice",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type testServer struct {
	ledger *mocks.MockLedgerService
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger)

	r := gin.New()
	r.POST("/api/v1/assets", h.CreateAsset)
	r.POST("/api/v1/assets/issue", h.Issue)
	r.POST("/api/v1/transfers", h.Transfer)
	r.POST("/api/v1/transfers/deferred", h.DeferredTransfer)
	r.POST("/api/v1/accounts", h.RegisterAccount)
	r.GET("/api/v1/assets/:symbol", h.GetAsset)
	r.GET("/api/v1/accounts/:account/balances", h.GetBalances)
	r.GET("/api/v1/deferred/:id", h.GetDeferred)
	return &testServer{ledger: ledger, engine: r}
}

func (s *testServer) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

// --- Create ---

func TestCreateAsset_Success(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().Create(gomock.Any(), ports.CreateRequest{
		Issuer:    "alice",
		MaxSupply: domain.NewAsset(10_000_000, sym),
	}).Return(testDescriptor(), nil)

	w, resp := s.do(http.MethodPost, "/api/v1/assets", gin.H{"issuer": "alice", "maximum_supply": "1000.0000 SYM"})

	require.Equal(t, http.StatusCreated, w.Code)
	d := data(t, resp)
	assert.Equal(t, "4,SYM", d["symbol"])
	assert.Equal(t, "100.0000 SYM", d["supply"])
	assert.Equal(t, "900.0000 SYM", d["available"])
	assert.Equal(t, "alice", d["issuer"])
}

func TestCreateAsset_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
		code string
	}{
		{"bad issuer", gin.H{"issuer": "Alice", "maximum_supply": "1.0 SYM"}, "VAL_007"},
		{"missing supply", gin.H{"issuer": "alice"}, "VAL_000"},
		{"bad symbol", gin.H{"issuer": "alice", "maximum_supply": "1.0 sym"}, "VAL_006"},
		{"bad amount", gin.H{"issuer": "alice", "maximum_supply": "x SYM"}, "VAL_006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w, resp := s.do(http.MethodPost, "/api/v1/assets", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, resp["error_code"])
		})
	}
}

func TestCreateAsset_ServiceError(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadyExists("Token with symbol"))

	w, resp := s.do(http.MethodPost, "/api/v1/assets", gin.H{"issuer": "alice", "maximum_supply": "1000.0000 SYM"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "STATE_001", resp["error_code"])
	assert.Equal(t, "STATE", resp["kind"])
}

// --- Issue ---

func TestIssue_PassesMemoVerbatim(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().Issue(gomock.Any(), ports.IssueRequest{
		To:       "bob",
		Quantity: domain.NewAsset(5_000, sym),
		Memo:     " <b>hi</b> ",
	}).Return(testDescriptor(), nil)

	w, resp := s.do(http.MethodPost, "/api/v1/assets/issue", gin.H{"to": "bob", "quantity": "0.5000 SYM", "memo": " <b>hi</b> "})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100.0000 SYM", data(t, resp)["supply"])
}

func TestIssue_BadQuantity(t *testing.T) {
	s := newTestServer(t)
	w, resp := s.do(http.MethodPost, "/api/v1/assets/issue", gin.H{"to": "bob", "quantity": "1.0 s"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", resp["error_code"])
}

// --- Transfer ---

func TestTransfer_Success(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().TransferIn(gomock.Any(), ports.TransferRequest{
		From:     "alice",
		To:       "bob",
		Quantity: domain.NewAsset(12_500, sym),
		Memo:     "rent",
	}).Return(nil)

	w, resp := s.do(http.MethodPost, "/api/v1/transfers", gin.H{"from": "alice", "to": "bob", "quantity": "1.2500 SYM", "memo": "rent"})

	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, resp)
	assert.Equal(t, "1.2500 SYM", d["quantity"])
	assert.Equal(t, "rent", d["memo"])
}

func TestTransfer_Overdrawn(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().TransferIn(gomock.Any(), gomock.Any()).Return(apperror.ErrOverdrawn())

	w, resp := s.do(http.MethodPost, "/api/v1/transfers", gin.H{"from": "alice", "to": "bob", "quantity": "1.0000 SYM"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "STATE_005", resp["error_code"])
}

func TestTransfer_MalformedJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Deferred ---

func TestDeferredTransfer_Accepted(t *testing.T) {
	s := newTestServer(t)
	id := uuid.New()
	executeAt := time.Now().UTC().Add(time.Minute)
	s.ledger.EXPECT().Transfer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.DeferredTransferRequest) (*domain.DeferredAction, error) {
			assert.Equal(t, time.Minute, req.Delay)
			assert.Equal(t, domain.Name("alice"), req.From)
			return &domain.DeferredAction{
				ID:        id,
				Name:      domain.ActionTransferIn,
				Payload:   domain.TransferPayload{From: req.From, To: req.To, Quantity: req.Quantity},
				ExecuteAt: executeAt,
			}, nil
		})

	w, resp := s.do(http.MethodPost, "/api/v1/transfers/deferred", gin.H{
		"from": "alice", "to": "bob", "quantity": "1.0000 SYM", "delay_seconds": 60,
	})

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/api/v1/deferred/"+id.String(), w.Header().Get("Location"))
	d := data(t, resp)
	assert.Equal(t, id.String(), d["id"])
	assert.Equal(t, "pending", d["status"])
}

func TestDeferredTransfer_DelayOverflow(t *testing.T) {
	s := newTestServer(t)
	w, resp := s.do(http.MethodPost, "/api/v1/transfers/deferred", gin.H{
		"from": "alice", "to": "bob", "quantity": "1.0000 SYM", "delay_seconds": int64(1) << 40,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_008", resp["error_code"])
}

func TestDeferredTransfer_SchedulerDown(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrSchedulerUnavailable(errors.New("redis down")))

	w, resp := s.do(http.MethodPost, "/api/v1/transfers/deferred", gin.H{"from": "alice", "to": "bob", "quantity": "1.0000 SYM"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SYS_002", resp["error_code"])
}

func TestGetDeferred(t *testing.T) {
	s := newTestServer(t)
	id := uuid.New()
	code := "STATE_005"
	executed := time.Now().UTC()
	s.ledger.EXPECT().GetDeferredStatus(gomock.Any(), id).Return(&domain.DeferredReceipt{
		ID:         id,
		Action:     domain.ActionTransferIn,
		Payload:    domain.TransferPayload{From: "alice", To: "bob", Quantity: domain.NewAsset(1, sym)},
		Status:     domain.ReceiptStatusFailed,
		ErrorCode:  &code,
		ExecutedAt: &executed,
	}, nil)

	w, resp := s.do(http.MethodGet, "/api/v1/deferred/"+id.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, resp)
	assert.Equal(t, "failed", d["status"])
	assert.Equal(t, "STATE_005", d["error_code"])
}

func TestGetDeferred_BadID(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/api/v1/deferred/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Reads ---

func TestGetAsset(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().GetAsset(gomock.Any(), "SYM").Return(testDescriptor(), nil)
	s.ledger.EXPECT().GetAsset(gomock.Any(), "NOPE").Return(nil, apperror.ErrNotFound("Token with symbol"))

	w, resp := s.do(http.MethodGet, "/api/v1/assets/SYM", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000.0000 SYM", data(t, resp)["maximum_supply"])

	w, resp = s.do(http.MethodGet, "/api/v1/assets/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "STATE_002", resp["error_code"])

	w, resp = s.do(http.MethodGet, "/api/v1/assets/sym", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", resp["error_code"])
}

func TestGetBalances(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().GetBalances(gomock.Any(), domain.Name("bob")).Return([]domain.BalanceRecord{
		{Owner: "bob", Balance: domain.NewAsset(7, domain.Symbol{Code: "ABC"})},
		{Owner: "bob", Balance: domain.NewAsset(10_000, sym)},
	}, nil)

	w, resp := s.do(http.MethodGet, "/api/v1/accounts/bob/balances", nil)

	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, resp)
	assert.Equal(t, "bob", d["owner"])
	assert.Equal(t, []interface{}{"7 ABC", "1.0000 SYM"}, d["balances"])

	w, resp = s.do(http.MethodGet, "/api/v1/accounts/BOB/balances", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_007", resp["error_code"])
}

func TestRegisterAccount(t *testing.T) {
	s := newTestServer(t)
	s.ledger.EXPECT().RegisterAccount(gomock.Any(), domain.Name("dave")).
		Return(&domain.Account{Name: "dave", CreatedAt: time.Now().UTC()}, nil)
	s.ledger.EXPECT().RegisterAccount(gomock.Any(), domain.Name("erin")).
		Return(nil, apperror.ErrMissingAuthority("assetex"))

	w, resp := s.do(http.MethodPost, "/api/v1/accounts", gin.H{"name": "dave"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "dave", data(t, resp)["name"])

	w, resp = s.do(http.MethodPost, "/api/v1/accounts", gin.H{"name": "erin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTH_001", resp["error_code"])
}

// --- Health & docs ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(context.Context) error { return f.err }
func (f fakeChecker) Name() string               { return f.name }

// stuckChecker blocks until the health deadline expires.
type stuckChecker struct{}

func (stuckChecker) Ping(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }
func (stuckChecker) Name() string                   { return "redis" }

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/ok", HealthCheck(fakeChecker{name: "postgresql"}, fakeChecker{name: "redis"}))
	r.GET("/bad", HealthCheck(fakeChecker{name: "postgresql"}, fakeChecker{name: "redis", err: errors.New("refused")}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status       string `json:"status"`
		Dependencies map[string]struct {
			Status    string `json:"status"`
			LatencyMS *int64 `json:"latency_ms"`
			Error     string `json:"error"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	require.Len(t, body.Dependencies, 2)
	assert.NotNil(t, body.Dependencies["postgresql"].LatencyMS)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "healthy", body.Dependencies["postgresql"].Status)
	assert.Equal(t, "refused", body.Dependencies["redis"].Error)
}

func TestHealthCheck_StuckDependencyTimesOut(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(fakeChecker{name: "postgresql"}, stuckChecker{}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "deadline exceeded")
}

func TestLiveness(t *testing.T) {
	r := gin.New()
	r.GET("/health/live", Liveness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestSwagger(t *testing.T) {
	r := gin.New()
	loaded := NewSwagger([]byte("openapi: 3.0.3"))
	r.GET("/ui", loaded.UI)
	r.GET("/spec", loaded.Spec)
	r.GET("/missing", NewSwagger(nil).Spec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ui", nil))
	assert.Contains(t, w.Body.String(), "swagger-ui")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/spec", nil))
	assert.Equal(t, "openapi: 3.0.3", w.Body.String())
	etag := w.Header().Get("ETag")
	require.Len(t, etag, 18)

	req := httptest.NewRequest(http.MethodGet, "/spec", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/spec", nil)
	req.Header.Set("If-None-Match", `"stale"`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
