package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-exchange/internal/adapter/metrics"
	"asset-exchange/internal/core/domain"
	"asset-exchange/pkg/apperror"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CountsActionsByOutcome(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveAction(domain.ActionTransferIn, nil, 3*time.Millisecond)
	r.ObserveAction(domain.ActionTransferIn, nil, time.Millisecond)
	r.ObserveAction(domain.ActionTransferIn, apperror.ErrOverdrawn(), time.Millisecond)
	r.ObserveAction(domain.ActionIssue, errors.New("boom"), time.Millisecond)

	body := scrape(t, r)
	assert.Contains(t, body, `assetex_actions_total{action="transferin",code="OK"} 2`)
	assert.Contains(t, body, `assetex_actions_total{action="transferin",code="STATE_005"} 1`)
	assert.Contains(t, body, `assetex_actions_total{action="issue",code="SYS_000"} 1`)
	assert.Contains(t, body, `assetex_action_duration_seconds_count{action="transferin"} 3`)
}

func TestRecorder_CountsDeferredAndRequests(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveDeferred(domain.ReceiptStatusExecuted)
	r.ObserveDeferred(domain.ReceiptStatusFailed)
	r.ObserveDeferred(domain.ReceiptStatusFailed)
	r.ObserveRequest(http.MethodPost, "/api/v1/transfers", http.StatusOK)
	r.ObserveRequest(http.MethodGet, "", http.StatusNotFound)

	n, err := testutil.GatherAndCount(r.Registry(), "assetex_deferred_settled_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	body := scrape(t, r)
	assert.Contains(t, body, `assetex_deferred_settled_total{status="FAILED"} 2`)
	assert.Contains(t, body, `assetex_http_requests_total{method="POST",route="/api/v1/transfers",status="OK"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.Contains(t, body, "go_goroutines")
}

func scrape(t *testing.T, r *metrics.Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	b, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRecorder_WatchBacklog(t *testing.T) {
	r := metrics.NewRecorder()
	var (
		depth int64 = 4
		err   error
	)
	r.WatchBacklog(func(context.Context) (int64, error) { return depth, err })

	assert.Contains(t, scrape(t, r), "assetex_deferred_backlog 4")

	err = errors.New("redis down")
	assert.Contains(t, scrape(t, r), "assetex_deferred_backlog -1")
}
