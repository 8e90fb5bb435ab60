package handler

import (
	"context"
	"net/http"
	"time"

	"asset-exchange/internal/core/ports"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const healthTimeout = 2 * time.Second

type dependencyHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. The ledger is ready only when every
// dependency answers within healthTimeout; they are pinged concurrently.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		results := make([]dependencyHealth, len(checkers))
		var g errgroup.Group
		for i, checker := range checkers {
			g.Go(func() error {
				start := time.Now()
				err := checker.Ping(ctx)
				results[i] = dependencyHealth{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
				if err != nil {
					results[i].Status, results[i].Error = "unhealthy", err.Error()
				}
				return nil
			})
		}
		_ = g.Wait()

		deps := make(map[string]dependencyHealth, len(checkers))
		for i, checker := range checkers {
			deps[checker.Name()] = results[i]
		}

		status, httpCode := "healthy", http.StatusOK
		for _, dep := range deps {
			if dep.Status != "healthy" {
				status, httpCode = "degraded", http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// Liveness handles GET /health/live. It reports only that the process serves
// requests, so a storage outage does not get the instance restarted.
func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
