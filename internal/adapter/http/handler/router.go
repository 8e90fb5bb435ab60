package handler

import (
	"net/http"

	"asset-exchange/internal/adapter/http/middleware"
	"asset-exchange/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Ledger         ports.LedgerService
	TokenSvc       ports.TokenService
	RateLimitStore middleware.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService          // nil = audit logging disabled
	Metrics        middleware.RequestObserver  // nil = request metrics disabled
	MetricsHandler http.Handler                // nil = no /metrics route
	OpenAPISpec    []byte
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.MaxBodySize(64 << 10))
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/health/live", Liveness)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	swagger := NewSwagger(deps.OpenAPISpec)
	r.GET("/swagger", swagger.UI)
	r.GET("/swagger/spec", swagger.Spec)

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	ledger := NewLedgerHandler(deps.Ledger)
	v1 := r.Group("/api/v1")

	// --- Public reads ---
	v1.GET("/assets/:symbol", rl("reads"), ledger.GetAsset)
	v1.GET("/accounts/:account/balances", rl("reads"), ledger.GetBalances)
	v1.GET("/deferred/:id", rl("reads"), ledger.GetDeferred)

	// --- Actions: the bearer token grants account@active ---
	signed := v1.Group("", middleware.JWTAuth(deps.TokenSvc, deps.Logger))
	{
		signed.POST("/assets", rl("assets"), ledger.CreateAsset)
		signed.POST("/assets/issue", rl("issue"), ledger.Issue)
		signed.POST("/transfers", rl("transfers"), ledger.Transfer)
		signed.POST("/transfers/deferred", rl("deferred"), ledger.DeferredTransfer)
		signed.POST("/accounts", rl("accounts"), ledger.RegisterAccount)
	}

	return r
}
