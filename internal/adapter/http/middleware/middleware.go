package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/pkg/apperror"
	"asset-exchange/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// CtxAccount holds the domain.Name the bearer token was issued to.
	CtxAccount = "account"
	// CtxTokenID holds the jti of the bearer token.
	CtxTokenID = "token_id"
)

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int)
}

// RequestID propagates the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(response.CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// JWTAuth validates the bearer token and grants account@active to every
// ledger action the request runs.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("token rejected")
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxAccount, claims.Account)
		c.Set(CtxTokenID, claims.TokenID)
		c.Request = c.Request.WithContext(
			domain.WithAuthorization(c.Request.Context(), domain.Active(claims.Account)),
		)
		c.Next()
	}
}

// AccountFrom returns the authenticated account of the request, if any.
func AccountFrom(c *gin.Context) (domain.Name, bool) {
	v, exists := c.Get(CtxAccount)
	if !exists {
		return "", false
	}
	name, ok := v.(domain.Name)
	return name, ok
}

// pollPaths are polled by orchestrators and scrapers; successful hits are
// logged at debug level only.
var pollPaths = map[string]bool{"/health": true, "/health/live": true, "/metrics": true}

// RequestLogger writes one line per request, leveled by status.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		case pollPaths[c.FullPath()]:
			event = log.Debug()
		default:
			event = log.Info()
		}
		if account, ok := AccountFrom(c); ok {
			event = event.Str("account", account.String())
		}
		if last := c.Errors.Last(); last != nil {
			event = event.Err(last.Err)
		}
		event.
			Str("request_id", c.GetString(response.CtxRequestID)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Metrics reports every request to obs under its route pattern.
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		obs.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}

// Recovery turns a handler panic into a SYS_001 response and logs the stack.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Interface("panic", r).
				Str("request_id", c.GetString(response.CtxRequestID)).
				Str("route", c.FullPath()).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			if !c.Writer.Written() {
				response.Error(c, apperror.New("SYS_001", "Internal server error", http.StatusInternalServerError))
			}
			c.Abort()
		}()
		c.Next()
	}
}

// MaxBodySize caps the request body; reads past maxBytes fail.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
