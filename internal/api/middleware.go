package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/api/handlers"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID tags each request with the caller's X-Request-ID or a fresh one,
// and stores it where obs.Time finds it.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(obs.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// accessLog logs end-to-end request duration and response size, and records
// the request in the HTTP metrics.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		size := max(c.Writer.Size(), 0)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(dur.Seconds())

		logging.Logger.Info().
			Str("req_id", obs.RequestID(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.RequestURI()).
			Int("status", status).
			Int("bytes", size).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("request")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// credential extracts the bearer token, falling back to the session cookie
// when cookies are accepted.
func credential(c *gin.Context, allowCookie bool) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if allowCookie {
		if v, err := c.Cookie(handlers.SessionCookie); err == nil {
			return v
		}
	}
	return ""
}

// authRequired rejects requests without a credential (403) or with one that
// does not verify (401), and records the caller's username otherwise.
func authRequired(svc *services.AuthService, allowCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := credential(c, allowCookie)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Access denied. No token provided."})
			return
		}

		username, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(handlers.StatusFor(err), dto.ErrorResponse{Error: "Invalid or expired token."})
			return
		}

		c.Set(handlers.UsernameKey, username)
		c.Next()
	}
}
