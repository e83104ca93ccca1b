package handler

import (
	"context"
	"net/http"
	"time"

	"bank-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// DefaultHealthTimeout bounds each store ping when none is configured.
const DefaultHealthTimeout = 2 * time.Second

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. Every checker is pinged with its own
// timeout; one failure marks the service degraded with a 503.
func HealthCheck(timeout time.Duration, checkers ...ports.HealthChecker) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return func(c *gin.Context) {
		deps := make(map[string]dependencyStatus, len(checkers))
		healthy := true

		for _, checker := range checkers {
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			start := time.Now()
			err := checker.Ping(ctx)
			cancel()

			st := dependencyStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "unhealthy"
				st.Error = err.Error()
				healthy = false
			}
			deps[checker.Name()] = st
		}

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
