// Package endpoint holds the bot's operational HTTP handlers.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/quorumbot/component"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

// Info identifies the running process in every response.
type Info struct {
	Service string
	Version string
	// Started is the process start time; zero means the handler's creation.
	Started time.Time
}

// Report is the /health body.
type Report struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Version    string                 `json:"version,omitempty"`
	Time       time.Time              `json:"time"`
	Components []component.Health     `json:"components"`
}

// Aggregate folds component statuses: any unhealthy component makes the
// whole unhealthy, otherwise any degraded one makes it degraded.
func Aggregate(hs []component.Health) component.HealthStatus {
	status := component.StatusHealthy
	for _, h := range hs {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status
}

// Health reports the aggregate and per-component health. It answers 503
// when a component (the Telegram runner included) is unhealthy.
func Health(info Info, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hs []component.Health
		if checker != nil {
			hs = checker(c.Request.Context())
		}
		if hs == nil {
			hs = []component.Health{}
		}
		r := Report{
			Status:     Aggregate(hs),
			Service:    info.Service,
			Version:    info.Version,
			Time:       time.Now().UTC(),
			Components: hs,
		}
		code := http.StatusOK
		if r.Status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, r)
	}
}

// Liveness answers as long as the process can serve HTTP at all.
func Liveness(info Info) gin.HandlerFunc {
	started := info.Started
	if started.IsZero() {
		started = time.Now()
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "alive",
			"service":        info.Service,
			"uptime_seconds": int64(time.Since(started).Seconds()),
		})
	}
}
