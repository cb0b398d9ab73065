package component

import "context"

// HealthStatus is the coarse state reported on /health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in the health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports name as healthy.
func Healthy(name string) Health {
	return Health{Name: name, Status: StatusHealthy}
}

// Unhealthy reports name as unhealthy with a reason.
func Unhealthy(name, reason string) Health {
	return Health{Name: name, Status: StatusUnhealthy, Message: reason}
}

// Component is a piece of infrastructure the bot starts before handling
// events and stops after the last event: stores, the HTTP server, the
// Telegram runner.
type Component interface {
	Name() string
	// Start returns once the component is usable.
	Start(ctx context.Context) error
	// Stop releases resources; ctx bounds how long it may wait.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the one-line startup summary of a component.
type Description struct {
	// Name defaults to the component's Name().
	Name string
	// Type is e.g. "database", "redis", "server" or "dispatcher".
	Type    string
	Details string
}

// Describable components appear in the startup summary.
type Describable interface {
	Describe() Description
}
