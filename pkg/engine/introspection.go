package engine

import (
	"time"

	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	PollInterval string     `json:"poll_interval"`
	DueLimit     int        `json:"due_limit"`
	Ticks        uint64     `json:"ticks"`
	Fired        uint64     `json:"fired"`
	LastTick     *time.Time `json:"last_tick,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

// IntrospectionState exports the engine's counters. The Introspectable
// interface proper is taken by the lifecycle worker State; hosts that want
// a diagnostics dump call this directly.
func (e *Engine) IntrospectionState() any {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	return EngineState{
		PollInterval: e.interval.String(),
		DueLimit:     e.limit,
		Ticks:        e.ticks,
		Fired:        e.fired,
		LastTick:     e.lastTick,
		LastError:    e.lastError,
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "reminder-engine"
}

var _ introspection.Component = (*Engine)(nil)
