package xtoast

import (
	"context"
	"time"
)

// ClearSignal asks subscribers to remove one record, or all of them when ID is zero.
type ClearSignal struct {
	ID uint64
}

// All reports whether the signal carries no id.
func (s ClearSignal) All() bool { return s.ID == 0 }

// Subscriber receives creation and clear signals from a Bus, synchronously and
// in subscription order. Signals published while nobody is subscribed are lost.
type Subscriber interface {
	OnRecord(r Record)
	OnClear(s ClearSignal)
}

// Subscription represents an active subscription that can be closed.
type Subscription interface {
	Close() error
}

// Scheduler runs f once after d. Scheduled functions are never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Observer receives bus lifecycle events. Implementations should be non-blocking.
type Observer interface {
	OnEvent(e Event)
}

// HealthChecker provides health status for monitoring.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// API represents the complete toast bus surface.
type API interface {
	Default(in Input) (Record, error)
	Info(in Input) (Record, error)
	Success(in Input) (Record, error)
	Wait(in Input) (Record, error)
	Error(in Input) (Record, error)
	Warning(in Input) (Record, error)
	Add(in Input, kind Kind) (Record, error)
	ShowError(v any) Record
	Clear(id uint64)
	ClearAll()
	Subscribe(s Subscriber) Subscription
	Close(ctx context.Context) error
	GetMetrics() Metrics
	Health(ctx context.Context) HealthStatus
	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
}

var _ API = (*Bus)(nil)
var _ HealthChecker = (*Bus)(nil)
