package xtoast

import (
	"time"
)

// Kind is the category of a toast. It selects styling only.
type Kind string

const (
	KindDefault Kind = "default"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWait    Kind = "wait"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Valid reports whether k is one of the known categories.
func (k Kind) Valid() bool {
	switch k {
	case KindDefault, KindInfo, KindSuccess, KindWait, KindError, KindWarning:
		return true
	}
	return false
}

// Theme is the visual theme of a toast.
type Theme string

const (
	ThemeDefault   Theme = "default"
	ThemeMaterial  Theme = "material"
	ThemeBootstrap Theme = "bootstrap"
)

// Themes is the allow-list consulted when resolving a requested theme.
var Themes = []Theme{ThemeDefault, ThemeMaterial, ThemeBootstrap}

// Valid reports whether t is in the theme allow-list.
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Position is the screen corner/edge the queue is anchored to.
type Position string

const (
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomCenter Position = "bottom-center"
	PositionCenterCenter Position = "center-center"
)

// Positions lists every accepted position.
var Positions = []Position{
	PositionBottomRight,
	PositionBottomLeft,
	PositionTopRight,
	PositionTopLeft,
	PositionTopCenter,
	PositionBottomCenter,
	PositionCenterCenter,
}

// Valid reports whether p is one of the accepted positions.
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Display token prefixes handed to the rendering layer.
const (
	typeClassPrefix     = "message-display-type-"
	themeClassPrefix    = "message-display-theme-"
	positionClassPrefix = "message-position-"
)

// Cause tells why a record left the active queue.
type Cause string

const (
	CauseCleared    Cause = "cleared"
	CauseClearedAll Cause = "cleared_all"
	CauseExpired    Cause = "expired"
	CauseEvicted    Cause = "evicted"
	CauseClosed     Cause = "closed"
)

// EventType enumerates internal lifecycle events for Observer pattern.
type EventType string

const (
	EventAdded    EventType = "added"
	EventRejected EventType = "rejected"
	EventDropped  EventType = "dropped"
	EventRemoved  EventType = "removed"
	EventEvicted  EventType = "evicted"
	EventError    EventType = "error"
)

// Event carries telemetry for observers.
type Event struct {
	Type     EventType
	RecordID uint64
	Kind     Kind
	Cause    Cause
	// Duration is how long the record was visible, when known.
	Duration time.Duration
	Err      error

	// Internal: attached for async dispatch
	observers []Observer
}

// PoolStats returns telemetry about the observer pool.
type PoolStats struct {
	Dropped      uint64 // Events dropped due to full buffer
	Processed    uint64 // Events successfully processed
	ActiveEvents int    // Current queue depth
	Workers      int    // Number of dispatch goroutines
	BufferSize   int    // Channel capacity
}

// Metrics defines observable telemetry for the bus and its queues.
type Metrics struct {
	Added         uint64
	Rejected      uint64
	Dropped       uint64
	Removed       uint64
	Evicted       uint64
	Expired       uint64
	Errors        uint64
	Subscribers   int
	EventsDropped uint64
}

// HealthStatus indicates bus health for probes and debug endpoints.
type HealthStatus struct {
	Status    string // "healthy", "degraded", "unhealthy"
	Metrics   Metrics
	Timestamp time.Time
	Message   string
}
