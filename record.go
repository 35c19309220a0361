package xtoast

import (
	"encoding/json"
	"time"
)

// Hook is an optional callback attached to a record. A nil Hook is a no-op.
type Hook func(r Record)

func (h Hook) fire(r Record) {
	if h != nil {
		h(r)
	}
}

// Record is one toast with every display property resolved.
// Records are values; the queue owns the active copies.
type Record struct {
	ID        uint64
	Title     string
	Body      string
	Kind      Kind
	Theme     Theme
	ShowClose bool
	// Timeout zero means the record is never auto-dismissed; a negative
	// timeout dismisses it as soon as the scheduler runs.
	Timeout   time.Duration
	CreatedAt time.Time

	OnAdd    Hook
	OnRemove Hook
}

// TypeClass is the display token derived from the kind.
func (r Record) TypeClass() string { return typeClassPrefix + string(r.Kind) }

// ThemeClass is the display token derived from the theme.
func (r Record) ThemeClass() string { return themeClassPrefix + string(r.Theme) }

// Expires reports whether the record schedules its own removal.
func (r Record) Expires() bool { return r.Timeout != 0 }

// dismissAfter is the scheduling delay for an expiring record.
func (r Record) dismissAfter() time.Duration { return max(r.Timeout, 0) }

// recordWire is the encoded form of a Record. Hooks never travel.
type recordWire struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"msg,omitempty"`
	Kind      Kind      `json:"kind"`
	Theme     Theme     `json:"theme"`
	Type      string    `json:"type"`
	ThemeCls  string    `json:"themeClass"`
	ShowClose bool      `json:"showClose"`
	TimeoutMs int64     `json:"timeout"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarshalJSON encodes the record with its derived display tokens.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordWire{
		ID:        r.ID,
		Title:     r.Title,
		Body:      r.Body,
		Kind:      r.Kind,
		Theme:     r.Theme,
		Type:      r.TypeClass(),
		ThemeCls:  r.ThemeClass(),
		ShowClose: r.ShowClose,
		TimeoutMs: r.Timeout.Milliseconds(),
		CreatedAt: r.CreatedAt,
	})
}

// UnmarshalJSON decodes the wire form. Hooks are left nil.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		ID:        w.ID,
		Title:     w.Title,
		Body:      w.Body,
		Kind:      w.Kind,
		Theme:     w.Theme,
		ShowClose: w.ShowClose,
		Timeout:   time.Duration(w.TimeoutMs) * time.Millisecond,
		CreatedAt: w.CreatedAt,
	}
	return nil
}
