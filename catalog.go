package xtoast

import (
	"fmt"
	"time"
)

// Catalog holds the defaults every toast and queue resolves against.
type Catalog struct {
	// Limit is the maximum number of toasts visible at once.
	Limit int
	// ShowClose controls whether the close control is rendered by default.
	ShowClose bool
	// Position is where the queue is anchored when none (or an unknown one) is requested.
	Position Position
	// Timeout is how long a toast stays before it is removed. Zero disables auto-dismiss.
	Timeout time.Duration
	// Theme applies when a toast requests none or an unknown one.
	Theme Theme
}

// Defaults returns a Catalog with the stock settings.
func Defaults() Catalog {
	return Catalog{
		Limit:     5,
		ShowClose: true,
		Position:  PositionBottomRight,
		Timeout:   5 * time.Second,
		Theme:     ThemeDefault,
	}
}

// Validate checks the Catalog before it is handed to a Bus.
func (c Catalog) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidCatalog, c.Limit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be >= 0, got %v", ErrInvalidCatalog, c.Timeout)
	}
	if !c.Position.Valid() {
		return fmt.Errorf("%w: unknown position %q", ErrInvalidCatalog, c.Position)
	}
	if !c.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidCatalog, c.Theme)
	}
	return nil
}

// CatalogFromMap safely converts cfg into a Catalog, keeping defaults for
// missing or malformed keys. A bare number for "timeout" is read as milliseconds.
func CatalogFromMap(cfg map[string]any) Catalog {
	getInt := func(k string, d int) int {
		switch v := cfg[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		default:
			return d
		}
	}
	getBool := func(k string, d bool) bool {
		if v, ok := cfg[k].(bool); ok {
			return v
		}
		return d
	}
	getString := func(k, d string) string {
		if v, ok := cfg[k].(string); ok && v != "" {
			return v
		}
		return d
	}
	getDur := func(k string, d time.Duration) time.Duration {
		switch v := cfg[k].(type) {
		case time.Duration:
			return v
		case string:
			if p, err := time.ParseDuration(v); err == nil {
				return p
			}
		case int:
			return time.Duration(v) * time.Millisecond
		case int64:
			return time.Duration(v) * time.Millisecond
		case float64:
			return time.Duration(v * float64(time.Millisecond))
		case nil:
			// explicit null disables the timeout
			if _, ok := cfg[k]; ok {
				return 0
			}
		}
		return d
	}

	d := Defaults()
	c := Catalog{
		Limit:     getInt("limit", d.Limit),
		ShowClose: getBool("show_close", d.ShowClose),
		Position:  Position(getString("position", string(d.Position))),
		Timeout:   getDur("timeout", d.Timeout),
		Theme:     Theme(getString("theme", string(d.Theme))),
	}

	if c.Limit < 1 {
		c.Limit = d.Limit
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	if !c.Position.Valid() {
		c.Position = d.Position
	}
	if !c.Theme.Valid() {
		c.Theme = d.Theme
	}
	return c
}
