package xtoast

import (
	"strconv"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
	"golang.org/x/time/rate"
)

// AddFunc creates and publishes one toast.
type AddFunc func(in Input, kind Kind) (Record, error)

// Middleware composes concerns around the add path.
type Middleware func(next AddFunc) AddFunc

// RateLimitMiddleware rejects toasts with ErrRateLimited once l runs dry.
// Rejected requests never reach validation, so they do not consume ids.
func RateLimitMiddleware(l *rate.Limiter) Middleware {
	if l == nil {
		return func(next AddFunc) AddFunc { return next }
	}
	return func(next AddFunc) AddFunc {
		return func(in Input, kind Kind) (Record, error) {
			if !l.Allow() {
				return Record{}, ErrRateLimited
			}
			return next(in, kind)
		}
	}
}

// LoggingMiddleware logs every add at debug level, timed with clk
// (xclock.Default() when nil). Pass the same clock given to the builder.
func LoggingMiddleware(l *xlog.Logger, clk xclock.Clock) Middleware {
	if clk == nil {
		clk = xclock.Default()
	}
	return func(next AddFunc) AddFunc {
		return func(in Input, kind Kind) (Record, error) {
			start := clk.Now()
			r, err := next(in, kind)
			if l == nil {
				return r, err
			}
			l.Debug().
				Str("kind", string(kind)).
				Str("record_id", strconv.FormatUint(r.ID, 10)).
				Dur("dur", clk.Since(start)).
				Err(err).
				Msg("xtoast: add")
			return r, err
		}
	}
}

// Chain composes middlewares around an AddFunc in order.
func Chain(h AddFunc, mws ...Middleware) AddFunc {
	if len(mws) == 0 {
		return h
	}
	wrapped := h
	// Apply in reverse so that first middleware wraps last.
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}
	return wrapped
}
