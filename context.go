package xtoast

import "context"

// ctxKey is the base for all context keys in xtoast (prevents collisions).
type ctxKey string

const busCtxKey ctxKey = "xtoast:bus"

// WithBus attaches b to ctx so request handlers can raise toasts without a
// process-wide default.
func WithBus(ctx context.Context, b *Bus) context.Context {
	if b == nil {
		return ctx
	}
	return context.WithValue(ctx, busCtxKey, b)
}

// FromContext retrieves a Bus previously attached with WithBus.
func FromContext(ctx context.Context) (*Bus, bool) {
	if ctx == nil {
		return nil, false
	}
	if v := ctx.Value(busCtxKey); v != nil {
		if b, ok := v.(*Bus); ok && b != nil {
			return b, true
		}
	}
	return nil, false
}
