package xtoast

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Bus is the Facade accepting toast creation and clear requests and
// broadcasting them to subscribers. It holds no active-toast state; that
// belongs to the Queue.
type Bus struct {
	catalog      Catalog
	codec        Codec
	clock        xclock.Clock
	logger       *xlog.Logger
	add          AddFunc
	counter      atomic.Uint64
	subsMu       sync.RWMutex
	subs         []*subscription
	observerPool *ObserverPool
	observersMu  sync.RWMutex
	observers    []Observer
	metrics      *busMetrics
	closed       atomic.Bool
	closeOnce    sync.Once
}

// busMetrics uses lock-free atomics; queues report removals into it too.
type busMetrics struct {
	added    atomic.Uint64
	rejected atomic.Uint64
	dropped  atomic.Uint64
	removed  atomic.Uint64
	evicted  atomic.Uint64
	expired  atomic.Uint64
	errors   atomic.Uint64
}

// Catalog returns the defaults this bus resolves against.
func (b *Bus) Catalog() Catalog { return b.catalog }

// Codec returns the configured codec (Strategy).
func (b *Bus) Codec() Codec { return b.codec }

// Logger returns the bus logger.
func (b *Bus) Logger() *xlog.Logger { return b.logger }

// Default creates a toast of the default kind.
func (b *Bus) Default(in Input) (Record, error) { return b.Add(in, KindDefault) }

// Info creates an info toast.
func (b *Bus) Info(in Input) (Record, error) { return b.Add(in, KindInfo) }

// Success creates a success toast.
func (b *Bus) Success(in Input) (Record, error) { return b.Add(in, KindSuccess) }

// Wait creates a wait toast.
func (b *Bus) Wait(in Input) (Record, error) { return b.Add(in, KindWait) }

// Error creates an error toast.
func (b *Bus) Error(in Input) (Record, error) { return b.Add(in, KindError) }

// Warning creates a warning toast.
func (b *Bus) Warning(in Input) (Record, error) { return b.Add(in, KindWarning) }

// Add resolves in against the catalog, assigns the next id and publishes the
// record to every current subscriber before running its OnAdd hook.
//
// The id counter only advances once the request passed validation, so a
// rejected Add never consumes an id.
func (b *Bus) Add(in Input, kind Kind) (Record, error) {
	if b.closed.Load() {
		return Record{}, ErrBusClosed
	}
	r, err := b.add(in, kind)
	if err != nil {
		b.metrics.rejected.Add(1)
		b.notify(Event{Type: EventRejected, Kind: kind, Err: err})
		return Record{}, err
	}
	return r, nil
}

// create is the innermost AddFunc of the middleware chain.
func (b *Bus) create(in Input, kind Kind) (Record, error) {
	r, err := in.options().resolve(b.catalog, kind)
	if err != nil {
		return Record{}, err
	}
	r.ID = b.counter.Add(1)
	r.CreatedAt = b.clock.Now()

	b.metrics.added.Add(1)
	n := b.deliver(func(s Subscriber) { s.OnRecord(r) })
	if n == 0 {
		b.metrics.dropped.Add(1)
		b.notify(Event{Type: EventDropped, RecordID: r.ID, Kind: r.Kind})
	} else {
		b.notify(Event{Type: EventAdded, RecordID: r.ID, Kind: r.Kind})
	}

	b.runHook("on_add", r.OnAdd, r)
	return r, nil
}

// Clear asks subscribers to remove the record with id. Zero means all.
func (b *Bus) Clear(id uint64) {
	if b.closed.Load() {
		return
	}
	b.deliver(func(s Subscriber) { s.OnClear(ClearSignal{ID: id}) })
}

// ClearAll asks subscribers to remove every record.
func (b *Bus) ClearAll() {
	b.Clear(0)
}

// Subscribe registers s for creation and clear signals. Signals are delivered
// in registration order on the publishing goroutine.
func (b *Bus) Subscribe(s Subscriber) Subscription {
	sub := &subscription{bus: b, sub: s}
	if s == nil {
		return sub
	}
	b.subsMu.Lock()
	b.subs = append(b.subs, sub)
	b.subsMu.Unlock()
	return sub
}

type subscription struct {
	bus  *Bus
	sub  Subscriber
	once sync.Once
}

func (s *subscription) Close() error {
	s.once.Do(func() { s.bus.unsubscribe(s) })
	return nil
}

func (b *Bus) unsubscribe(target *subscription) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for i, s := range b.subs {
		if s == target {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// deliver snapshots subscribers and hands fn each of them, returning how many there were.
func (b *Bus) deliver(fn func(Subscriber)) int {
	b.subsMu.RLock()
	subs := make([]Subscriber, len(b.subs))
	for i, s := range b.subs {
		subs[i] = s.sub
	}
	b.subsMu.RUnlock()

	for _, s := range subs {
		b.safely("subscriber", 0, func() { fn(s) })
	}
	return len(subs)
}

// runHook invokes h with r, tolerating nil hooks and recovering panics.
func (b *Bus) runHook(name string, h Hook, r Record) {
	if h == nil {
		return
	}
	b.safely(name, r.ID, func() { h.fire(r) })
}

func (b *Bus) safely(name string, id uint64, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%s panic recovered: %v", name, rec)
			b.metrics.errors.Add(1)
			b.notify(Event{Type: EventError, RecordID: id, Err: err})
			b.logger.Warn().Str("record_id", strconv.FormatUint(id, 10)).Err(err).Msg("xtoast: callback panic (recovered)")
		}
	}()
	fn()
}

// GetMetrics returns current bus metrics.
func (b *Bus) GetMetrics() Metrics {
	b.subsMu.RLock()
	subs := len(b.subs)
	b.subsMu.RUnlock()

	m := Metrics{
		Added:       b.metrics.added.Load(),
		Rejected:    b.metrics.rejected.Load(),
		Dropped:     b.metrics.dropped.Load(),
		Removed:     b.metrics.removed.Load(),
		Evicted:     b.metrics.evicted.Load(),
		Expired:     b.metrics.expired.Load(),
		Errors:      b.metrics.errors.Load(),
		Subscribers: subs,
	}
	if b.observerPool != nil {
		m.EventsDropped = b.observerPool.Stats().Dropped
	}
	return m
}

// Health reports "unhealthy" once closed and "degraded" while toasts are
// being published with nobody listening.
func (b *Bus) Health(ctx context.Context) HealthStatus {
	if b.closed.Load() {
		return HealthStatus{
			Status:    "unhealthy",
			Timestamp: b.clock.Now(),
			Message:   "bus is closed",
		}
	}

	metrics := b.GetMetrics()
	status := "healthy"
	msg := ""
	if metrics.Subscribers == 0 && metrics.Dropped > 0 {
		status = "degraded"
		msg = "toasts published without subscribers"
	}

	return HealthStatus{
		Status:    status,
		Metrics:   metrics,
		Timestamp: b.clock.Now(),
		Message:   msg,
	}
}

// Close stops accepting requests, detaches subscribers and drains the observer pool.
// It is idempotent.
func (b *Bus) Close(ctx context.Context) error {
	var closeErr error

	b.closeOnce.Do(func() {
		b.closed.Store(true)

		b.subsMu.Lock()
		b.subs = nil
		b.subsMu.Unlock()

		if b.observerPool != nil {
			timeout := 5 * time.Second
			if dl, ok := ctx.Deadline(); ok {
				timeout = time.Until(dl)
			}
			if err := b.observerPool.Close(timeout); err != nil {
				b.logger.Warn().Err(err).Msg("xtoast: observer pool shutdown timeout")
				closeErr = err
			}
		}
	})

	return closeErr
}

// AddObserver registers an observer (thread-safe).
func (b *Bus) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	b.observersMu.Lock()
	b.observers = append(b.observers, obs)
	b.observersMu.Unlock()
}

// RemoveObserver removes an observer. Observers of non-comparable types
// (such as ObserverFunc) cannot be removed.
func (b *Bus) RemoveObserver(obs Observer) {
	if obs == nil {
		return
	}
	b.observersMu.Lock()
	defer b.observersMu.Unlock()

	for i, o := range b.observers {
		if sameObserver(o, obs) {
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			break
		}
	}
}

func sameObserver(a, b Observer) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// notify dispatches through the observer pool when one is configured,
// inline otherwise.
func (b *Bus) notify(e Event) {
	b.observersMu.RLock()
	if len(b.observers) == 0 {
		b.observersMu.RUnlock()
		return
	}
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.observersMu.RUnlock()

	if b.observerPool != nil && !b.closed.Load() {
		b.observerPool.Notify(e, observers)
		return
	}
	for _, o := range observers {
		func() {
			defer func() { _ = recover() }()
			o.OnEvent(e)
		}()
	}
}
