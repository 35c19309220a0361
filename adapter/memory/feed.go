package memory

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"

	"github.com/trickstertwo/xtoast"
)

// ErrFeedClosed is returned by Subscribe after Close.
var ErrFeedClosed = errors.New("memory feed is closed")

// Config controls feed behavior.
type Config struct {
	// BufferSize is the per-subscriber channel size (default: 16).
	BufferSize int
	// Replay sends the latest frame to new subscribers on Subscribe.
	Replay bool
}

func ConfigFromMap(cfg map[string]any) Config {
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

	return Config{
		BufferSize: maxInt(1, getInt("buffer_size", 16)),
		Replay:     getBool("replay", true),
	}
}

// Frame is one encoded queue snapshot.
type Frame struct {
	Seq     uint64
	Payload []byte
	At      time.Time
}

// Feed turns queue changes into encoded frames on bounded channels, for
// renderers running on their own goroutines (websocket or SSE pushers).
// A subscriber whose buffer is full misses frames; every frame is a full
// snapshot, so the next one it receives brings it up to date.
type Feed struct {
	cfg    Config
	codec  xtoast.Codec
	clock  xclock.Clock
	logger *xlog.Logger

	mu          sync.RWMutex
	subs        map[uint64]chan Frame
	last        *Frame
	lastVersion uint64 // queue version encoded in last
	seq         atomic.Uint64
	subSeq      atomic.Uint64

	unwatch func()
	stop    chan struct{}
	closed  atomic.Bool

	metrics *feedMetrics
}

type feedMetrics struct {
	published    atomic.Uint64
	delivered    atomic.Uint64
	dropped      atomic.Uint64
	stale        atomic.Uint64
	encodeErrors atomic.Uint64
}

// Stats returns feed telemetry.
type Stats struct {
	Published    uint64
	Delivered    uint64
	Dropped      uint64
	Stale        uint64
	EncodeErrors uint64
	Subscribers  int
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger injects a custom xlog logger (default: the bus logger).
func WithLogger(l *xlog.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithClock injects a custom xclock clock.
func WithClock(c xclock.Clock) Option {
	return func(f *Feed) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithCodec overrides the bus codec.
func WithCodec(c xtoast.Codec) Option {
	return func(f *Feed) {
		if c != nil {
			f.codec = c
		}
	}
}

// New starts feeding snapshots of q. The current state is encoded right away.
func New(q *xtoast.Queue, cfg Config, opts ...Option) *Feed {
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 16
	}

	bus := q.Bus()
	f := &Feed{
		cfg:     cfg,
		codec:   bus.Codec(),
		clock:   xclock.Default(),
		logger:  bus.Logger(),
		subs:    make(map[uint64]chan Frame),
		stop:    make(chan struct{}),
		metrics: &feedMetrics{},
	}
	for _, o := range opts {
		if o != nil {
			o(f)
		}
	}

	// Watch first so no change slips in between; the version check discards
	// the initial snapshot if a newer one already arrived.
	f.unwatch = q.Watch(f.onSnapshot)
	f.onSnapshot(q.Snapshot())
	return f
}

// Subscribe returns a channel of frames. It is closed when ctx is done, the
// returned func is called, or the feed is closed.
func (f *Feed) Subscribe(ctx context.Context) (<-chan Frame, func(), error) {
	if f.closed.Load() {
		return nil, nil, ErrFeedClosed
	}

	ch := make(chan Frame, f.cfg.BufferSize)
	id := f.subSeq.Add(1)

	f.mu.Lock()
	if f.closed.Load() {
		f.mu.Unlock()
		return nil, nil, ErrFeedClosed
	}
	f.subs[id] = ch
	if f.cfg.Replay && f.last != nil {
		ch <- *f.last
		f.metrics.delivered.Add(1)
	}
	f.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			f.mu.Lock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(c)
			}
			f.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-done:
		case <-f.stop:
		}
	}()

	return ch, unsubscribe, nil
}

func (f *Feed) onSnapshot(s xtoast.Snapshot) {
	if f.closed.Load() {
		return
	}

	payload, err := f.codec.Marshal(s)
	if err != nil {
		f.metrics.encodeErrors.Add(1)
		f.logger.Warn().Str("codec", f.codec.Name()).Err(err).Msg("xtoast/memory: encode snapshot failed")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Queue changes racing on different goroutines can publish out of order.
	if f.last != nil && s.Version <= f.lastVersion {
		f.metrics.stale.Add(1)
		f.logger.Debug().
			Str("version", strconv.FormatUint(s.Version, 10)).
			Str("last_version", strconv.FormatUint(f.lastVersion, 10)).
			Msg("xtoast/memory: stale snapshot skipped")
		return
	}

	frame := Frame{Seq: f.seq.Add(1), Payload: payload, At: f.clock.Now()}
	f.last = &frame
	f.lastVersion = s.Version
	for id, ch := range f.subs {
		select {
		case ch <- frame:
			f.metrics.delivered.Add(1)
		default:
			f.metrics.dropped.Add(1)
			f.logger.Debug().
				Str("subscriber", strconv.FormatUint(id, 10)).
				Str("seq", strconv.FormatUint(frame.Seq, 10)).
				Msg("xtoast/memory: subscriber full, frame dropped")
		}
	}
	f.metrics.published.Add(1)
}

// Close stops watching the queue and closes every subscriber channel.
func (f *Feed) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	if f.unwatch != nil {
		f.unwatch()
	}
	close(f.stop)

	f.mu.Lock()
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
	f.mu.Unlock()
	return nil
}

// Stats returns current feed metrics.
func (f *Feed) Stats() Stats {
	f.mu.RLock()
	n := len(f.subs)
	f.mu.RUnlock()
	return Stats{
		Published:    f.metrics.published.Load(),
		Delivered:    f.metrics.delivered.Load(),
		Dropped:      f.metrics.dropped.Load(),
		Stale:        f.metrics.stale.Load(),
		EncodeErrors: f.metrics.encodeErrors.Load(),
		Subscribers:  n,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
