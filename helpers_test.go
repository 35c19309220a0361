package xtoast_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xtoast"
)

// manualScheduler fires scheduled functions only when Advance moves its clock.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []scheduled
}

type scheduled struct {
	at time.Duration
	fn func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	s.pending = append(s.pending, scheduled{at: s.now + d, fn: f})
	s.mu.Unlock()
}

// Advance runs every function due within d, earliest first.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		idx := -1
		for i, p := range s.pending {
			if p.at <= target && (idx < 0 || p.at < s.pending[idx].at) {
				idx = i
			}
		}
		if idx < 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		p := s.pending[idx]
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		s.now = p.at
		s.mu.Unlock()
		p.fn()
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// recordingSubscriber captures signals in arrival order.
type recordingSubscriber struct {
	mu      sync.Mutex
	name    string
	log     *[]string
	records []xtoast.Record
	clears  []xtoast.ClearSignal
}

func (r *recordingSubscriber) OnRecord(rec xtoast.Record) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	r.mu.Unlock()
}

func (r *recordingSubscriber) OnClear(s xtoast.ClearSignal) {
	r.mu.Lock()
	r.clears = append(r.clears, s)
	r.mu.Unlock()
}

func newBus(t *testing.T, init func(b *xtoast.BusBuilder)) *xtoast.Bus {
	t.Helper()
	bus, closeFn, err := xtoast.New(init)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	return bus
}

func newQueue(t *testing.T, bus *xtoast.Bus, opts ...xtoast.QueueOption) (*xtoast.Queue, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	q, err := xtoast.NewQueue(bus, append([]xtoast.QueueOption{xtoast.WithScheduler(sched)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q, sched
}

func withCatalog(c xtoast.Catalog) func(b *xtoast.BusBuilder) {
	return func(b *xtoast.BusBuilder) { b.WithCatalog(c) }
}

func ids(records []xtoast.Record) []uint64 {
	out := make([]uint64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
