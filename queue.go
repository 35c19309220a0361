package xtoast

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Snapshot is the state handed to watchers after every change of the queue.
// Version grows with every change; concurrent changes may reach watchers out
// of order, so a watcher keeping state drops versions it has already passed.
type Snapshot struct {
	Version       uint64   `json:"version"`
	Position      Position `json:"position"`
	PositionClass string   `json:"positionClass"`
	Records       []Record `json:"records"`
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithScheduler replaces the timer source used for auto-dismissal.
func WithScheduler(s Scheduler) QueueOption {
	return func(q *Queue) {
		if s != nil {
			q.scheduler = s
		}
	}
}

// WithPosition sets the initial position (see SetPosition).
func WithPosition(p string) QueueOption {
	return func(q *Queue) { q.position = q.resolvePosition(p) }
}

// Queue owns the ordered list of visible toasts. It enforces the catalog limit
// by evicting the oldest toast, and removes toasts on clear or timeout.
type Queue struct {
	bus       *Bus
	catalog   Catalog
	scheduler Scheduler

	mu       sync.Mutex
	records  []Record
	position Position
	version  uint64

	watchMu  sync.Mutex
	watchers []watcher
	watchSeq uint64

	sub    Subscription
	closed atomic.Bool
}

type watcher struct {
	id uint64
	fn func(Snapshot)
}

var _ Subscriber = (*Queue)(nil)

// NewQueue creates a queue and subscribes it to bus right away.
func NewQueue(bus *Bus, opts ...QueueOption) (*Queue, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	q := &Queue{
		bus:       bus,
		catalog:   bus.Catalog(),
		scheduler: TimerScheduler{},
	}
	q.position = q.catalog.Position
	for _, o := range opts {
		if o != nil {
			o(q)
		}
	}
	q.sub = bus.Subscribe(q)
	return q, nil
}

// OnRecord appends r, evicting the oldest toasts first when the queue is full.
// Eviction does not run OnRemove.
func (q *Queue) OnRecord(r Record) {
	if q.closed.Load() {
		return
	}

	q.mu.Lock()
	var evicted []Record
	for len(q.records) > 0 && len(q.records) >= q.catalog.Limit {
		evicted = append(evicted, q.records[0])
		q.records = slices.Delete(q.records, 0, 1)
	}
	q.records = append(q.records, r)
	snap := q.changedLocked()
	q.mu.Unlock()

	for _, e := range evicted {
		q.bus.metrics.evicted.Add(1)
		q.bus.notify(Event{
			Type:     EventEvicted,
			RecordID: e.ID,
			Kind:     e.Kind,
			Cause:    CauseEvicted,
			Duration: q.bus.clock.Since(e.CreatedAt),
		})
	}

	if r.Expires() {
		id := r.ID
		q.scheduler.AfterFunc(r.dismissAfter(), func() { q.remove(id, CauseExpired) })
	}

	q.publish(snap)
}

// OnClear removes the signalled record, or every record when the signal has no id.
func (q *Queue) OnClear(s ClearSignal) {
	if s.All() {
		q.ClearAll()
		return
	}
	q.remove(s.ID, CauseCleared)
}

// Clear removes the record with id and runs its OnRemove hook. Unknown ids are
// ignored; a zero id is an error.
func (q *Queue) Clear(id uint64) error {
	if id == 0 {
		return ErrInvalidID
	}
	q.remove(id, CauseCleared)
	return nil
}

// ClearAll runs OnRemove for every active record, in order, and empties the queue.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	removed := q.records
	q.records = nil
	snap := q.changedLocked()
	q.mu.Unlock()

	for _, r := range removed {
		q.finish(r, CauseClearedAll)
	}
	q.publish(snap)
}

// Dismiss handles close intent reported by a view. It reports whether the record was active.
func (q *Queue) Dismiss(id uint64) bool {
	return q.remove(id, CauseClosed)
}

func (q *Queue) remove(id uint64, cause Cause) bool {
	q.mu.Lock()
	idx := slices.IndexFunc(q.records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	r := q.records[idx]
	q.records = slices.Delete(q.records, idx, idx+1)
	snap := q.changedLocked()
	q.mu.Unlock()

	q.finish(r, cause)
	q.publish(snap)
	return true
}

// finish runs the removal hook and reports the removal.
func (q *Queue) finish(r Record, cause Cause) {
	q.bus.runHook("on_remove", r.OnRemove, r)

	q.bus.metrics.removed.Add(1)
	if cause == CauseExpired {
		q.bus.metrics.expired.Add(1)
	}
	q.bus.notify(Event{
		Type:     EventRemoved,
		RecordID: r.ID,
		Kind:     r.Kind,
		Cause:    cause,
		Duration: q.bus.clock.Since(r.CreatedAt),
	})
}

// SetPosition anchors the queue at p, falling back to the catalog position
// when p is empty or unknown.
func (q *Queue) SetPosition(p string) {
	pos := q.resolvePosition(p)
	q.mu.Lock()
	q.position = pos
	snap := q.changedLocked()
	q.mu.Unlock()
	q.publish(snap)
}

func (q *Queue) resolvePosition(p string) Position {
	pos := Position(p)
	if p == "" || !pos.Valid() {
		return q.catalog.Position
	}
	return pos
}

// Bus returns the bus this queue is subscribed to.
func (q *Queue) Bus() *Bus { return q.bus }

// Position returns the effective position.
func (q *Queue) Position() Position {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.position
}

// PositionClass is the display token derived from the position.
func (q *Queue) PositionClass() string {
	return positionClassPrefix + string(q.Position())
}

// Records returns a copy of the active records, oldest first.
func (q *Queue) Records() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.records)
}

// Len returns the number of active records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// Views returns one view per active record, oldest first.
func (q *Queue) Views() []*View {
	records := q.Records()
	views := make([]*View, len(records))
	for i, r := range records {
		views[i] = &View{Record: r, queue: q}
	}
	return views
}

// Snapshot returns the current state.
func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// changedLocked records a change and returns the resulting snapshot.
func (q *Queue) changedLocked() Snapshot {
	q.version++
	return q.snapshotLocked()
}

func (q *Queue) snapshotLocked() Snapshot {
	return Snapshot{
		Version:       q.version,
		Position:      q.position,
		PositionClass: positionClassPrefix + string(q.position),
		Records:       slices.Clone(q.records),
	}
}

// Watch calls fn with a snapshot after every change, on the goroutine that
// caused it. The returned func stops the calls.
func (q *Queue) Watch(fn func(Snapshot)) (unwatch func()) {
	if fn == nil {
		return func() {}
	}
	q.watchMu.Lock()
	q.watchSeq++
	id := q.watchSeq
	q.watchers = append(q.watchers, watcher{id: id, fn: fn})
	q.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.watchMu.Lock()
			defer q.watchMu.Unlock()
			q.watchers = slices.DeleteFunc(q.watchers, func(w watcher) bool { return w.id == id })
		})
	}
}

func (q *Queue) publish(s Snapshot) {
	q.watchMu.Lock()
	ws := slices.Clone(q.watchers)
	q.watchMu.Unlock()

	for _, w := range ws {
		q.bus.safely("watcher", 0, func() { w.fn(s) })
	}
}

// Close detaches the queue from its bus. Active records stay in place and
// pending timers still remove theirs.
func (q *Queue) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	return q.sub.Close()
}
