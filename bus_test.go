package xtoast_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xtoast"
)

func TestBus_IDsIncreaseAcrossKinds(t *testing.T) {
	bus := newBus(t, nil)

	adders := []func(xtoast.Input) (xtoast.Record, error){
		bus.Default, bus.Info, bus.Success, bus.Wait, bus.Error, bus.Warning,
	}
	wantKinds := []xtoast.Kind{
		xtoast.KindDefault, xtoast.KindInfo, xtoast.KindSuccess,
		xtoast.KindWait, xtoast.KindError, xtoast.KindWarning,
	}

	for i, add := range adders {
		r, err := add(xtoast.Text("hello"))
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), r.ID)
		assert.Equal(t, wantKinds[i], r.Kind)
		assert.Equal(t, "message-display-type-"+string(wantKinds[i]), r.TypeClass())
	}
}

func TestBus_InvalidKindFallsBackToDefault(t *testing.T) {
	bus := newBus(t, nil)

	r, err := bus.Add(xtoast.Text("x"), xtoast.Kind("fatal"))
	require.NoError(t, err)
	assert.Equal(t, xtoast.KindDefault, r.Kind)
}

func TestBus_MissingContent(t *testing.T) {
	bus := newBus(t, nil)
	q, _ := newQueue(t, bus)

	for name, in := range map[string]xtoast.Input{
		"empty text":    xtoast.Text(""),
		"empty options": xtoast.With(xtoast.Options{}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := bus.Info(in)
			assert.ErrorIs(t, err, xtoast.ErrMissingContent)
			assert.Zero(t, q.Len())
		})
	}

	// Rejected requests leave the id sequence untouched.
	r, err := bus.Info(xtoast.Text("first"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.ID)
	assert.Equal(t, uint64(2), bus.GetMetrics().Rejected)
}

func TestBus_ShortForms(t *testing.T) {
	bus := newBus(t, nil)

	tests := []struct {
		name string
		in   xtoast.Input
		want string
	}{
		{"text", xtoast.Text("Saved"), "Saved"},
		{"int", xtoast.Number(42), "42"},
		{"negative", xtoast.Number(-7), "-7"},
		{"float", xtoast.Number(1.5), "1.5"},
		{"whole float", xtoast.Number(3.0), "3"},
		{"zero", xtoast.Number(0), "0"},
		{"uint64", xtoast.Number(uint64(18)), "18"},
		{"max uint64", xtoast.Number(uint64(math.MaxUint64)), "18446744073709551615"},
		{"min int64", xtoast.Number(int64(math.MinInt64)), "-9223372036854775808"},
		{"large float", xtoast.Number(1e20), "100000000000000000000"},
		{"large negative float", xtoast.Number(-1e20), "-100000000000000000000"},
		{"negative fraction", xtoast.Number(-0.25), "-0.25"},
		{"infinity", xtoast.Number(math.Inf(1)), "Infinity"},
		{"negative infinity", xtoast.Number(math.Inf(-1)), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := bus.Info(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Title)
			assert.Empty(t, r.Body)
		})
	}
}

func TestBus_ResolvesAgainstCatalog(t *testing.T) {
	t.Run("show close", func(t *testing.T) {
		for _, catalogDefault := range []bool{true, false} {
			c := xtoast.Defaults()
			c.ShowClose = catalogDefault
			bus := newBus(t, withCatalog(c))

			r, err := bus.Info(xtoast.With(xtoast.Options{Title: "x"}))
			require.NoError(t, err)
			assert.Equal(t, catalogDefault, r.ShowClose, "unset uses catalog")

			r, err = bus.Info(xtoast.With(xtoast.Options{Title: "x", ShowClose: xtoast.Bool(false)}))
			require.NoError(t, err)
			assert.False(t, r.ShowClose)

			r, err = bus.Info(xtoast.With(xtoast.Options{Title: "x", ShowClose: xtoast.Bool(true)}))
			require.NoError(t, err)
			assert.True(t, r.ShowClose)
		}
	})

	t.Run("theme", func(t *testing.T) {
		bus := newBus(t, nil)

		r, err := bus.Info(xtoast.With(xtoast.Options{Title: "x", Theme: "neon"}))
		require.NoError(t, err)
		assert.Equal(t, xtoast.ThemeDefault, r.Theme)

		r, err = bus.Info(xtoast.With(xtoast.Options{Title: "x", Theme: xtoast.ThemeMaterial}))
		require.NoError(t, err)
		assert.Equal(t, xtoast.ThemeMaterial, r.Theme)
		assert.Equal(t, "message-display-theme-material", r.ThemeClass())
	})

	t.Run("timeout", func(t *testing.T) {
		bus := newBus(t, nil)

		r, err := bus.Info(xtoast.With(xtoast.Options{Title: "x"}))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, r.Timeout)
		assert.True(t, r.Expires())

		r, err = bus.Info(xtoast.With(xtoast.Options{Title: "x", Timeout: xtoast.Duration(0)}))
		require.NoError(t, err)
		assert.Zero(t, r.Timeout)
		assert.False(t, r.Expires())

		r, err = bus.Info(xtoast.With(xtoast.Options{Title: "x", Timeout: xtoast.Duration(-time.Second)}))
		require.NoError(t, err)
		assert.Equal(t, -time.Second, r.Timeout)
		assert.True(t, r.Expires())
	})

	t.Run("body only", func(t *testing.T) {
		bus := newBus(t, nil)

		r, err := bus.Info(xtoast.With(xtoast.Options{Body: "details"}))
		require.NoError(t, err)
		assert.Empty(t, r.Title)
		assert.Equal(t, "details", r.Body)
	})
}

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := newBus(t, nil)

	var order []string
	a := &recordingSubscriber{name: "a", log: &order}
	b := &recordingSubscriber{name: "b", log: &order}
	bus.Subscribe(a)
	subB := bus.Subscribe(b)

	_, err := bus.Info(xtoast.Text("one"))
	require.NoError(t, err)
	require.NoError(t, subB.Close())
	_, err = bus.Info(xtoast.Text("two"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "a"}, order)
	assert.Len(t, a.records, 2)
	assert.Len(t, b.records, 1)
}

func TestBus_WithoutSubscribersDrops(t *testing.T) {
	bus := newBus(t, nil)

	var added []uint64
	r, err := bus.Info(xtoast.With(xtoast.Options{
		Title: "nobody listens",
		OnAdd: func(r xtoast.Record) { added = append(added, r.ID) },
	}))
	require.NoError(t, err)

	assert.Equal(t, []uint64{r.ID}, added)
	m := bus.GetMetrics()
	assert.Equal(t, uint64(1), m.Added)
	assert.Equal(t, uint64(1), m.Dropped)
	assert.Equal(t, "degraded", bus.Health(context.Background()).Status)
}

func TestBus_OnAddRunsAfterPublication(t *testing.T) {
	bus := newBus(t, nil)
	q, _ := newQueue(t, bus)

	var seen []uint64
	_, err := bus.Info(xtoast.With(xtoast.Options{
		Title: "x",
		OnAdd: func(xtoast.Record) { seen = ids(q.Records()) },
	}))
	require.NoError(t, err)

	assert.Equal(t, []uint64{1}, seen)
}

func TestBus_HookPanicIsRecovered(t *testing.T) {
	var events []xtoast.Event
	bus := newBus(t, func(b *xtoast.BusBuilder) {
		b.WithObserver(xtoast.ObserverFunc(func(e xtoast.Event) { events = append(events, e) }))
	})
	q, _ := newQueue(t, bus)

	r, err := bus.Info(xtoast.With(xtoast.Options{
		Title: "x",
		OnAdd: func(xtoast.Record) { panic("boom") },
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, uint64(1), bus.GetMetrics().Errors)

	var errEvents []xtoast.Event
	for _, e := range events {
		if e.Type == xtoast.EventError {
			errEvents = append(errEvents, e)
		}
	}
	require.Len(t, errEvents, 1)
	assert.Equal(t, r.ID, errEvents[0].RecordID)
	assert.ErrorContains(t, errEvents[0].Err, "boom")
}

func TestBus_Clear(t *testing.T) {
	bus := newBus(t, nil)
	q, _ := newQueue(t, bus)

	for i := 0; i < 3; i++ {
		_, err := bus.Info(xtoast.Number(i + 1))
		require.NoError(t, err)
	}

	bus.Clear(2)
	assert.Equal(t, []uint64{1, 3}, ids(q.Records()))

	bus.Clear(99)
	assert.Equal(t, []uint64{1, 3}, ids(q.Records()))

	bus.Clear(0)
	assert.Zero(t, q.Len())
}

func TestBus_Close(t *testing.T) {
	bus, closeFn, err := xtoast.New(nil)
	require.NoError(t, err)

	require.NoError(t, closeFn())
	require.NoError(t, closeFn())

	_, err = bus.Info(xtoast.Text("late"))
	assert.ErrorIs(t, err, xtoast.ErrBusClosed)
	assert.Equal(t, "unhealthy", bus.Health(context.Background()).Status)
}

func TestBus_HealthyWithSubscriber(t *testing.T) {
	bus := newBus(t, nil)
	_, _ = newQueue(t, bus)

	_, err := bus.Info(xtoast.Text("x"))
	require.NoError(t, err)

	h := bus.Health(context.Background())
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, 1, h.Metrics.Subscribers)
}

func TestBus_RemoveObserver(t *testing.T) {
	obs := &countingObserver{}
	bus := newBus(t, func(b *xtoast.BusBuilder) { b.WithObserver(obs) })

	_, err := bus.Info(xtoast.Text("x"))
	require.NoError(t, err)
	bus.RemoveObserver(obs)
	_, err = bus.Info(xtoast.Text("y"))
	require.NoError(t, err)

	assert.Equal(t, 1, obs.n)
}

type countingObserver struct{ n int }

func (o *countingObserver) OnEvent(xtoast.Event) { o.n++ }
