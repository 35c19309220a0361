package xtoast

import (
	"math"
	"strconv"
	"time"
)

// Options is the structured form of a toast request. Nil pointers mean
// "not specified" and fall back to the Catalog.
type Options struct {
	Title string
	Body  string
	// ShowClose: nil uses the catalog default, false hides, true shows.
	ShowClose *bool
	// Theme outside the allow-list falls back to the catalog theme.
	Theme Theme
	// Timeout: nil uses the catalog default; a non-nil zero disables
	// auto-dismiss and a negative value dismisses on the next scheduler tick.
	Timeout  *time.Duration
	OnAdd    Hook
	OnRemove Hook
}

// Input is either the short form (a bare title) or the structured form.
type Input struct {
	short      string
	opts       Options
	structured bool
}

// Text is the short form: s becomes the title.
func Text(s string) Input { return Input{short: s} }

// Number is the short form for numeric titles. Integers print in full;
// floats use the shortest decimal form that round-trips.
func Number[N ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64](n N) Input {
	// Integer division truncates 1/2 to zero; float types keep the half.
	half := N(1)
	half /= 2
	if half == 0 {
		if n < 0 {
			return Input{short: strconv.FormatInt(int64(n), 10)}
		}
		return Input{short: strconv.FormatUint(uint64(n), 10)}
	}

	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return Input{short: "Infinity"}
	case math.IsInf(f, -1):
		return Input{short: "-Infinity"}
	}
	return Input{short: strconv.FormatFloat(f, 'f', -1, 64)}
}

// With is the structured form.
func With(o Options) Input { return Input{opts: o, structured: true} }

// Bool returns a pointer to v, for Options.ShowClose.
func Bool(v bool) *bool { return &v }

// Duration returns a pointer to d, for Options.Timeout.
func Duration(d time.Duration) *time.Duration { return &d }

// options normalizes both forms into Options.
func (in Input) options() Options {
	if in.structured {
		return in.opts
	}
	return Options{Title: in.short}
}

// resolve builds a Record from o against the catalog. The id is assigned by the caller.
func (o Options) resolve(c Catalog, kind Kind) (Record, error) {
	if o.Title == "" && o.Body == "" {
		return Record{}, ErrMissingContent
	}
	if !kind.Valid() {
		kind = KindDefault
	}

	showClose := c.ShowClose
	if o.ShowClose != nil {
		showClose = *o.ShowClose
	}

	theme := c.Theme
	if o.Theme != "" && o.Theme.Valid() {
		theme = o.Theme
	}

	timeout := c.Timeout
	if o.Timeout != nil {
		timeout = *o.Timeout
	}

	return Record{
		Title:     o.Title,
		Body:      o.Body,
		Kind:      kind,
		Theme:     theme,
		ShowClose: showClose,
		Timeout:   timeout,
		OnAdd:     o.OnAdd,
		OnRemove:  o.OnRemove,
	}, nil
}
