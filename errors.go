package xtoast

import "errors"

var (
	// ErrMissingContent is returned when a toast has neither title nor body.
	ErrMissingContent = errors.New("xtoast: no title or message specified")
	// ErrInvalidID is returned by Queue.Clear when called without an id.
	ErrInvalidID = errors.New("xtoast: provide the id of the toast to close")

	ErrBusClosed                   = errors.New("xtoast: bus is closed")
	ErrRateLimited                 = errors.New("xtoast: rate limited")
	ErrNoBusInContext              = errors.New("xtoast: no bus in context")
	ErrObserverPoolShutdownTimeout = errors.New("xtoast: observer pool shutdown timeout")
	ErrNilBus                      = errors.New("xtoast: nil bus")
	ErrInvalidCatalog              = errors.New("xtoast: invalid catalog")
)
