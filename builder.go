package xtoast

import (
	"context"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// BusBuilder constructs Bus instances (Builder pattern).
type BusBuilder struct {
	catalog Catalog

	codecName string
	codecInst Codec

	middlewares []Middleware
	observers   []Observer
	logger      *xlog.Logger
	clock       xclock.Clock

	poolWorkers int
	poolBuffer  int
}

// NewBusBuilder returns a new builder with the stock catalog and JSON codec.
func NewBusBuilder() *BusBuilder {
	return &BusBuilder{
		catalog:   Defaults(),
		codecName: "json",
	}
}

// WithCatalog replaces the defaults toasts resolve against. Build validates it.
func (bb *BusBuilder) WithCatalog(c Catalog) *BusBuilder {
	bb.catalog = c
	return bb
}

// WithCatalogMap reads the catalog from a generic config map (see CatalogFromMap).
func (bb *BusBuilder) WithCatalogMap(cfg map[string]any) *BusBuilder {
	bb.catalog = CatalogFromMap(cfg)
	return bb
}

func (bb *BusBuilder) WithCodec(name string) *BusBuilder {
	bb.codecName = name
	return bb
}

// WithCodecInstance accepts a ready Codec instance.
func (bb *BusBuilder) WithCodecInstance(c Codec) *BusBuilder {
	bb.codecInst = c
	return bb
}

func (bb *BusBuilder) WithMiddleware(mw ...Middleware) *BusBuilder {
	if len(mw) == 0 {
		return bb
	}
	bb.middlewares = append(bb.middlewares, mw...)
	return bb
}

func (bb *BusBuilder) WithObserver(obs ...Observer) *BusBuilder {
	for _, o := range obs {
		if o != nil {
			bb.observers = append(bb.observers, o)
		}
	}
	return bb
}

// WithObserverPool dispatches lifecycle events asynchronously.
func (bb *BusBuilder) WithObserverPool(workers, bufferSize int) *BusBuilder {
	bb.poolWorkers = workers
	bb.poolBuffer = bufferSize
	return bb
}

func (bb *BusBuilder) WithLogger(l *xlog.Logger) *BusBuilder {
	bb.logger = l
	return bb
}

func (bb *BusBuilder) WithClock(c xclock.Clock) *BusBuilder {
	bb.clock = c
	return bb
}

func (bb *BusBuilder) Build() (*Bus, error) {
	if err := bb.catalog.Validate(); err != nil {
		return nil, err
	}

	var cd Codec
	if bb.codecInst != nil {
		cd = bb.codecInst
	} else {
		var err error
		cd, err = NewCodec(bb.codecName)
		if err != nil {
			return nil, err
		}
	}

	clk := bb.clock
	if clk == nil {
		clk = xclock.Default()
	}
	lg := bb.logger
	if lg == nil {
		lg = xlog.Default()
	}

	b := &Bus{
		catalog: bb.catalog,
		codec:   cd,
		clock:   clk,
		logger:  lg,
		metrics: &busMetrics{},
	}
	b.add = Chain(b.create, bb.middlewares...)

	if bb.poolWorkers > 0 || bb.poolBuffer > 0 {
		b.observerPool = NewObserverPool(context.Background(), bb.poolWorkers, bb.poolBuffer)
	}

	// Attach logging observer first unless one was supplied.
	hasLoggingObserver := false
	for _, o := range bb.observers {
		if _, ok := o.(LoggingObserver); ok {
			hasLoggingObserver = true
			break
		}
	}
	if !hasLoggingObserver {
		b.AddObserver(LoggingObserver{Logger: lg})
	}

	for _, o := range bb.observers {
		b.AddObserver(o)
	}

	return b, nil
}

// New constructs a Bus via Builder and returns a close func for convenience.
func New(init func(b *BusBuilder)) (*Bus, func() error, error) {
	b := NewBusBuilder()
	if init != nil {
		init(b)
	}
	bus, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error { return bus.Close(context.Background()) }
	return bus, closeFn, nil
}
