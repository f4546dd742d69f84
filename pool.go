package sobel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/dudk/sobel/metric"
)

const (
	// MaxWorkers is the maximum number of workers in a pool.
	MaxWorkers = 16
	// DefaultWorkers is the number of workers if WithWorkers option is
	// not provided.
	DefaultWorkers = 2
)

// Logger is a global interface for pool loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
}

// Pool is a fixed set of workers which compute edge maps of frames pulled
// from the source and present them to the sink. Pool can be run only once.
type Pool struct {
	uid          string
	name         string
	workers      int
	source       Source
	sink         Sink
	converter    Converter
	metric       *metric.Metric
	stallTimeout time.Duration
	log          Logger

	m     sync.Mutex
	state State
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// New creates a new pool and applies provided options. Returned pool is
// in Created state.
func New(source Source, sink Sink, options ...Option) (*Pool, error) {
	if source == nil || sink == nil {
		return nil, errors.New("source and sink are mandatory")
	}
	p := &Pool{
		uid:       newUID(),
		workers:   DefaultWorkers,
		source:    source,
		sink:      sink,
		converter: Luma{},
		log:       defaultLogger,
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Run starts all workers and blocks until they stopped. It returns nil if
// the source reached io.EOF. Otherwise ErrorRun is returned with the first
// fatal error of execution and/or flush error of source and sink.
func (p *Pool) Run(ctx context.Context) error {
	p.m.Lock()
	if p.state != Created {
		p.m.Unlock()
		return ErrInvalidState
	}
	p.state = Running
	p.m.Unlock()
	defer p.setState(Stopped)

	p.log.Info(fmt.Sprintf("%v: starting %d workers", p, p.workers))
	d := newDispatcher(ctx, p)
	// cancellation takes the same path as the end of stream.
	stop := context.AfterFunc(ctx, func() {
		d.stop(ctx.Err())
	})
	defer stop()

	var g errgroup.Group
	for slot := 0; slot < p.workers; slot++ {
		w := &worker{
			dispatcher: d,
			slot:       slot,
			meter:      p.metric.Meter(fmt.Sprintf("%s.%d", p.uid, slot)),
		}
		g.Go(w.run)
	}
	errExec := g.Wait()
	if errExec == nil {
		errExec = d.cause()
	}
	errFlush := p.flush(context.WithoutCancel(ctx))
	p.log.Info(fmt.Sprintf("%v: stopped after %d frames", p, d.frames()))
	return runError(errExec, errFlush)
}

// flush calls flush hooks of source and sink.
func (p *Pool) flush(ctx context.Context) error {
	var errs flushErrors
	for _, c := range []struct {
		name string
		v    interface{}
	}{
		{name: "source", v: p.source},
		{name: "sink", v: p.sink},
	} {
		if f, ok := c.v.(Flusher); ok {
			if err := f.Flush(ctx); err != nil {
				errs = append(errs, errors.Wrap(err, c.name))
			}
		}
	}
	return errs.ret()
}

// State returns current state of the pool.
func (p *Pool) State() State {
	p.m.Lock()
	defer p.m.Unlock()
	return p.state
}

func (p *Pool) setState(s State) {
	p.m.Lock()
	p.state = s
	p.m.Unlock()
}

// ID returns unique identifier of the pool.
func (p *Pool) ID() string {
	return p.uid
}

// Workers returns number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Convert pool to string. Name is included if has value.
func (p *Pool) String() string {
	if p.name == "" {
		return p.uid
	}
	return fmt.Sprintf("%v %v", p.name, p.uid)
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

func (silentLogger) Warn(args ...interface{}) {}

var defaultLogger silentLogger
