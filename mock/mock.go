// Package mock provides mocks for pool collaborators and allows to execute
// integration tests.
package mock

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dudk/sobel"
)

// Source mocks a sobel.Source interface. It returns Frames in order,
// starting over when the list is exhausted, until Limit frames are
// returned. Zero Limit means len(Frames), negative Limit means infinite
// stream. Source is called only by frame owner, so it is not guarded.
type Source struct {
	counter
	Frames      []*sobel.Frame
	Limit       int
	Interval    time.Duration
	ErrorOnCall error
	Hooks
}

// Next returns the next frame or io.EOF if limit is reached.
func (m *Source) Next(ctx context.Context) (*sobel.Frame, error) {
	if m.ErrorOnCall != nil {
		return nil, m.ErrorOnCall
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := m.Limit
	if limit == 0 {
		limit = len(m.Frames)
	}
	if len(m.Frames) == 0 || limit > 0 && m.frames >= limit {
		return nil, io.EOF
	}
	if m.Interval > 0 {
		time.Sleep(m.Interval)
	}
	f := m.Frames[m.frames%len(m.Frames)]
	if f == nil {
		m.advance(0)
	} else {
		m.advance(f.Rows)
	}
	return f, nil
}

// Flush implements sobel.Flusher.
func (m *Source) Flush(context.Context) error {
	m.Flushed = true
	return m.ErrorOnFlush
}

// Sink mocks up a sobel.Sink interface. It keeps a copy of every
// presented edge map, unless Discard is set.
type Sink struct {
	m sync.Mutex
	counter
	edges       []*sobel.Plane
	Discard     bool
	ErrorOnCall error
	Hooks
}

// Present implements sobel.Sink.
func (m *Sink) Present(ctx context.Context, edges *sobel.Plane) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.ErrorOnCall != nil {
		return m.ErrorOnCall
	}
	if !m.Discard {
		m.edges = append(m.edges, edges.Clone())
	}
	m.advance(edges.Rows)
	return nil
}

// Flush implements sobel.Flusher.
func (m *Sink) Flush(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.Flushed = true
	return m.ErrorOnFlush
}

// Edges returns copies of presented edge maps.
func (m *Sink) Edges() []*sobel.Plane {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]*sobel.Plane(nil), m.edges...)
}

// Count returns frames and rows metrics.
func (m *Sink) Count() (int, int) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.counter.Count()
}

// Hooks allows to mock flush hooks.
type Hooks struct {
	Flushed      bool
	ErrorOnFlush error
}

// counter counts frames and rows.
type counter struct {
	frames int
	rows   int
}

// Advance counter's metrics.
func (c *counter) advance(rows int) {
	c.frames++
	c.rows = c.rows + rows
}

// Count returns frames and rows metrics.
func (c *counter) Count() (int, int) {
	return c.frames, c.rows
}
