package sobel

import (
	"context"

	"github.com/pkg/errors"
)

// Channels is the number of interleaved samples per pixel of a Frame.
const Channels = 3

var (
	// ErrMalformedFrame is returned if source produced a frame that
	// cannot be processed.
	ErrMalformedFrame = errors.New("malformed frame")
)

type (
	// Frame is a decoded color frame. Pixels are stored row-major as
	// interleaved BGR triplets, the same layout OpenCV uses.
	Frame struct {
		Rows int
		Cols int
		Pix  []uint8
	}

	// Plane is a single-channel 8-bit image stored row-major. It holds
	// both intensity buffers and edge maps.
	Plane struct {
		Rows int
		Cols int
		Pix  []uint8
	}

	// Source is a pull source of frames. Next returns io.EOF when the
	// stream is over.
	Source interface {
		Next(ctx context.Context) (*Frame, error)
	}

	// Sink presents computed edge maps. Plane is only valid during the
	// call, implementations must copy it if they need to keep it.
	Sink interface {
		Present(ctx context.Context, edges *Plane) error
	}

	// Flusher is implemented by sources and sinks that need a clean up
	// after the run is over.
	Flusher interface {
		Flush(ctx context.Context) error
	}

	// SourceFunc adapts a function to the Source interface.
	SourceFunc func(ctx context.Context) (*Frame, error)

	// SinkFunc adapts a function to the Sink interface.
	SinkFunc func(ctx context.Context, edges *Plane) error
)

// Next calls fn.
func (fn SourceFunc) Next(ctx context.Context) (*Frame, error) {
	return fn(ctx)
}

// Present calls fn.
func (fn SinkFunc) Present(ctx context.Context, edges *Plane) error {
	return fn(ctx, edges)
}

func (f *Frame) validate() error {
	if f == nil {
		return errors.Wrap(ErrMalformedFrame, "nil frame")
	}
	if f.Rows <= 0 || f.Cols <= 0 {
		return errors.Wrapf(ErrMalformedFrame, "dimensions %dx%d", f.Rows, f.Cols)
	}
	if len(f.Pix) != f.Rows*f.Cols*Channels {
		return errors.Wrapf(ErrMalformedFrame, "%d bytes for %dx%dx%d", len(f.Pix), f.Rows, f.Cols, Channels)
	}
	return nil
}

// NewPlane allocates a zeroed plane.
func NewPlane(rows, cols int) *Plane {
	return &Plane{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint8, rows*cols),
	}
}

// Row returns the i-th row of the plane. The slice shares memory with the
// plane.
func (p *Plane) Row(i int) []uint8 {
	return p.Pix[i*p.Cols : (i+1)*p.Cols]
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	c := &Plane{
		Rows: p.Rows,
		Cols: p.Cols,
		Pix:  make([]uint8, len(p.Pix)),
	}
	copy(c.Pix, p.Pix)
	return c
}

// resize changes plane dimensions. Memory is reused when possible, so the
// content is undefined after the call.
func (p *Plane) resize(rows, cols int) {
	n := rows * cols
	if cap(p.Pix) < n {
		p.Pix = make([]uint8, n)
	}
	p.Pix = p.Pix[:n]
	p.Rows, p.Cols = rows, cols
}
