package sobel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CCIR 601 luma coefficients.
const (
	redWeight   = 0.299
	greenWeight = 0.587
	blueWeight  = 0.114
)

type (
	// Converter converts color frame into intensity plane of the same
	// dimensions. Output plane is resized by the converter.
	Converter interface {
		Convert(frame *Frame, out *Plane) error
	}

	// Luma converts frames sequentially.
	Luma struct{}

	// ParallelLuma converts frames splitting rows into Workers chunks, each
	// converted in its own goroutine. If Workers is not positive,
	// GOMAXPROCS is used. Result is identical to Luma.
	ParallelLuma struct {
		Workers int
	}
)

// Convert implements Converter.
func (Luma) Convert(frame *Frame, out *Plane) error {
	if err := frame.validate(); err != nil {
		return err
	}
	out.resize(frame.Rows, frame.Cols)
	lumaRows(frame, out, 0, frame.Rows)
	return nil
}

// Convert implements Converter.
func (c ParallelLuma) Convert(frame *Frame, out *Plane) error {
	if err := frame.validate(); err != nil {
		return err
	}
	out.resize(frame.Rows, frame.Cols)

	n := c.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > frame.Rows {
		n = frame.Rows
	}
	per := frame.Rows / n
	var g errgroup.Group
	for k := 0; k < n; k++ {
		start, end := k*per, (k+1)*per
		if k == n-1 {
			end = frame.Rows
		}
		g.Go(func() error {
			lumaRows(frame, out, start, end)
			return nil
		})
	}
	return g.Wait()
}

// lumaRows converts rows [start, end) of frame.
func lumaRows(frame *Frame, out *Plane, start, end int) {
	for i := start; i < end; i++ {
		src := frame.Pix[i*frame.Cols*Channels : (i+1)*frame.Cols*Channels]
		dst := out.Row(i)
		for j := range dst {
			px := src[j*Channels : j*Channels+Channels]
			dst[j] = uint8(blueWeight*float64(px[0]) + greenWeight*float64(px[1]) + redWeight*float64(px[2]))
		}
	}
}
