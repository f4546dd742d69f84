// Package test contains synthetic frames useful for testing sobel packages.
package test

import (
	"github.com/dudk/sobel"
)

// Ramp returns a frame with gray pixels growing by step along rows and
// columns, starting at offset. Values wrap at 256, so big frames have
// strong edges at every wrap.
func Ramp(rows, cols, offset, step int) *sobel.Frame {
	return Gray(rows, cols, func(i, j int) uint8 {
		return uint8((offset + (i+j)*step) % 256)
	})
}

// Flat returns a frame where every pixel has value v.
func Flat(rows, cols int, v uint8) *sobel.Frame {
	return Gray(rows, cols, func(int, int) uint8 {
		return v
	})
}

// Step returns a frame which is black left of column at and white
// starting from it.
func Step(rows, cols, at int) *sobel.Frame {
	return Gray(rows, cols, func(_, j int) uint8 {
		if j < at {
			return 0
		}
		return 255
	})
}

// Noise returns a frame filled with pseudo-random colors derived from
// seed. The same seed always produces the same frame.
func Noise(rows, cols int, seed uint32) *sobel.Frame {
	f := &sobel.Frame{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint8, rows*cols*sobel.Channels),
	}
	x := seed | 1
	for i := range f.Pix {
		// xorshift32
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		f.Pix[i] = uint8(x)
	}
	return f
}

// Gray returns a frame where all three channels of pixel (i, j) are
// set to fn(i, j).
func Gray(rows, cols int, fn func(i, j int) uint8) *sobel.Frame {
	f := &sobel.Frame{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint8, rows*cols*sobel.Channels),
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := fn(i, j)
			px := f.Pix[(i*cols+j)*sobel.Channels:]
			px[0], px[1], px[2] = v, v, v
		}
	}
	return f
}

// Plane returns a single-channel plane where pixel (i, j) is fn(i, j).
func Plane(rows, cols int, fn func(i, j int) uint8) *sobel.Plane {
	p := sobel.NewPlane(rows, cols)
	for i := 0; i < rows; i++ {
		row := p.Row(i)
		for j := range row {
			row[j] = fn(i, j)
		}
	}
	return p
}

// Luma converts frame with the sequential converter and panics on error.
func Luma(f *sobel.Frame) *sobel.Plane {
	p := &sobel.Plane{}
	if err := (sobel.Luma{}).Convert(f, p); err != nil {
		panic(err)
	}
	return p
}
