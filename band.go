package sobel

import "fmt"

// RowBand is a half-open range [Start, End) of input rows processed by a
// single worker.
type RowBand struct {
	Start int
	End   int
}

// Len returns number of rows in the band.
func (b RowBand) Len() int {
	if b.End < b.Start {
		return 0
	}
	return b.End - b.Start
}

func (b RowBand) String() string {
	return fmt.Sprintf("[%d, %d)", b.Start, b.End)
}

// Split partitions interior rows [1, rows-1) of a frame into n contiguous
// bands. Every band gets (rows-2)/n rows, the last one also takes the
// remainder. Bands depend only on rows and n. Split returns nil if n is
// not positive.
func Split(rows, n int) []RowBand {
	if n < 1 {
		return nil
	}
	interior := rows - 2
	if interior < 0 {
		interior = 0
	}
	per := interior / n
	bands := make([]RowBand, n)
	start := 1
	for i := range bands {
		end := start + per
		if i == n-1 {
			end = 1 + interior
		}
		bands[i] = RowBand{Start: start, End: end}
		start = end
	}
	return bands
}

// Process computes edges for every row of the band. Row i of in is written
// into row i-1 of out, column j into column j-1. Only rows
// [band.Start-1, band.End-1) of out are modified, so bands of the same
// frame can be processed concurrently into the same plane.
func Process(band RowBand, in, out *Plane) {
	for i := band.Start; i < band.End; i++ {
		up, mid, down := in.Row(i-1), in.Row(i), in.Row(i+1)
		dst := out.Row(i - 1)
		for j := 1; j < in.Cols-1; j++ {
			dst[j-1] = magnitude(up, mid, down, j)
		}
	}
}

// copyBand copies edge map rows of the band from src to dst.
func copyBand(band RowBand, src, dst *Plane) {
	for i := band.Start; i < band.End; i++ {
		copy(dst.Row(i-1), src.Row(i-1))
	}
}
