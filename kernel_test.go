package sobel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/test"
)

func TestMagnitude(t *testing.T) {
	var tests = []struct {
		description string
		in          *sobel.Plane
		expected    [][]uint8
	}{
		{
			description: "flat field",
			in:          test.Plane(5, 5, func(int, int) uint8 { return 0 }),
			expected: [][]uint8{
				{0, 0, 0},
				{0, 0, 0},
				{0, 0, 0},
			},
		},
		{
			description: "flat white field",
			in:          test.Plane(4, 4, func(int, int) uint8 { return 255 }),
			expected: [][]uint8{
				{0, 0},
				{0, 0},
			},
		},
		{
			description: "vertical step is clamped",
			in: test.Plane(5, 5, func(_, j int) uint8 {
				if j < 3 {
					return 0
				}
				return 255
			}),
			expected: [][]uint8{
				{0, 255, 255},
				{0, 255, 255},
				{0, 255, 255},
			},
		},
		{
			description: "weak vertical step",
			in: test.Plane(4, 4, func(_, j int) uint8 {
				if j < 2 {
					return 0
				}
				return 10
			}),
			expected: [][]uint8{
				{40, 40},
				{40, 40},
			},
		},
		{
			description: "weak horizontal step",
			in: test.Plane(4, 4, func(i, _ int) uint8 {
				if i < 2 {
					return 0
				}
				return 20
			}),
			expected: [][]uint8{
				{80, 80},
				{80, 80},
			},
		},
		{
			description: "single bright pixel",
			in: test.Plane(3, 3, func(i, j int) uint8 {
				if i == 0 && j == 0 {
					return 50
				}
				return 0
			}),
			// Gv = -50, Gh = -50
			expected: [][]uint8{{100}},
		},
	}

	for _, c := range tests {
		for i := 1; i < c.in.Rows-1; i++ {
			for j := 1; j < c.in.Cols-1; j++ {
				assert.Equal(t, c.expected[i-1][j-1], sobel.Magnitude(c.in, i, j), "%s: pixel (%d, %d)", c.description, i, j)
			}
		}
		edges := sobel.Reference(c.in)
		assert.Equal(t, c.in.Rows-2, edges.Rows, c.description)
		assert.Equal(t, c.in.Cols-2, edges.Cols, c.description)
		for i, row := range c.expected {
			assert.Equal(t, row, edges.Row(i), c.description)
		}
	}
}

func TestMagnitudeClamp(t *testing.T) {
	// checkerboard produces gradients far above the clamp value.
	in := test.Plane(6, 6, func(i, j int) uint8 {
		if (i+j)%2 == 0 {
			return 255
		}
		return 0
	})
	for i := 1; i < in.Rows-1; i++ {
		for j := 1; j < in.Cols-1; j++ {
			assert.Equal(t, expectedMagnitude(in, i, j), sobel.Magnitude(in, i, j))
		}
	}

	noise := test.Luma(test.Noise(16, 16, 42))
	for i := 1; i < noise.Rows-1; i++ {
		for j := 1; j < noise.Cols-1; j++ {
			assert.Equal(t, expectedMagnitude(noise, i, j), sobel.Magnitude(noise, i, j))
		}
	}
}

// expectedMagnitude computes magnitude straight from kernel formulas.
func expectedMagnitude(in *sobel.Plane, i, j int) uint8 {
	p := func(di, dj int) int {
		return int(in.Row(i + di)[j+dj])
	}
	gv := -p(-1, -1) + p(-1, 1) - 2*p(0, -1) + 2*p(0, 1) - p(1, -1) + p(1, 1)
	gh := -p(-1, -1) - 2*p(-1, 0) - p(-1, 1) + p(1, -1) + 2*p(1, 0) + p(1, 1)
	if gv < 0 {
		gv = -gv
	}
	if gh < 0 {
		gh = -gh
	}
	if gv+gh > 255 {
		return 255
	}
	return uint8(gv + gh)
}
