package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/mock"
	"github.com/dudk/sobel/test"
)

func TestSource(t *testing.T) {
	frames := []*sobel.Frame{test.Flat(3, 3, 1), test.Flat(4, 4, 2)}
	var tests = []struct {
		description string
		limit       int
		expected    int
		rows        int
	}{
		{
			description: "all frames",
			expected:    2,
			rows:        7,
		},
		{
			description: "cycle frames",
			limit:       5,
			expected:    5,
			rows:        3 + 4 + 3 + 4 + 3,
		},
		{
			description: "limit below frames",
			limit:       1,
			expected:    1,
			rows:        3,
		},
	}
	ctx := context.Background()
	for _, c := range tests {
		s := &mock.Source{Frames: frames, Limit: c.limit}
		var err error
		for err == nil {
			_, err = s.Next(ctx)
		}
		assert.Equal(t, io.EOF, err, c.description)
		n, rows := s.Count()
		assert.Equal(t, c.expected, n, c.description)
		assert.Equal(t, c.rows, rows, c.description)
	}
}

func TestSourceErrors(t *testing.T) {
	mockErr := errors.New("mock")
	s := &mock.Source{Frames: []*sobel.Frame{test.Flat(3, 3, 0)}, ErrorOnCall: mockErr}
	_, err := s.Next(context.Background())
	assert.Equal(t, mockErr, err)

	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()
	s = &mock.Source{Frames: []*sobel.Frame{test.Flat(3, 3, 0)}, Limit: -1}
	_, err = s.Next(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestSink(t *testing.T) {
	s := &mock.Sink{}
	p := test.Plane(2, 3, func(i, j int) uint8 { return uint8(i + j) })
	assert.NoError(t, s.Present(context.Background(), p))
	// sink must keep a copy.
	p.Pix[0] = 100
	edges := s.Edges()
	assert.Len(t, edges, 1)
	assert.Equal(t, uint8(0), edges[0].Pix[0])

	s.Discard = true
	assert.NoError(t, s.Present(context.Background(), p))
	assert.Len(t, s.Edges(), 1)
	n, rows := s.Count()
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, rows)

	assert.NoError(t, s.Flush(context.Background()))
	assert.True(t, s.Flushed)
}
