package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/mock"
	"github.com/dudk/sobel/test"
)

func TestParseSize(t *testing.T) {
	var tests = []struct {
		output   string
		expected Size
		fails    bool
	}{
		{output: "640x480\n", expected: Size{Rows: 480, Cols: 640}},
		{output: "320x240x", expected: Size{Rows: 240, Cols: 320}},
		{output: "", fails: true},
		{output: "640", fails: true},
		{output: "ax480", fails: true},
		{output: "640xb", fails: true},
		{output: "0x480", fails: true},
	}
	for _, c := range tests {
		size, err := parseSize(c.output)
		if c.fails {
			assert.Error(t, err, c.output)
			continue
		}
		require.NoError(t, err, c.output)
		assert.Equal(t, c.expected, size)
	}
}

func TestRawSource(t *testing.T) {
	frames := []*sobel.Frame{
		test.Noise(6, 5, 1),
		test.Noise(6, 5, 2),
		test.Noise(6, 5, 3),
	}
	var buf bytes.Buffer
	for _, f := range frames {
		buf.Write(f.Pix)
	}
	// truncated tail.
	buf.Write(frames[0].Pix[:7])

	s := NewRawSource(&buf, Size{Rows: 6, Cols: 5})
	for i, expected := range frames {
		f, err := s.Next(context.Background())
		require.NoError(t, err, "frame %d", i)
		assert.Equal(t, expected, f, "frame %d", i)
	}
	_, err := s.Next(context.Background())
	assert.Equal(t, io.EOF, err)
	_, err = s.Next(context.Background())
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, s.Flush(context.Background()))
}

func TestRawSourcePool(t *testing.T) {
	frames := []*sobel.Frame{
		test.Ramp(12, 10, 0, 7),
		test.Noise(12, 10, 5),
	}
	var buf bytes.Buffer
	for _, f := range frames {
		buf.Write(f.Pix)
	}
	sink := &mock.Sink{}
	p, err := sobel.New(NewRawSource(&buf, Size{Rows: 12, Cols: 10}), sink, sobel.WithWorkers(3))
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))

	edges := sink.Edges()
	require.Len(t, edges, len(frames))
	for i, f := range frames {
		assert.Equal(t, sobel.Reference(test.Luma(f)), edges[i])
	}
}

func TestSource(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found")
	}
	path := filepath.Join(t.TempDir(), "testsrc.mkv")
	generate := exec.Command("ffmpeg", "-v", "error",
		"-f", "lavfi", "-i", "testsrc=size=64x48:rate=10:duration=1",
		"-c:v", "ffv1", path)
	require.NoError(t, generate.Run())

	ctx := context.Background()
	size, err := Probe(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Size{Rows: 48, Cols: 64}, size)

	s, err := NewSource(ctx, path)
	require.NoError(t, err)
	sink := &mock.Sink{Discard: true}
	p, err := sobel.New(s, sink, sobel.WithWorkers(2))
	require.NoError(t, err)
	require.NoError(t, p.Run(ctx))
	presented, rows := sink.Count()
	assert.Equal(t, 10, presented)
	assert.Equal(t, 10*46, rows)
}

func TestSourceStopped(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found")
	}
	path := filepath.Join(t.TempDir(), "testsrc.mkv")
	generate := exec.Command("ffmpeg", "-v", "error",
		"-f", "lavfi", "-i", "testsrc=size=64x48:rate=25:duration=4",
		"-c:v", "ffv1", path)
	require.NoError(t, generate.Run())

	ctx := context.Background()
	s, err := NewSource(ctx, path)
	require.NoError(t, err)
	_, err = s.Next(ctx)
	require.NoError(t, err)
	assert.NoError(t, s.Flush(ctx))
}

func TestProbeMissingFile(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found")
	}
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mkv"))
	assert.Error(t, err)
}

func TestFlushKills(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not found")
	}
	cmd := exec.Command("sleep", "10")
	out, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	s := NewRawSource(out, Size{Rows: 2, Cols: 2})
	s.cmd = cmd
	assert.NoError(t, s.Flush(context.Background()))
	assert.True(t, killed(&exec.ExitError{ProcessState: cmd.ProcessState}))
}

func TestKilled(t *testing.T) {
	assert.False(t, killed(io.EOF))

	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not found")
	}
	err := exec.Command("false").Run()
	require.Error(t, err)
	assert.False(t, killed(err))
}
