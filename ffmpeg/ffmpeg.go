// Package ffmpeg provides sobel source which decodes video with external
// ffmpeg process.
package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"github.com/dudk/sobel"
)

// Size is a frame size of video stream.
type Size struct {
	Rows int
	Cols int
}

// Probe returns frame size of the first video stream in file at path.
func Probe(ctx context.Context, path string) (Size, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0:s=x",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return Size{}, errors.Wrapf(err, "ffprobe %v", path)
	}
	return parseSize(string(output))
}

// parseSize parses WIDTHxHEIGHT output of ffprobe.
func parseSize(s string) (Size, error) {
	fields := strings.Split(strings.TrimSpace(s), "x")
	if len(fields) < 2 {
		return Size{}, errors.Errorf("unexpected ffprobe output %q", s)
	}
	cols, err := strconv.Atoi(fields[0])
	if err != nil {
		return Size{}, errors.Wrap(err, "parse width")
	}
	rows, err := strconv.Atoi(fields[1])
	if err != nil {
		return Size{}, errors.Wrap(err, "parse height")
	}
	if rows <= 0 || cols <= 0 {
		return Size{}, errors.Errorf("invalid frame size %dx%d", cols, rows)
	}
	return Size{Rows: rows, Cols: cols}, nil
}

// Source reads raw bgr24 frames. Frame is reused between calls to Next.
type Source struct {
	r      io.Reader
	frame  sobel.Frame
	eof    bool
	cmd    *exec.Cmd
	stderr bytes.Buffer
}

// NewSource starts ffmpeg process which decodes file at path into raw
// bgr24 frames.
func NewSource(ctx context.Context, path string) (*Source, error) {
	size, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-",
	)
	s := NewRawSource(nil, size)
	cmd.Stderr = &s.stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "start ffmpeg")
	}
	s.r, s.cmd = out, cmd
	return s, nil
}

// NewRawSource returns source which reads raw bgr24 frames of size from r.
func NewRawSource(r io.Reader, size Size) *Source {
	return &Source{
		r: r,
		frame: sobel.Frame{
			Rows: size.Rows,
			Cols: size.Cols,
			Pix:  make([]uint8, size.Rows*size.Cols*sobel.Channels),
		},
	}
}

// Next reads the next frame. Truncated last frame is dropped.
func (s *Source) Next(ctx context.Context) (*sobel.Frame, error) {
	if s.eof {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(s.r, s.frame.Pix); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			s.eof = true
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "read frame")
	}
	return &s.frame, nil
}

// Flush stops ffmpeg process if the stream wasn't read till the end.
// Process killed on context cancel is not an error.
func (s *Source) Flush(context.Context) error {
	if s.cmd == nil {
		return nil
	}
	if !s.eof {
		// stdout is not drained, process won't exit by itself.
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return errors.Wrap(err, "kill ffmpeg")
		}
	}
	if err := s.cmd.Wait(); err != nil && !killed(err) && !errors.Is(err, context.Canceled) {
		return errors.Wrapf(err, "ffmpeg: %s", strings.TrimSpace(s.stderr.String()))
	}
	return nil
}

// killed reports if err is the exit status of a killed process.
func killed(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled() && status.Signal() == syscall.SIGKILL
}
