// Package opencv provides video file source and display window for
// sobel pool backed by OpenCV.
package opencv

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/dudk/sobel"
)

type (
	// Source reads frames of a video file. Frame is reused between calls
	// to Next.
	Source struct {
		path    string
		capture *gocv.VideoCapture
		mat     gocv.Mat
		frame   sobel.Frame
	}

	// Window shows edge maps in a named window.
	Window struct {
		m      sync.Mutex
		title  string
		window *gocv.Window
		shown  int
	}
)

// NewSource opens video file at path.
func NewSource(path string) (*Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", path)
	}
	return &Source{
		path:    path,
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

// Next reads the next frame. It returns io.EOF when the file is over.
func (s *Source) Next(ctx context.Context) (*sobel.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, io.EOF
	}
	if s.mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, errors.Wrapf(sobel.ErrMalformedFrame, "%v: mat type %v", s.path, s.mat.Type())
	}
	s.frame.Rows, s.frame.Cols = s.mat.Rows(), s.mat.Cols()
	s.frame.Pix = append(s.frame.Pix[:0], s.mat.ToBytes()...)
	return &s.frame, nil
}

// Flush releases capture resources.
func (s *Source) Flush(context.Context) error {
	errMat := s.mat.Close()
	errCapture := s.capture.Close()
	if errMat != nil {
		return errors.Wrap(errMat, "close mat")
	}
	if errCapture != nil {
		return errors.Wrap(errCapture, "close capture")
	}
	return nil
}

// NewWindow creates a window with title.
func NewWindow(title string) *Window {
	return &Window{
		title:  title,
		window: gocv.NewWindow(title),
	}
}

// Present shows edges and waits 1ms for window events.
func (w *Window) Present(_ context.Context, edges *sobel.Plane) error {
	w.m.Lock()
	defer w.m.Unlock()
	mat, err := gocv.NewMatFromBytes(edges.Rows, edges.Cols, gocv.MatTypeCV8UC1, edges.Pix)
	if err != nil {
		return errors.Wrapf(err, "%v: edges to mat", w.title)
	}
	defer mat.Close()
	w.window.IMShow(mat)
	w.window.WaitKey(1)
	w.shown++
	return nil
}

// Shown returns number of presented edge maps.
func (w *Window) Shown() int {
	w.m.Lock()
	defer w.m.Unlock()
	return w.shown
}

// Flush closes the window.
func (w *Window) Flush(context.Context) error {
	w.m.Lock()
	defer w.m.Unlock()
	return w.window.Close()
}
