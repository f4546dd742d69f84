package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/config"
	"github.com/dudk/sobel/ffmpeg"
	"github.com/dudk/sobel/log"
	"github.com/dudk/sobel/metric"
)

type (
	sourceFactory func(ctx context.Context, path string) (sobel.Source, error)
	sinkFactory   func(title string) (sobel.Sink, error)
)

// decoders and displays are extended by build-tagged backends.
var (
	decoders = map[string]sourceFactory{
		"ffmpeg": func(ctx context.Context, path string) (sobel.Source, error) {
			return ffmpeg.NewSource(ctx, path)
		},
	}
	displays = map[string]sinkFactory{
		"none": func(string) (sobel.Sink, error) {
			return discard{}, nil
		},
	}
)

// discard drops edge maps.
type discard struct{}

func (discard) Present(context.Context, *sobel.Plane) error {
	return nil
}

type runCommand struct {
	in      string
	cfg     string
	decoder string
	display string
	metrics string
}

func (cmd *runCommand) Name() string {
	return "run"
}

func (cmd *runCommand) Help() string {
	return "Detect edges in every frame of video file"
}

func (cmd *runCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "input video file (required)")
	fs.StringVar(&cmd.cfg, "config", "", "yaml config file")
	fs.StringVar(&cmd.decoder, "decoder", "ffmpeg", "video decoder: "+keys(decoders))
	fs.StringVar(&cmd.display, "display", "none", "edges display: "+keys(displays))
	fs.StringVar(&cmd.metrics, "metrics", "", "address to serve prometheus metrics")
}

func (cmd *runCommand) Validate() error {
	var message string
	if cmd.in == "" {
		message = message + "Missing -in required flag\n"
	}
	if _, ok := decoders[cmd.decoder]; !ok {
		message = message + fmt.Sprintf("Unknown decoder %q\n", cmd.decoder)
	}
	if _, ok := displays[cmd.display]; !ok {
		message = message + fmt.Sprintf("Unknown display %q\n", cmd.display)
	}
	if message != "" {
		return fmt.Errorf("%s", message)
	}
	return nil
}

func (cmd *runCommand) Run(ctx context.Context) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	cfg, err := config.Load(cmd.cfg)
	if err != nil {
		return err
	}
	source, err := decoders[cmd.decoder](ctx, cmd.in)
	if err != nil {
		return err
	}
	sink, err := displays[cmd.display](cmd.in)
	if err != nil {
		return flushed(err, source)
	}

	m := &metric.Metric{}
	options := append(cfg.Options(), sobel.WithMetric(m), sobel.WithName(cmd.in))
	p, err := sobel.New(source, sink, options...)
	if err != nil {
		return flushed(err, source, sink)
	}
	if cmd.metrics != "" {
		shutdown := serveMetrics(cmd.metrics, m)
		defer shutdown()
	}
	start := time.Now()
	if err := interrupted(p.Run(ctx)); err != nil {
		return err
	}
	fmt.Printf("%v: processed %d frames in %v\n", p, frames(m), time.Since(start))
	return nil
}

// flushed releases already built source and sink after err.
func flushed(err error, components ...interface{}) error {
	for _, c := range components {
		if f, ok := c.(sobel.Flusher); ok {
			if errFlush := f.Flush(context.Background()); errFlush != nil {
				return errors.Wrapf(err, "flush error: %v", errFlush)
			}
		}
	}
	return err
}

// interrupted treats cancellation as a clean stop. Flush errors are still
// reported.
func interrupted(err error) error {
	var runErr *sobel.ErrorRun
	if !errors.As(err, &runErr) || !errors.Is(runErr.ErrExec, context.Canceled) {
		return err
	}
	return runErr.ErrFlush
}

// frames returns number of frames presented by all workers.
func frames(m *metric.Metric) int64 {
	var n int64
	for _, counters := range m.Measure() {
		if v, ok := counters[metric.FrameCounter].(int64); ok {
			n += v
		}
	}
	return n
}

// serveMetrics exposes pool metrics until returned function is called.
func serveMetrics(addr string, m *metric.Metric) func() {
	registry := prometheus.NewRegistry()
	registry.MustRegister(metric.Collector("sobel", m))
	server := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	logger := log.GetLogger()
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn(fmt.Sprintf("metrics server: %v", err))
		}
	}()
	return func() {
		ctx, cancelFn := context.WithTimeout(context.Background(), time.Second)
		defer cancelFn()
		server.Shutdown(ctx)
	}
}

func keys[T any](m map[string]T) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
