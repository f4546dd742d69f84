package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const workerLabel = "worker"

// collector exports Metric measures as prometheus const metrics.
type collector struct {
	metric  *Metric
	frames  *prometheus.Desc
	bands   *prometheus.Desc
	rows    *prometheus.Desc
	latency *prometheus.Desc
}

// Collector returns prometheus collector for the metric. Every meter is
// exported as a separate worker label value.
func Collector(namespace string, m *Metric) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, workerLabel, name), help, []string{workerLabel}, nil)
	}
	return &collector{
		metric:  m,
		frames:  desc("frames_total", "Number of frames owned by worker."),
		bands:   desc("bands_total", "Number of row bands processed by worker."),
		rows:    desc("rows_total", "Number of rows processed by worker."),
		latency: desc("band_latency_seconds", "Time between two last processed bands."),
	}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.bands
	ch <- c.rows
	ch <- c.latency
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for worker, counters := range c.metric.Measure() {
		if v, ok := counters[FrameCounter].(int64); ok {
			ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(v), worker)
		}
		if v, ok := counters[BandCounter].(int64); ok {
			ch <- prometheus.MustNewConstMetric(c.bands, prometheus.CounterValue, float64(v), worker)
		}
		if v, ok := counters[RowCounter].(int64); ok {
			ch <- prometheus.MustNewConstMetric(c.rows, prometheus.CounterValue, float64(v), worker)
		}
		if v, ok := counters[LatencyCounter].(time.Duration); ok {
			ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, v.Seconds(), worker)
		}
	}
}
