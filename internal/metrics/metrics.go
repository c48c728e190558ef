// Package metrics exposes orchestrator stats as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	viewport "github.com/e7canasta/orion-viewport"
)

// StatsSource yields the snapshot the collector reads on scrape.
type StatsSource interface {
	Stats() viewport.StatsSnapshot
}

// Collector is a pull-mode Prometheus collector: each scrape takes one
// Stats() snapshot, so no push instrumentation leaks into the hot path.
type Collector struct {
	source     StatsSource
	instanceID string

	posesReceived     *prometheus.Desc
	posesCoalesced    *prometheus.Desc
	dispatched        *prometheus.Desc
	completed         *prometheus.Desc
	failures          *prometheus.Desc
	skippedDegenerate *prometheus.Desc
	progressiveSteps  *prometheus.Desc
	ticksScheduled    *prometheus.Desc
	ticksCancelled    *prometheus.Desc
	state             *prometheus.Desc
	sampleIndex       *prometheus.Desc
	presentedWidth    *prometheus.Desc
	presentedHeight   *prometheus.Desc
}

// NewCollector creates a collector labelled with the daemon instance id.
func NewCollector(source StatsSource, instanceID string) *Collector {
	labels := prometheus.Labels{"instance": instanceID}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("viewport_"+name, help, nil, labels)
	}
	return &Collector{
		source:     source,
		instanceID: instanceID,

		posesReceived:     desc("poses_received_total", "Camera poses accepted by the orchestrator."),
		posesCoalesced:    desc("poses_coalesced_total", "Poses dropped by latest-wins overwrite."),
		dispatched:        desc("renders_dispatched_total", "Render calls issued to the renderer."),
		completed:         desc("renders_completed_total", "Render calls that returned a frame."),
		failures:          desc("render_failures_total", "Render calls that returned an error."),
		skippedDegenerate: desc("renders_skipped_degenerate_total", "Dispatches skipped for a collapsed viewport."),
		progressiveSteps:  desc("progressive_steps_total", "Refinement renders issued after settling."),
		ticksScheduled:    desc("ticks_scheduled_total", "Settle scheduler ticks scheduled."),
		ticksCancelled:    desc("ticks_cancelled_total", "Settle scheduler ticks cancelled."),
		state: prometheus.NewDesc("viewport_state", "Current orchestrator state (1 for the active state).",
			[]string{"state"}, labels),
		sampleIndex:     desc("sample_index", "Renderer accumulated sample count."),
		presentedWidth:  desc("presented_width_pixels", "Width of the last presented frame."),
		presentedHeight: desc("presented_height_pixels", "Height of the last presented frame."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.posesReceived
	ch <- c.posesCoalesced
	ch <- c.dispatched
	ch <- c.completed
	ch <- c.failures
	ch <- c.skippedDegenerate
	ch <- c.progressiveSteps
	ch <- c.ticksScheduled
	ch <- c.ticksCancelled
	ch <- c.state
	ch <- c.sampleIndex
	ch <- c.presentedWidth
	ch <- c.presentedHeight
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.posesReceived, s.PosesReceived)
	counter(c.posesCoalesced, s.PosesCoalesced)
	counter(c.dispatched, s.RendersDispatched)
	counter(c.completed, s.RendersCompleted)
	counter(c.failures, s.RenderFailures)
	counter(c.skippedDegenerate, s.RendersSkippedDegenerate)
	counter(c.progressiveSteps, s.ProgressiveSteps)
	counter(c.ticksScheduled, s.TicksScheduled)
	counter(c.ticksCancelled, s.TicksCancelled)

	ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, 1, s.State)
	ch <- prometheus.MustNewConstMetric(c.sampleIndex, prometheus.GaugeValue, float64(s.SampleIndex))
	ch <- prometheus.MustNewConstMetric(c.presentedWidth, prometheus.GaugeValue, float64(s.LastPresentedWidth))
	ch <- prometheus.MustNewConstMetric(c.presentedHeight, prometheus.GaugeValue, float64(s.LastPresentedHeight))
}

// Handler builds a scrape handler over a fresh registry containing only
// this collector.
func Handler(source StatsSource, instanceID string) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(source, instanceID))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
