package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration prom.Histogram
	cleanDuration  prom.Histogram
	cleanedFiles   prom.Counter
	pages          *prom.CounterVec
	outcomes       *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docwiki",
			Name:      "render_duration_seconds",
			Help:      "Duration of complete render cycles",
			Buckets:   prom.DefBuckets,
		}),
		cleanDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docwiki",
			Name:      "clean_duration_seconds",
			Help:      "Duration of output directory cleaning",
			Buckets:   prom.DefBuckets,
		}),
		cleanedFiles: prom.NewCounter(prom.CounterOpts{
			Namespace: "docwiki",
			Name:      "cleaned_files_total",
			Help:      "Files removed from the output directory before rendering",
		}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docwiki",
			Name:      "pages_total",
			Help:      "Traversal items by result",
		}, []string{"result"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docwiki",
			Name:      "render_outcomes_total",
			Help:      "Render cycles by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.renderDuration, pr.cleanDuration, pr.cleanedFiles, pr.pages, pr.outcomes)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCleanDuration(d time.Duration) {
	p.cleanDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddCleanedFiles(n int) {
	if n > 0 {
		p.cleanedFiles.Add(float64(n))
	}
}

func (p *PrometheusRecorder) IncPageResult(result PageResult) {
	p.pages.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncRenderOutcome(outcome Outcome) {
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes every metric gathered from g to path in the Prometheus
// text exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
