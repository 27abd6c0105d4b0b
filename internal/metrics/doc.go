// Package metrics records render-cycle observations for docwiki.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	orch := render.New(gen, render.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// docwiki has no network listener. When metrics.textfile is configured the
// registry is written after every render with WriteTextfile, in the format
// read by node_exporter's textfile collector.
package metrics
