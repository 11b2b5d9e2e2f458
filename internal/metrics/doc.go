// Package metrics records pipeline run and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost nothing
// unless a PrometheusRecorder is injected:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	orch := pipeline.New(cfg, deps, pipeline.WithObserver(pipeline.RecorderObserver(rec)))
//
// A one-shot CLI run has no scrape endpoint, so WriteTextfile dumps the registry in
// the Prometheus text exposition format for node_exporter's textfile collector.
package metrics
