// Package metrics records build metrics for docgen.
//
// Components receive a Recorder and default to NoopRecorder, so nothing needs
// nil checks when metrics are off. When the CLI is given --metrics-file, a
// PrometheusRecorder is injected instead and its registry is exported once
// the build finishes with WriteTextfile, in the text format read by the
// node_exporter textfile collector.
package metrics
