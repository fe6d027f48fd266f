// Package metrics counts crawl activity with Prometheus collectors.
//
// A Recorder owns a private registry rather than the global default one, so
// several crawls in one process (and parallel tests) never share counters.
// The counters are exported once per run with WriteTextfile, in the format
// read by the node exporter textfile collector.
package metrics
