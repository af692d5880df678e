// Package metrics counts what one vitalscan run did and writes it out in the
// Prometheus text exposition format, suitable for node_exporter's textfile
// collector.
//
// A *Metrics owns its own registry; nothing is registered globally. All
// Observe methods are nil-safe so callers can pass a nil *Metrics when
// metrics are not wanted.
package metrics
