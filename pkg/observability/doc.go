/*
Package observability exposes Prometheus metrics for configuration validation.

Metrics are registered on a caller supplied prometheus.Registerer so tests and
embedders can keep them off the global registry.
*/
package observability
