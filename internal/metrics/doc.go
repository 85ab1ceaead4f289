// Package metrics provides Prometheus metrics for monitoring a run.
//
// Key metrics:
//   - Catalog lookups by source and outcome
//   - Catalog lookup latency by source
//   - Tokens processed by dataset and final state
//   - Report rows written by sink
package metrics
