// Package dataprof provides a streaming statistics-profiling engine for
// tabular and array data. It incrementally builds per-column statistical
// summaries over arbitrarily large datasets without retaining raw data,
// merges profiles computed independently on separate partitions, and
// serializes profiles through a chunked, size-bounded binary protocol
// suitable for streaming transport and storage.
//
// # Architecture
//
// The engine separates the dataset-level aggregation core from the
// per-column statistics engine behind an opaque accumulator boundary:
//
//   - pkg/profile: the dataset profile — identity and session bookkeeping,
//     the merge engine with its compatibility preconditions, the chunked
//     segment protocol, the length-delimited stream protocol, and the
//     summary flattener.
//   - pkg/statistics: the column statistics engine — counters, type
//     inference, numeric moments, cardinality sketches, and frequent-item
//     tracking. It registers itself as the default column codec.
//   - pkg/ingest: bulk adapters reducing rows, tables, CSV files, and
//     Arrow records to repeated single-value tracking.
//   - pkg/store: durable delimited profile streams with optional
//     compression.
//
// # Quick start
//
// Profile two partitions in parallel and combine them:
//
//	import (
//		"github.com/dataprof/dataprof/pkg/profile"
//		_ "github.com/dataprof/dataprof/pkg/statistics"
//	)
//
//	left := profile.New("orders", profile.Config{SessionID: id, SessionTimestamp: ts})
//	right := profile.New("orders", profile.Config{SessionID: id, SessionTimestamp: ts})
//	// ... track a partition into each ...
//	merged, err := left.Merge(right)
package dataprof
