// Package metrics provides Prometheus observability for dataprof: counters
// for tracked values, merges, emitted wire segments, and parsed profiles.
//
// Metrics are registered automatically via promauto. Components increment
// the package-level collectors directly:
//
//	metrics.ValuesTracked.WithLabelValues("orders").Add(float64(n))
//	metrics.ProfilesMerged.WithLabelValues("orders").Inc()
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValuesTracked counts values ingested into column statistics.
	// Labels: dataset (profile name)
	ValuesTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataprof_values_tracked_total",
			Help: "Total number of values tracked into column profiles",
		},
		[]string{"dataset"},
	)

	// ProfilesMerged counts successful profile merges.
	// Labels: dataset (profile name)
	ProfilesMerged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataprof_profiles_merged_total",
			Help: "Total number of profile merges",
		},
		[]string{"dataset"},
	)

	// SegmentsEmitted counts wire segments produced by chunk iterators.
	// Labels: dataset (profile name), kind (metadata/columns)
	SegmentsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataprof_segments_emitted_total",
			Help: "Total number of chunked wire segments emitted",
		},
		[]string{"dataset", "kind"},
	)

	// ProfilesParsed counts profiles decoded from delimited streams.
	ProfilesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataprof_profiles_parsed_total",
			Help: "Total number of profiles parsed from delimited streams",
		},
	)

	// StoreBytesWritten counts delimited profile bytes appended to stores,
	// before compression. Labels: compression (codec name)
	StoreBytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataprof_store_bytes_written_total",
			Help: "Total delimited profile bytes appended to stores",
		},
		[]string{"compression"},
	)
)
