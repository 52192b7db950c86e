package statistics

import (
	"github.com/dataprof/dataprof/pkg/profile"
)

// stringTracker accumulates statistics for string values: an observation
// count, a cardinality sketch, and a frequent-value tracker.
type stringTracker struct {
	Seen     int64         `json:"seen"`
	Unique   kmvSketch     `json:"unique"`
	Frequent frequentItems `json:"frequent"`
}

func newStringTracker() stringTracker {
	return stringTracker{
		Unique:   newKMVSketch(),
		Frequent: newFrequentItems(),
	}
}

func (t *stringTracker) track(v string) {
	t.Seen++
	t.Unique.addString(v)
	t.Frequent.track(v)
}

func (t stringTracker) observed() bool {
	return t.Seen > 0
}

func (t stringTracker) merge(o stringTracker) stringTracker {
	return stringTracker{
		Seen:     t.Seen + o.Seen,
		Unique:   t.Unique.merge(o.Unique),
		Frequent: t.Frequent.merge(o.Frequent),
	}
}

func (t *stringTracker) normalize() {
	t.Unique.normalize()
	t.Frequent.normalize()
}

func (t stringTracker) summary() *profile.StringSummary {
	return &profile.StringSummary{
		UniqueCount: t.Unique.summary(),
		Frequent:    t.Frequent.summary(),
	}
}
