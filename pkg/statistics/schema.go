package statistics

import (
	"github.com/dataprof/dataprof/pkg/profile"
)

// schemaTracker counts observed value types and infers the column's
// dominant type.
type schemaTracker struct {
	counts map[profile.ValueType]int64
}

func newSchemaTracker() schemaTracker {
	return schemaTracker{counts: make(map[profile.ValueType]int64)}
}

func schemaTrackerFromState(state map[string]int64) schemaTracker {
	t := newSchemaTracker()
	for k, n := range state {
		t.counts[profile.ValueType(k)] = n
	}
	return t
}

func (t schemaTracker) state() map[string]int64 {
	if len(t.counts) == 0 {
		return nil
	}
	out := make(map[string]int64, len(t.counts))
	for k, n := range t.counts {
		out[string(k)] = n
	}
	return out
}

func (t *schemaTracker) track(vt profile.ValueType) {
	if t.counts == nil {
		t.counts = make(map[profile.ValueType]int64)
	}
	t.counts[vt]++
}

func (t schemaTracker) merge(o schemaTracker) schemaTracker {
	merged := newSchemaTracker()
	for k, n := range t.counts {
		merged.counts[k] += n
	}
	for k, n := range o.counts {
		merged.counts[k] += n
	}
	return merged
}

// inferredType returns the majority observed type. Integral coerces to
// fractional whenever any fractional value was observed, since a column
// mixing the two is numerically fractional; the reported ratio then covers
// both numeric types.
func (t schemaTracker) inferredType() *profile.InferredType {
	var total int64
	for _, n := range t.counts {
		total += n
	}
	if total == 0 {
		return nil
	}

	var candidate profile.ValueType
	var candidateCount int64 = -1
	for _, vt := range profile.ValueTypes {
		if n := t.counts[vt]; n > candidateCount {
			candidate, candidateCount = vt, n
		}
	}

	if candidate == profile.ValueTypeIntegral && t.counts[profile.ValueTypeFractional] > 0 {
		numeric := t.counts[profile.ValueTypeIntegral] + t.counts[profile.ValueTypeFractional]
		return &profile.InferredType{
			Type:  profile.ValueTypeFractional,
			Ratio: float64(numeric) / float64(total),
		}
	}

	return &profile.InferredType{
		Type:  candidate,
		Ratio: float64(candidateCount) / float64(total),
	}
}

func (t schemaTracker) summary() *profile.SchemaSummary {
	if len(t.counts) == 0 {
		return nil
	}
	counts := make(map[profile.ValueType]int64, len(t.counts))
	for k, n := range t.counts {
		counts[k] = n
	}
	return &profile.SchemaSummary{
		InferredType: t.inferredType(),
		TypeCounts:   counts,
	}
}
