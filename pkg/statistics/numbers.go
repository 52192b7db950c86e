package statistics

import (
	"math"
	"sort"

	"github.com/dataprof/dataprof/pkg/profile"
)

// maxSampleSize bounds the value sample kept for histogram and quantile
// estimation. Small datasets get exact results; larger ones are estimated
// from the first maxSampleSize values per partition.
const maxSampleSize = 4096

// histogramBins is the number of bins in generated histograms.
const histogramBins = 30

// quantileLevels are the fixed quantile levels reported in summaries.
var quantileLevels = []float64{0, 0.01, 0.05, 0.25, 0.5, 0.75, 0.95, 0.99, 1}

// numberTracker accumulates mergeable numeric statistics: count, min, max,
// and running mean/variance moments, plus a bounded value sample, a
// cardinality sketch, and a frequent-value counter.
type numberTracker struct {
	Count    int64           `json:"count"`
	Min      float64         `json:"min"`
	Max      float64         `json:"max"`
	Mean     float64         `json:"mean"`
	M2       float64         `json:"m2"`
	Sample   []float64       `json:"sample,omitempty"`
	Unique   kmvSketch       `json:"unique"`
	Frequent frequentNumbers `json:"frequent"`
}

func newNumberTracker() numberTracker {
	return numberTracker{
		Unique:   newKMVSketch(),
		Frequent: newFrequentNumbers(),
	}
}

func (t *numberTracker) track(v float64) {
	t.Count++
	if t.Count == 1 {
		t.Min = v
		t.Max = v
	} else {
		t.Min = math.Min(t.Min, v)
		t.Max = math.Max(t.Max, v)
	}

	// Welford's online update.
	delta := v - t.Mean
	t.Mean += delta / float64(t.Count)
	t.M2 += delta * (v - t.Mean)

	if len(t.Sample) < maxSampleSize {
		t.Sample = append(t.Sample, v)
	}
	t.Unique.addFloat(v)
	t.Frequent.track(v)
}

func (t numberTracker) merge(o numberTracker) numberTracker {
	if t.Count == 0 {
		return o.clone()
	}
	if o.Count == 0 {
		return t.clone()
	}

	merged := newNumberTracker()
	merged.Count = t.Count + o.Count
	merged.Min = math.Min(t.Min, o.Min)
	merged.Max = math.Max(t.Max, o.Max)

	// Parallel variance combination (Chan et al.).
	delta := o.Mean - t.Mean
	n := float64(merged.Count)
	merged.Mean = t.Mean + delta*float64(o.Count)/n
	merged.M2 = t.M2 + o.M2 + delta*delta*float64(t.Count)*float64(o.Count)/n

	merged.Sample = append(append([]float64{}, t.Sample...), o.Sample...)
	if len(merged.Sample) > maxSampleSize {
		merged.Sample = merged.Sample[:maxSampleSize]
	}
	merged.Unique = t.Unique.merge(o.Unique)
	merged.Frequent = t.Frequent.merge(o.Frequent)
	return merged
}

func (t numberTracker) clone() numberTracker {
	out := t
	out.Sample = append([]float64{}, t.Sample...)
	out.Unique = t.Unique.clone()
	out.Frequent = t.Frequent.clone()
	return out
}

// normalize re-establishes tracker invariants after wire decoding.
func (t *numberTracker) normalize() {
	if len(t.Sample) > maxSampleSize {
		t.Sample = t.Sample[:maxSampleSize]
	}
	t.Unique.normalize()
	t.Frequent.normalize()
}

func (t numberTracker) stddev() float64 {
	if t.Count < 2 {
		return 0
	}
	return math.Sqrt(t.M2 / float64(t.Count-1))
}

func (t numberTracker) summary() *profile.NumberSummary {
	return &profile.NumberSummary{
		Count:           t.Count,
		Min:             t.Min,
		Max:             t.Max,
		Mean:            t.Mean,
		Stddev:          t.stddev(),
		UniqueCount:     t.Unique.summary(),
		Histogram:       t.histogram(),
		Quantiles:       t.quantiles(),
		FrequentNumbers: t.Frequent.summary(),
	}
}

// histogram builds a fixed-bin histogram over the tracked range from the
// value sample.
func (t numberTracker) histogram() *profile.HistogramSummary {
	if len(t.Sample) == 0 || t.Max <= t.Min {
		return nil
	}

	width := (t.Max - t.Min) / float64(histogramBins)
	bins := make([]float64, histogramBins+1)
	for i := range bins {
		bins[i] = t.Min + float64(i)*width
	}
	bins[histogramBins] = t.Max

	counts := make([]int64, histogramBins)
	for _, v := range t.Sample {
		idx := int((v - t.Min) / width)
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	return &profile.HistogramSummary{Bins: bins, Counts: counts}
}

// quantiles estimates fixed quantile levels from the sorted value sample.
func (t numberTracker) quantiles() *profile.QuantileSummary {
	if len(t.Sample) == 0 {
		return nil
	}

	sorted := append([]float64{}, t.Sample...)
	sort.Float64s(sorted)

	values := make([]float64, len(quantileLevels))
	for i, q := range quantileLevels {
		idx := int(q * float64(len(sorted)-1))
		values[i] = sorted[idx]
	}

	return &profile.QuantileSummary{
		Quantiles:      append([]float64{}, quantileLevels...),
		QuantileValues: values,
	}
}
