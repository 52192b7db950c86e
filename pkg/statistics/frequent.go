package statistics

import (
	"sort"
	"strconv"

	"github.com/dataprof/dataprof/pkg/profile"
)

// frequentCapacity bounds the number of distinct values a frequent-item
// tracker retains. Below the capacity counts are exact; beyond it the
// tracker degrades to space-saving estimates.
const frequentCapacity = 128

// frequentItems tracks heavy-hitter string values with the space-saving
// scheme: when full, the minimum-count entry is replaced and the newcomer
// inherits its count plus one.
type frequentItems struct {
	Counts map[string]int64 `json:"counts,omitempty"`
}

func newFrequentItems() frequentItems {
	return frequentItems{Counts: make(map[string]int64)}
}

func (f *frequentItems) track(v string) {
	if f.Counts == nil {
		f.Counts = make(map[string]int64)
	}
	if _, ok := f.Counts[v]; ok || len(f.Counts) < frequentCapacity {
		f.Counts[v]++
		return
	}

	minKey, minCount := "", int64(-1)
	for k, n := range f.Counts {
		if minCount < 0 || n < minCount || (n == minCount && k < minKey) {
			minKey, minCount = k, n
		}
	}
	delete(f.Counts, minKey)
	f.Counts[v] = minCount + 1
}

func (f frequentItems) merge(o frequentItems) frequentItems {
	merged := newFrequentItems()
	for k, n := range f.Counts {
		merged.Counts[k] += n
	}
	for k, n := range o.Counts {
		merged.Counts[k] += n
	}
	merged.normalize()
	return merged
}

func (f frequentItems) clone() frequentItems {
	out := newFrequentItems()
	for k, n := range f.Counts {
		out.Counts[k] = n
	}
	return out
}

// normalize trims the tracker back to capacity, dropping the smallest
// counts first.
func (f *frequentItems) normalize() {
	if f.Counts == nil {
		f.Counts = make(map[string]int64)
	}
	if len(f.Counts) <= frequentCapacity {
		return
	}
	type entry struct {
		value string
		count int64
	}
	entries := make([]entry, 0, len(f.Counts))
	for k, n := range f.Counts {
		entries = append(entries, entry{k, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].value < entries[j].value
	})
	f.Counts = make(map[string]int64, frequentCapacity)
	for _, e := range entries[:frequentCapacity] {
		f.Counts[e.value] = e.count
	}
}

func (f frequentItems) summary() *profile.FrequentItemsSummary {
	if len(f.Counts) == 0 {
		return nil
	}
	items := make([]profile.FrequentItem, 0, len(f.Counts))
	for v, n := range f.Counts {
		items = append(items, profile.FrequentItem{Value: v, Estimate: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Estimate != items[j].Estimate {
			return items[i].Estimate > items[j].Estimate
		}
		return items[i].Value < items[j].Value
	})
	return &profile.FrequentItemsSummary{Items: items}
}

// frequentNumbers tracks heavy-hitter numeric values. Values are keyed by
// their shortest round-trip decimal form so the state stays JSON-encodable.
type frequentNumbers struct {
	Counts map[string]int64 `json:"counts,omitempty"`
}

func newFrequentNumbers() frequentNumbers {
	return frequentNumbers{Counts: make(map[string]int64)}
}

func numberKey(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (f *frequentNumbers) track(v float64) {
	items := frequentItems{Counts: f.Counts}
	items.track(numberKey(v))
	f.Counts = items.Counts
}

func (f frequentNumbers) merge(o frequentNumbers) frequentNumbers {
	merged := frequentItems{Counts: f.Counts}.merge(frequentItems{Counts: o.Counts})
	return frequentNumbers{Counts: merged.Counts}
}

func (f frequentNumbers) clone() frequentNumbers {
	return frequentNumbers{Counts: frequentItems{Counts: f.Counts}.clone().Counts}
}

func (f *frequentNumbers) normalize() {
	items := frequentItems{Counts: f.Counts}
	items.normalize()
	f.Counts = items.Counts
}

func (f frequentNumbers) summary() *profile.FrequentNumbersSummary {
	if len(f.Counts) == 0 {
		return nil
	}
	items := make([]profile.FrequentNumber, 0, len(f.Counts))
	for k, n := range f.Counts {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			continue
		}
		items = append(items, profile.FrequentNumber{Value: v, Estimate: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Estimate != items[j].Estimate {
			return items[i].Estimate > items[j].Estimate
		}
		return items[i].Value < items[j].Value
	})
	return &profile.FrequentNumbersSummary{Items: items}
}
