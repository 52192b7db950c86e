package statistics

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/dataprof/dataprof/pkg/profile"
)

// kmvK is the number of minimum hashes retained by the cardinality sketch.
// Below kmvK distinct values the estimate is exact.
const kmvK = 1024

// kmvRelativeError is the approximate relative error bound of a k-minimum-
// values estimate at kmvK retained hashes.
var kmvRelativeError = 1.96 / math.Sqrt(float64(kmvK))

// kmvSketch is a k-minimum-values cardinality sketch: it retains the kmvK
// smallest distinct 64-bit hashes seen and estimates the distinct count from
// the density of the retained minimum.
type kmvSketch struct {
	// Hashes is sorted ascending, holds distinct values only, and never
	// exceeds kmvK entries.
	Hashes []uint64 `json:"hashes,omitempty"`
}

func newKMVSketch() kmvSketch {
	return kmvSketch{}
}

func (s *kmvSketch) addString(v string) {
	s.add(xxhash.Sum64String(v))
}

func (s *kmvSketch) addFloat(v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	s.add(xxhash.Sum64(buf[:]))
}

func (s *kmvSketch) add(h uint64) {
	idx := sort.Search(len(s.Hashes), func(i int) bool { return s.Hashes[i] >= h })
	if idx < len(s.Hashes) && s.Hashes[idx] == h {
		return
	}
	if len(s.Hashes) >= kmvK {
		if h >= s.Hashes[len(s.Hashes)-1] {
			return
		}
		s.Hashes = s.Hashes[:len(s.Hashes)-1]
	}
	s.Hashes = append(s.Hashes, 0)
	copy(s.Hashes[idx+1:], s.Hashes[idx:])
	s.Hashes[idx] = h
}

func (s kmvSketch) merge(o kmvSketch) kmvSketch {
	merged := newKMVSketch()
	merged.Hashes = append(append([]uint64{}, s.Hashes...), o.Hashes...)
	merged.normalize()
	return merged
}

func (s kmvSketch) clone() kmvSketch {
	return kmvSketch{Hashes: append([]uint64{}, s.Hashes...)}
}

// normalize restores the sorted-distinct-truncated invariant, e.g. after
// wire decoding or merging.
func (s *kmvSketch) normalize() {
	sort.Slice(s.Hashes, func(i, j int) bool { return s.Hashes[i] < s.Hashes[j] })
	distinct := s.Hashes[:0]
	var prev uint64
	for i, h := range s.Hashes {
		if i > 0 && h == prev {
			continue
		}
		distinct = append(distinct, h)
		prev = h
	}
	s.Hashes = distinct
	if len(s.Hashes) > kmvK {
		s.Hashes = s.Hashes[:kmvK]
	}
}

func (s kmvSketch) estimate() float64 {
	n := len(s.Hashes)
	if n < kmvK {
		return float64(n)
	}
	// Retained hashes are the kmvK smallest of the distinct set; the kth
	// minimum's position in the hash space gives the density.
	kth := float64(s.Hashes[kmvK-1]) / float64(math.MaxUint64)
	if kth == 0 {
		return float64(n)
	}
	return float64(kmvK-1) / kth
}

func (s kmvSketch) summary() *profile.UniqueCountSummary {
	est := s.estimate()
	if len(s.Hashes) < kmvK {
		// Exact below the sketch threshold.
		return &profile.UniqueCountSummary{Estimate: est, Lower: est, Upper: est}
	}
	return &profile.UniqueCountSummary{
		Estimate: est,
		Lower:    est * (1 - kmvRelativeError),
		Upper:    est * (1 + kmvRelativeError),
	}
}
