package profile

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/metrics"
)

// ColumnChunkMaxLen is the byte ceiling for the column content of a single
// columns-chunk segment: one megabyte minus a small safety margin for the
// segment envelope.
const ColumnChunkMaxLen = 1_000_000 - 10

// MetadataSegment carries a profile's properties. It is always the first
// segment of a transmission.
type MetadataSegment struct {
	Properties *Properties `json:"properties"`
}

// ColumnsSegment carries an ordered batch of column wire messages.
type ColumnsSegment struct {
	Marker  string           `json:"marker"`
	Columns []*ColumnMessage `json:"columns"`
}

// Segment is one unit of the chunked wire protocol. Exactly one of Metadata
// and Columns is set. Segments sharing a marker belong to one logical
// profile transmission.
type Segment struct {
	Marker   string           `json:"marker,omitempty"`
	Metadata *MetadataSegment `json:"metadata,omitempty"`
	Columns  *ColumnsSegment  `json:"columns,omitempty"`
}

// ChunkIterator is a pull-based cursor over the wire segments of one profile
// transmission. The sequence is finite and not restartable; call
// Profile.ChunkIterator again for a fresh transmission with a new marker.
//
//	it, err := p.ChunkIterator()
//	for it.Next() {
//		send(it.Segment())
//	}
//	if err := it.Err(); err != nil { ... }
type ChunkIterator struct {
	profile *Profile
	marker  string
	names   []string
	maxLen  int

	idx      int
	metaSent bool
	done     bool
	carry    *ColumnMessage
	carryLen int
	cur      *Segment
	err      error
}

// ChunkIterator validates the profile and returns a segment cursor. The
// transmission marker is the session id plus a random component, so a
// receiver can tell a new transmission apart even within one session.
func (p *Profile) ChunkIterator() (*ChunkIterator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	names := p.ColumnNames()
	sort.Strings(names)

	return &ChunkIterator{
		profile: p,
		marker:  p.sessionID + uuid.NewString(),
		names:   names,
		maxLen:  ColumnChunkMaxLen,
	}, nil
}

// Marker returns the transmission marker shared by every emitted segment.
func (it *ChunkIterator) Marker() string {
	return it.marker
}

// Next advances to the next segment. It returns false when the sequence is
// exhausted or a column failed to encode; Err distinguishes the two.
func (it *ChunkIterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}

	if !it.metaSent {
		it.metaSent = true
		it.cur = &Segment{
			Marker:   it.marker,
			Metadata: &MetadataSegment{Properties: it.profile.Properties()},
		}
		metrics.SegmentsEmitted.WithLabelValues(it.profile.Name(), "metadata").Inc()
		return true
	}

	var chunk []*ColumnMessage
	contentLen := 0
	if it.carry != nil {
		chunk = append(chunk, it.carry)
		contentLen = it.carryLen
		it.carry = nil
	}

	// Greedy first-fit packing: one linear pass, no lookahead beyond the
	// single carried message.
	for it.idx < len(it.names) {
		name := it.names[it.idx]
		msg, err := it.profile.columns[name].ToWire()
		if err != nil {
			it.err = errors.Wrap(err, errors.ErrorTypeData, "failed to encode column").
				WithDetail("column", name)
			return false
		}
		b, err := marshalWire(msg)
		if err != nil {
			it.err = err
			return false
		}
		n := len(b)
		it.idx++

		if contentLen+n <= it.maxLen {
			chunk = append(chunk, msg)
			contentLen += n
			continue
		}

		if len(chunk) == 0 {
			// A single message over the ceiling is emitted alone; the
			// protocol never splits one column across chunks.
			it.cur = it.columnsSegment([]*ColumnMessage{msg})
			return true
		}

		it.carry, it.carryLen = msg, n
		it.cur = it.columnsSegment(chunk)
		return true
	}

	it.done = true
	if len(chunk) > 0 {
		it.cur = it.columnsSegment(chunk)
		return true
	}
	return false
}

// Segment returns the segment produced by the last successful Next call.
func (it *ChunkIterator) Segment() *Segment {
	return it.cur
}

// Err returns the first error encountered while producing segments.
func (it *ChunkIterator) Err() error {
	return it.err
}

func (it *ChunkIterator) columnsSegment(columns []*ColumnMessage) *Segment {
	metrics.SegmentsEmitted.WithLabelValues(it.profile.Name(), "columns").Inc()
	return &Segment{
		Marker:  it.marker,
		Columns: &ColumnsSegment{Marker: it.marker, Columns: columns},
	}
}
