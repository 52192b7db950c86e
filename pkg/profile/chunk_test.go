package profile

import (
	"fmt"
	"strings"
	"testing"
)

// collectSegments drains an iterator and fails the test on a cursor error.
func collectSegments(t *testing.T, it *ChunkIterator) []*Segment {
	t.Helper()
	var segments []*Segment
	for it.Next() {
		segments = append(segments, it.Segment())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	return segments
}

func chunkProfile(t *testing.T, columns int, padding int) *Profile {
	t.Helper()
	cfg, _ := mergeFixture(t)
	p := newTestProfile(t, "orders", cfg)
	for i := 0; i < columns; i++ {
		name := fmt.Sprintf("col_%02d", i)
		p.columns[name] = &fakeColumn{ColName: name, N: 1, Pad: strings.Repeat("x", padding)}
	}
	return p
}

func TestChunkIteratorMetadataFirst(t *testing.T) {
	p := chunkProfile(t, 3, 0)
	it, err := p.ChunkIterator()
	if err != nil {
		t.Fatalf("failed to build iterator: %v", err)
	}

	segments := collectSegments(t, it)
	if len(segments) < 2 {
		t.Fatalf("expected a metadata segment plus column segments, got %d", len(segments))
	}

	first := segments[0]
	if first.Metadata == nil || first.Columns != nil {
		t.Error("first segment must be metadata-only")
	}
	if first.Metadata.Properties.SessionID != "session-1" {
		t.Errorf("unexpected properties in metadata segment: %+v", first.Metadata.Properties)
	}
	for i, seg := range segments[1:] {
		if seg.Metadata != nil || seg.Columns == nil {
			t.Errorf("segment %d must be columns-only", i+1)
		}
	}
}

func TestChunkIteratorMarkerSharedAndFresh(t *testing.T) {
	p := chunkProfile(t, 2, 0)

	it, err := p.ChunkIterator()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(it.Marker(), p.SessionID()) {
		t.Errorf("marker %q must start with the session id", it.Marker())
	}
	for _, seg := range collectSegments(t, it) {
		if seg.Marker != it.Marker() {
			t.Errorf("segment marker %q differs from transmission marker %q", seg.Marker, it.Marker())
		}
		if seg.Columns != nil && seg.Columns.Marker != it.Marker() {
			t.Errorf("columns payload marker %q differs from transmission marker %q",
				seg.Columns.Marker, it.Marker())
		}
	}

	again, err := p.ChunkIterator()
	if err != nil {
		t.Fatal(err)
	}
	if again.Marker() == it.Marker() {
		t.Error("each transmission must get a fresh marker")
	}
}

func TestChunkIteratorPacksUnderCeiling(t *testing.T) {
	p := chunkProfile(t, 6, 100)
	it, err := p.ChunkIterator()
	if err != nil {
		t.Fatal(err)
	}
	// Shrink the ceiling so each chunk holds roughly two padded messages.
	it.maxLen = 300

	segments := collectSegments(t, it)

	var total int
	for _, seg := range segments[1:] {
		contentLen := 0
		for _, msg := range seg.Columns.Columns {
			b, err := marshalWire(msg)
			if err != nil {
				t.Fatal(err)
			}
			contentLen += len(b)
		}
		if contentLen > it.maxLen {
			t.Errorf("chunk content %d bytes exceeds ceiling %d", contentLen, it.maxLen)
		}
		total += len(seg.Columns.Columns)
	}
	if total != 6 {
		t.Errorf("expected all 6 columns across chunks, got %d", total)
	}
	if len(segments) < 3 {
		t.Errorf("expected the ceiling to force multiple column chunks, got %d segments", len(segments))
	}
}

func TestChunkIteratorColumnsSorted(t *testing.T) {
	p := chunkProfile(t, 8, 0)
	it, err := p.ChunkIterator()
	if err != nil {
		t.Fatal(err)
	}
	it.maxLen = 150

	var names []string
	for _, seg := range collectSegments(t, it)[1:] {
		for _, msg := range seg.Columns.Columns {
			names = append(names, msg.Name)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("column order not sorted: %v", names)
		}
	}
}

func TestChunkIteratorOversizedColumnAlone(t *testing.T) {
	cfg, _ := mergeFixture(t)
	p := newTestProfile(t, "orders", cfg)
	p.columns["big"] = &fakeColumn{ColName: "big", Pad: strings.Repeat("x", 500)}
	p.columns["small_a"] = &fakeColumn{ColName: "small_a"}
	p.columns["small_b"] = &fakeColumn{ColName: "small_b"}

	it, err := p.ChunkIterator()
	if err != nil {
		t.Fatal(err)
	}
	it.maxLen = 200

	segments := collectSegments(t, it)

	var oversized *ColumnsSegment
	for _, seg := range segments[1:] {
		for _, msg := range seg.Columns.Columns {
			if msg.Name == "big" {
				oversized = seg.Columns
			}
		}
	}
	if oversized == nil {
		t.Fatal("oversized column never emitted")
	}
	if len(oversized.Columns) != 1 {
		t.Errorf("an over-ceiling column must travel alone, got %d companions",
			len(oversized.Columns)-1)
	}
}

func TestChunkIteratorEmptyProfile(t *testing.T) {
	cfg, _ := mergeFixture(t)
	p := newTestProfile(t, "orders", cfg)

	it, err := p.ChunkIterator()
	if err != nil {
		t.Fatal(err)
	}

	segments := collectSegments(t, it)
	if len(segments) != 1 || segments[0].Metadata == nil {
		t.Fatalf("a column-less profile still emits its metadata segment, got %d segments", len(segments))
	}
	if it.Next() {
		t.Error("an exhausted iterator must stay exhausted")
	}
}

func TestChunkIteratorValidatesProfile(t *testing.T) {
	p := newTestProfile(t, "orders", Config{})
	p.sessionID = ""
	if _, err := p.ChunkIterator(); err == nil {
		t.Fatal("expected a validation error")
	}
}
