package profile

import (
	"fmt"
	"testing"

	"github.com/dataprof/dataprof/pkg/errors"
)

func delimitedStream(t *testing.T, n int) ([]byte, []*Profile) {
	t.Helper()
	RegisterCodec(fakeCodec{})

	var stream []byte
	var originals []*Profile
	for i := 0; i < n; i++ {
		cfg, _ := mergeFixture(t)
		cfg.SessionID = fmt.Sprintf("session-%d", i)
		p := newTestProfile(t, fmt.Sprintf("dataset-%d", i), cfg)
		if err := p.Track("price", float64(10*(i+1))); err != nil {
			t.Fatal(err)
		}

		data, err := p.SerializeDelimited()
		if err != nil {
			t.Fatalf("delimited serialize failed: %v", err)
		}
		stream = append(stream, data...)
		originals = append(originals, p)
	}
	return stream, originals
}

func TestParseDelimitedRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("profiles=%d", n), func(t *testing.T) {
			stream, originals := delimitedStream(t, n)

			profiles, err := ParseDelimited(stream)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if len(profiles) != n {
				t.Fatalf("expected %d profiles, got %d", n, len(profiles))
			}
			for i, p := range profiles {
				want := originals[i]
				if p.SessionID() != want.SessionID() || p.Name() != want.Name() {
					t.Errorf("profile %d identity mismatch: %q/%q", i, p.SessionID(), p.Name())
				}
				col := p.Column("price").(*fakeColumn)
				if col.N != 1 || col.Sum != float64(10*(i+1)) {
					t.Errorf("profile %d column state mismatch: n=%d sum=%v", i, col.N, col.Sum)
				}
			}
		})
	}
}

func TestParseDelimitedSingleCursor(t *testing.T) {
	stream, originals := delimitedStream(t, 2)

	first, next, err := ParseDelimitedSingle(stream, 0)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	if first.SessionID() != originals[0].SessionID() {
		t.Errorf("unexpected first profile: %q", first.SessionID())
	}

	second, end, err := ParseDelimitedSingle(stream, next)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if second.SessionID() != originals[1].SessionID() {
		t.Errorf("unexpected second profile: %q", second.SessionID())
	}
	if end != len(stream) {
		t.Errorf("cursor should land at the end of the stream: %d != %d", end, len(stream))
	}
}

func TestParseDelimitedTruncated(t *testing.T) {
	stream, _ := delimitedStream(t, 3)
	truncated := stream[:len(stream)-10]

	profiles, err := ParseDelimited(truncated)
	if !errors.IsType(err, errors.ErrorTypeDecode) {
		t.Fatalf("expected a decode error, got %v", err)
	}
	// The intact prefix still parses.
	if len(profiles) != 2 {
		t.Errorf("expected the 2 intact profiles alongside the error, got %d", len(profiles))
	}
}

func TestParseDelimitedSinglePositionErrors(t *testing.T) {
	stream, _ := delimitedStream(t, 1)

	if _, _, err := ParseDelimitedSingle(stream, -1); !errors.IsType(err, errors.ErrorTypeDecode) {
		t.Errorf("negative position should be a decode error, got %v", err)
	}
	if _, _, err := ParseDelimitedSingle(stream, len(stream)); !errors.IsType(err, errors.ErrorTypeDecode) {
		t.Errorf("past-the-end position should be a decode error, got %v", err)
	}
}
