package profile

import (
	"encoding/binary"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/metrics"
)

// SerializeDelimited serializes the full profile as one wire message
// prefixed with its length as an unsigned varint. Multiple delimited
// profiles can be concatenated in one byte stream and parsed back
// individually with ParseDelimited.
func (p *Profile) SerializeDelimited() ([]byte, error) {
	body, err := p.SerializeWire()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(body)+binary.MaxVarintLen64)
	buf = binary.AppendUvarint(buf, uint64(len(body)))
	return append(buf, body...), nil
}

// ParseDelimitedSingle parses one delimited profile starting at pos and
// returns the profile together with the cursor position after its last
// payload byte.
func ParseDelimitedSingle(data []byte, pos int) (*Profile, int, error) {
	if pos < 0 || pos >= len(data) {
		return nil, pos, errors.New(errors.ErrorTypeDecode, "delimited parse position out of range").
			WithDetail("position", pos).
			WithDetail("length", len(data))
	}

	msgLen, width := binary.Uvarint(data[pos:])
	if width <= 0 {
		return nil, pos, errors.New(errors.ErrorTypeDecode, "malformed length prefix").
			WithDetail("position", pos)
	}
	pos += width

	end := pos + int(msgLen)
	if msgLen > uint64(len(data)) || end > len(data) {
		return nil, pos, errors.New(errors.ErrorTypeDecode, "length prefix exceeds remaining buffer").
			WithDetail("claimed", msgLen).
			WithDetail("remaining", len(data)-pos)
	}

	prof, err := DeserializeWire(data[pos:end])
	if err != nil {
		return nil, pos, err
	}

	metrics.ProfilesParsed.Inc()
	return prof, end, nil
}

// ParseDelimited parses every delimited profile in the buffer, in stream
// order. On a decode error the profiles parsed so far are returned alongside
// the error; the caller decides whether to keep them.
func ParseDelimited(data []byte) ([]*Profile, error) {
	var profiles []*Profile
	pos := 0
	for pos < len(data) {
		prof, next, err := ParseDelimitedSingle(data, pos)
		if err != nil {
			return profiles, err
		}
		profiles = append(profiles, prof)
		pos = next
	}
	return profiles, nil
}
