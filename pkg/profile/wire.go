package profile

import (
	"github.com/goccy/go-json"

	"github.com/dataprof/dataprof/pkg/errors"
)

// Properties is the wire form of a profile's identity and metadata: schema
// version pair, session id, epoch-millisecond timestamps (TimestampAbsent
// when unset), tags, and optional metadata.
type Properties struct {
	SchemaMajorVersion int32             `json:"schema_major_version"`
	SchemaMinorVersion int32             `json:"schema_minor_version"`
	SessionID          string            `json:"session_id"`
	SessionTimestamp   int64             `json:"session_timestamp"`
	DataTimestamp      int64             `json:"data_timestamp"`
	Tags               map[string]string `json:"tags"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// Message is the full wire form of a profile: its properties plus every
// column's wire message.
type Message struct {
	Properties *Properties               `json:"properties"`
	Columns    map[string]*ColumnMessage `json:"columns"`
}

// ToWire validates the profile and returns its wire message.
func (p *Profile) ToWire() (*Message, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	columns := make(map[string]*ColumnMessage, len(p.columns))
	for name, col := range p.columns {
		msg, err := col.ToWire()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode column").
				WithDetail("column", name)
		}
		columns[name] = msg
	}

	return &Message{
		Properties: p.Properties(),
		Columns:    columns,
	}, nil
}

// FromWire reconstructs a profile from a wire message using the registered
// column codec. Round-tripping preserves properties, metadata, and every
// column's summary-visible statistics.
func FromWire(msg *Message) (*Profile, error) {
	codec, err := DefaultCodec()
	if err != nil {
		return nil, err
	}
	return FromWireWithCodec(msg, codec)
}

// FromWireWithCodec reconstructs a profile from a wire message with an
// explicit column codec.
func FromWireWithCodec(msg *Message, codec ColumnCodec) (*Profile, error) {
	if msg.Properties == nil {
		return nil, errors.New(errors.ErrorTypeDecode, "wire message has no properties")
	}

	columns := make(map[string]ColumnProfile, len(msg.Columns))
	for name, colMsg := range msg.Columns {
		col, err := codec.FromWire(colMsg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to decode column").
				WithDetail("column", name)
		}
		columns[name] = col
	}

	props := msg.Properties
	tags := make(map[string]string, len(props.Tags))
	for k, v := range props.Tags {
		tags[k] = v
	}
	name := tags[NameTag]
	delete(tags, NameTag)

	return New(name, Config{
		SessionID:        props.SessionID,
		SessionTimestamp: fromUTCMs(props.SessionTimestamp),
		DataTimestamp:    fromUTCMs(props.DataTimestamp),
		Tags:             tags,
		Metadata:         props.Metadata,
		Columns:          columns,
		Codec:            codec,
	}), nil
}

// marshalWire encodes a wire value to deterministic bytes. Map keys are
// sorted by the encoder, so equal profiles yield equal byte streams.
func marshalWire(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to marshal wire message")
	}
	return b, nil
}

// SerializeWire validates the profile and returns its single-message wire
// bytes without any framing.
func (p *Profile) SerializeWire() ([]byte, error) {
	msg, err := p.ToWire()
	if err != nil {
		return nil, err
	}
	return marshalWire(msg)
}

// DeserializeWire decodes single-message wire bytes into a profile.
func DeserializeWire(data []byte) (*Profile, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "malformed profile wire bytes")
	}
	return FromWire(&msg)
}
