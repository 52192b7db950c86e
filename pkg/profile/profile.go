// Package profile implements dataset-level statistics profiles: identity and
// session bookkeeping, merging of independently computed profiles, chunked
// serialization for streaming transport, and summary flattening.
//
// A Profile owns a map from column name to an opaque ColumnProfile
// accumulator supplied by a statistics engine (see pkg/statistics). Values
// are tracked per column without retaining raw data; profiles built over
// disjoint partitions of the same dataset merge into the profile that a
// single pass over the whole dataset would have produced.
//
// A Profile is not safe for concurrent use. Parallel ingestion shards data
// across one Profile per worker and reconciles with Merge.
package profile

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/metrics"
)

// NameTag is the reserved tag key that carries the human-readable profile
// name. It is written and read through the Name accessor; keeping the name
// embedded in the tags map is the wire compatibility contract.
const NameTag = "Name"

// Schema version of the wire format.
const (
	SchemaMajorVersion = 1
	SchemaMinorVersion = 1
)

// TimestampAbsent is the epoch-millisecond sentinel for an absent timestamp
// on the wire.
const TimestampAbsent int64 = -1

// Config carries the optional attributes of a new Profile. The zero value is
// valid: a session id is generated, the session timestamp defaults to the
// current UTC time, maps default to empty, and the registered column codec
// is used.
type Config struct {
	// SessionID identifies the profiling session. Generated when empty.
	SessionID string

	// SessionTimestamp is the instant the profiling session started.
	// Defaults to time.Now in UTC when zero.
	SessionTimestamp time.Time

	// DataTimestamp describes the batch or business date of the data,
	// distinct from the session time. May stay zero (absent).
	DataTimestamp time.Time

	// Tags are identity-bearing labels. Profiles with differing tags never
	// merge.
	Tags map[string]string

	// Metadata is purely descriptive and not part of identity. Merge keeps
	// only the left operand's metadata.
	Metadata map[string]string

	// Columns seeds the column map; used by deserialization and merge.
	Columns map[string]ColumnProfile

	// Codec creates and decodes column accumulators. Defaults to the
	// registered codec.
	Codec ColumnCodec
}

// Profile is a dataset-level aggregate of per-column statistics plus
// identity and metadata. Identity (session id, timestamps, tags) is fixed at
// construction; only Track mutates a Profile, and only its column map.
type Profile struct {
	sessionID        string
	sessionTimestamp time.Time
	dataTimestamp    time.Time
	tags             map[string]string
	metadata         map[string]string
	columns          map[string]ColumnProfile
	codec            ColumnCodec
}

// New creates a profile with the given name and configuration defaults
// applied.
func New(name string, cfg Config) *Profile {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.SessionTimestamp.IsZero() {
		cfg.SessionTimestamp = time.Now().UTC()
	}

	tags := make(map[string]string, len(cfg.Tags)+1)
	maps.Copy(tags, cfg.Tags)
	tags[NameTag] = name

	metadata := make(map[string]string, len(cfg.Metadata))
	maps.Copy(metadata, cfg.Metadata)

	columns := cfg.Columns
	if columns == nil {
		columns = make(map[string]ColumnProfile)
	}

	return &Profile{
		sessionID:        cfg.SessionID,
		sessionTimestamp: cfg.SessionTimestamp,
		dataTimestamp:    cfg.DataTimestamp,
		tags:             tags,
		metadata:         metadata,
		columns:          columns,
		codec:            cfg.Codec,
	}
}

// Name returns the profile name stored under the reserved Name tag.
func (p *Profile) Name() string {
	return p.tags[NameTag]
}

// SessionID returns the session identity of the profile.
func (p *Profile) SessionID() string {
	return p.sessionID
}

// SessionTimestamp returns the timestamp the profiling session started.
func (p *Profile) SessionTimestamp() time.Time {
	return p.sessionTimestamp
}

// DataTimestamp returns the batch timestamp of the data. The zero time means
// absent.
func (p *Profile) DataTimestamp() time.Time {
	return p.dataTimestamp
}

// Tags returns a copy of the profile's tags, including the Name tag.
func (p *Profile) Tags() map[string]string {
	out := make(map[string]string, len(p.tags))
	maps.Copy(out, p.tags)
	return out
}

// Metadata returns a copy of the profile's metadata.
func (p *Profile) Metadata() map[string]string {
	out := make(map[string]string, len(p.metadata))
	maps.Copy(out, p.metadata)
	return out
}

// ColumnNames returns the names of every column ever tracked, in no
// particular order.
func (p *Profile) ColumnNames() []string {
	names := make([]string, 0, len(p.columns))
	for name := range p.columns {
		names = append(names, name)
	}
	return names
}

// Column returns the accumulator for a column, or nil when the column was
// never tracked.
func (p *Profile) Column(name string) ColumnProfile {
	return p.columns[name]
}

// Track adds a value to the statistics of the named column, creating the
// column's accumulator on first use.
func (p *Profile) Track(column string, value interface{}) error {
	col, ok := p.columns[column]
	if !ok {
		codec, err := p.columnCodec()
		if err != nil {
			return err
		}
		col = codec.NewColumn(column)
		p.columns[column] = col
	}
	col.Track(value)
	return nil
}

// TrackMap tracks one value per column from a row-shaped map.
func (p *Profile) TrackMap(values map[string]interface{}) error {
	for column, value := range values {
		if err := p.Track(column, value); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the invariants every profile operation relies on. It
// returns a validation error when a required attribute is absent.
func (p *Profile) Validate() error {
	if p.sessionID == "" {
		return errors.New(errors.ErrorTypeValidation, "profile has no session id")
	}
	if p.sessionTimestamp.IsZero() {
		return errors.New(errors.ErrorTypeValidation, "profile has no session timestamp")
	}
	if p.tags == nil {
		return errors.New(errors.ErrorTypeValidation, "profile has no tags map")
	}
	if _, ok := p.tags[NameTag]; !ok {
		return errors.New(errors.ErrorTypeValidation, "profile has no name tag")
	}
	if p.metadata == nil {
		return errors.New(errors.ErrorTypeValidation, "profile has no metadata map")
	}
	if p.columns == nil {
		return errors.New(errors.ErrorTypeValidation, "profile has no columns map")
	}
	return nil
}

// Properties returns the identity and metadata record of the profile.
func (p *Profile) Properties() *Properties {
	var metadata map[string]string
	if len(p.metadata) > 0 {
		metadata = p.Metadata()
	}

	return &Properties{
		SchemaMajorVersion: SchemaMajorVersion,
		SchemaMinorVersion: SchemaMinorVersion,
		SessionID:          p.sessionID,
		SessionTimestamp:   toUTCMs(p.sessionTimestamp),
		DataTimestamp:      toUTCMs(p.dataTimestamp),
		Tags:               p.Tags(),
		Metadata:           metadata,
	}
}

// Summary validates the profile and returns its full summary: properties
// plus every column's own summary.
func (p *Profile) Summary() (*DatasetSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	columns := make(map[string]*ColumnSummary, len(p.columns))
	for name, col := range p.columns {
		columns[name] = col.Summary()
	}

	return &DatasetSummary{
		Properties: p.Properties(),
		Columns:    columns,
	}, nil
}

// FlatSummary validates the profile and returns its summary flattened into
// tabular views.
func (p *Profile) FlatSummary() (*FlatSummary, error) {
	summary, err := p.Summary()
	if err != nil {
		return nil, err
	}
	return FlattenSummary(summary), nil
}

// Merge combines this profile with another one from the same session and
// returns a new profile; neither operand is mutated.
//
// Both operands must validate, and their session id, session timestamp, data
// timestamp, and full tags map must be exactly equal; any mismatch is a
// precondition error. Columns present on only one side merge against a fresh
// empty accumulator, so the result covers the union of both column sets. The
// result keeps this profile's metadata; the other profile's metadata is
// dropped.
func (p *Profile) Merge(other *Profile) (*Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := other.Validate(); err != nil {
		return nil, err
	}

	if p.sessionID != other.sessionID {
		return nil, errors.New(errors.ErrorTypePrecondition, "session id mismatch").
			WithDetail("left", p.sessionID).
			WithDetail("right", other.sessionID)
	}
	if !p.sessionTimestamp.Equal(other.sessionTimestamp) {
		return nil, errors.New(errors.ErrorTypePrecondition, "session timestamp mismatch")
	}
	if !p.dataTimestamp.Equal(other.dataTimestamp) {
		return nil, errors.New(errors.ErrorTypePrecondition, "data timestamp mismatch")
	}
	if !maps.Equal(p.tags, other.tags) {
		return nil, errors.New(errors.ErrorTypePrecondition, "tags mismatch")
	}

	codec, err := p.columnCodec()
	if err != nil {
		return nil, err
	}

	columns := make(map[string]ColumnProfile, len(p.columns)+len(other.columns))
	for name := range p.columns {
		columns[name] = nil
	}
	for name := range other.columns {
		columns[name] = nil
	}

	for name := range columns {
		left, ok := p.columns[name]
		if !ok {
			left = codec.NewColumn(name)
		}
		right, ok := other.columns[name]
		if !ok {
			right = codec.NewColumn(name)
		}
		merged, err := left.Merge(right)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to merge column").
				WithDetail("column", name)
		}
		columns[name] = merged
	}

	metrics.ProfilesMerged.WithLabelValues(p.Name()).Inc()

	return New(p.Name(), Config{
		SessionID:        p.sessionID,
		SessionTimestamp: p.sessionTimestamp,
		DataTimestamp:    p.dataTimestamp,
		Tags:             p.tagsWithoutName(),
		Metadata:         p.metadata,
		Columns:          columns,
		Codec:            p.codec,
	}), nil
}

// tagsWithoutName returns the tags map minus the reserved Name tag, which
// New re-adds from the name argument.
func (p *Profile) tagsWithoutName() map[string]string {
	out := make(map[string]string, len(p.tags))
	maps.Copy(out, p.tags)
	delete(out, NameTag)
	return out
}

func (p *Profile) columnCodec() (ColumnCodec, error) {
	if p.codec != nil {
		return p.codec, nil
	}
	return DefaultCodec()
}

// toUTCMs converts a timestamp to epoch milliseconds, encoding the zero time
// as the absent sentinel.
func toUTCMs(t time.Time) int64 {
	if t.IsZero() {
		return TimestampAbsent
	}
	return t.UTC().UnixMilli()
}

// fromUTCMs converts epoch milliseconds back to a UTC timestamp, decoding
// the absent sentinel as the zero time.
func fromUTCMs(ms int64) time.Time {
	if ms == TimestampAbsent {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
