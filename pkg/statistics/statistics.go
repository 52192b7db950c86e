// Package statistics implements the per-column statistics engine behind
// profile.ColumnProfile: value counters, type tracking with inference,
// numeric moments with histogram and quantile estimates, cardinality
// sketches, and frequent-item tracking. All trackers are mergeable without
// retaining raw data, so column profiles built over disjoint partitions
// combine into the profile a single pass would have produced.
package statistics

import (
	"strconv"

	"github.com/goccy/go-json"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/profile"
)

// Column accumulates statistics for a single column. It implements
// profile.ColumnProfile. A Column is not safe for concurrent use.
type Column struct {
	name     string
	counters counters
	schema   schemaTracker
	numbers  numberTracker
	strings  stringTracker
}

// NewColumn returns an empty accumulator for the named column.
func NewColumn(name string) *Column {
	return &Column{
		name:    name,
		schema:  newSchemaTracker(),
		numbers: newNumberTracker(),
		strings: newStringTracker(),
	}
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.name
}

// Track adds one value to the column's statistics. Strings that parse as
// numbers are tracked as numbers, matching how loosely typed tabular
// sources deliver numeric data.
func (c *Column) Track(value interface{}) {
	c.counters.Count++

	switch v := value.(type) {
	case nil:
		c.counters.NullCount++
		c.schema.track(profile.ValueTypeNull)
	case bool:
		if v {
			c.counters.TrueCount++
		}
		c.schema.track(profile.ValueTypeBoolean)
	case float64:
		c.trackNumber(v, profile.ValueTypeFractional)
	case float32:
		c.trackNumber(float64(v), profile.ValueTypeFractional)
	case int:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case int8:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case int16:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case int32:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case int64:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case uint:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case uint8:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case uint16:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case uint32:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case uint64:
		c.trackNumber(float64(v), profile.ValueTypeIntegral)
	case string:
		c.trackString(v)
	default:
		c.schema.track(profile.ValueTypeUnknown)
	}
}

func (c *Column) trackNumber(v float64, t profile.ValueType) {
	c.schema.track(t)
	c.numbers.track(v)
}

func (c *Column) trackString(v string) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		c.trackNumber(float64(n), profile.ValueTypeIntegral)
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		c.trackNumber(f, profile.ValueTypeFractional)
		return
	}
	c.schema.track(profile.ValueTypeString)
	c.strings.track(v)
}

// Merge combines this column with another statistics.Column and returns a
// new accumulator. Neither operand is mutated.
func (c *Column) Merge(other profile.ColumnProfile) (profile.ColumnProfile, error) {
	o, ok := other.(*Column)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData,
			"cannot merge column %q with a foreign accumulator type", c.name)
	}

	merged := NewColumn(c.name)
	merged.counters = c.counters.merge(o.counters)
	merged.schema = c.schema.merge(o.schema)
	merged.numbers = c.numbers.merge(o.numbers)
	merged.strings = c.strings.merge(o.strings)
	return merged, nil
}

// Summary returns the column's nested summary tree. Sub-summaries without
// observations are omitted.
func (c *Column) Summary() *profile.ColumnSummary {
	summary := &profile.ColumnSummary{
		Counters: &profile.Counters{
			Count:     c.counters.Count,
			NullCount: c.counters.NullCount,
			TrueCount: c.counters.TrueCount,
		},
		Schema: c.schema.summary(),
	}
	if c.numbers.Count > 0 {
		summary.NumberSummary = c.numbers.summary()
	}
	if c.strings.observed() {
		summary.StringSummary = c.strings.summary()
	}
	return summary
}

// counters holds the basic value counts of a column.
type counters struct {
	Count     int64 `json:"count"`
	NullCount int64 `json:"null_count"`
	TrueCount int64 `json:"true_count"`
}

func (a counters) merge(b counters) counters {
	return counters{
		Count:     a.Count + b.Count,
		NullCount: a.NullCount + b.NullCount,
		TrueCount: a.TrueCount + b.TrueCount,
	}
}

// columnState is the serialized form of a Column; it is the opaque payload
// of the column wire message.
type columnState struct {
	Name     string           `json:"name"`
	Counters counters         `json:"counters"`
	Types    map[string]int64 `json:"types,omitempty"`
	Numbers  *numberTracker   `json:"numbers,omitempty"`
	Strings  *stringTracker   `json:"strings,omitempty"`
}

// ToWire encodes the column's full tracker state.
func (c *Column) ToWire() (*profile.ColumnMessage, error) {
	state := columnState{
		Name:     c.name,
		Counters: c.counters,
		Types:    c.schema.state(),
	}
	if c.numbers.Count > 0 {
		state.Numbers = &c.numbers
	}
	if c.strings.observed() {
		state.Strings = &c.strings
	}

	payload, err := json.Marshal(&state)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode column state").
			WithDetail("column", c.name)
	}

	return &profile.ColumnMessage{Name: c.name, Payload: payload}, nil
}

// Codec implements profile.ColumnCodec for this statistics engine. It is
// registered as the default codec at init time; importing this package is
// enough to make profiles usable:
//
//	import _ "github.com/dataprof/dataprof/pkg/statistics"
type Codec struct{}

// NewColumn returns a fresh accumulator.
func (Codec) NewColumn(name string) profile.ColumnProfile {
	return NewColumn(name)
}

// FromWire reconstructs a column from its wire message.
func (Codec) FromWire(msg *profile.ColumnMessage) (profile.ColumnProfile, error) {
	var state columnState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "malformed column payload").
			WithDetail("column", msg.Name)
	}

	name := state.Name
	if name == "" {
		name = msg.Name
	}

	col := NewColumn(name)
	col.counters = state.Counters
	col.schema = schemaTrackerFromState(state.Types)
	if state.Numbers != nil {
		col.numbers = *state.Numbers
		col.numbers.normalize()
	}
	if state.Strings != nil {
		col.strings = *state.Strings
		col.strings.normalize()
	}
	return col, nil
}

func init() {
	profile.RegisterCodec(Codec{})
}
