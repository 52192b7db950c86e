package profile

// ValueType enumerates the value types a column can observe. The set is
// fixed; the flattener derives its per-type count column names from it.
type ValueType string

const (
	ValueTypeNull       ValueType = "null"
	ValueTypeFractional ValueType = "fractional"
	ValueTypeIntegral   ValueType = "integral"
	ValueTypeBoolean    ValueType = "boolean"
	ValueTypeString     ValueType = "string"
	ValueTypeUnknown    ValueType = "unknown"
)

// ValueTypes lists every ValueType in a fixed order. The order controls the
// ordering of generated per-type count columns in flat summaries.
var ValueTypes = []ValueType{
	ValueTypeNull,
	ValueTypeFractional,
	ValueTypeIntegral,
	ValueTypeBoolean,
	ValueTypeString,
	ValueTypeUnknown,
}

// Counters holds basic value counters for a column.
type Counters struct {
	Count     int64 `json:"count"`
	NullCount int64 `json:"null_count"`
	TrueCount int64 `json:"true_count"`
}

// InferredType is the majority type inferred for a column together with the
// fraction of observed values that support it.
type InferredType struct {
	Type  ValueType `json:"type"`
	Ratio float64   `json:"ratio"`
}

// SchemaSummary describes the observed value types of a column.
type SchemaSummary struct {
	InferredType *InferredType       `json:"inferred_type,omitempty"`
	TypeCounts   map[ValueType]int64 `json:"type_counts,omitempty"`
}

// UniqueCountSummary is a cardinality estimate with error bounds.
type UniqueCountSummary struct {
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// HistogramSummary is a value histogram. Bins holds the bin edges, so
// len(Bins) == len(Counts)+1 when non-empty.
type HistogramSummary struct {
	Bins   []float64 `json:"bins"`
	Counts []int64   `json:"counts"`
}

// QuantileSummary carries estimated values at fixed quantile levels.
type QuantileSummary struct {
	Quantiles      []float64 `json:"quantiles"`
	QuantileValues []float64 `json:"quantile_values"`
}

// FrequentItem is a single heavy-hitter entry.
type FrequentItem struct {
	Value    string `json:"value"`
	Estimate int64  `json:"estimate"`
}

// FrequentItemsSummary lists the most frequent string values of a column.
type FrequentItemsSummary struct {
	Items []FrequentItem `json:"items"`
}

// FrequentNumber is a single frequent numeric value entry.
type FrequentNumber struct {
	Value    float64 `json:"value"`
	Estimate int64   `json:"estimate"`
}

// FrequentNumbersSummary lists the most frequent numeric values of a column.
type FrequentNumbersSummary struct {
	Items []FrequentNumber `json:"items"`
}

// NumberSummary describes the numeric values observed in a column. Absent
// when the column never saw a number.
type NumberSummary struct {
	Count           int64                   `json:"count"`
	Min             float64                 `json:"min"`
	Max             float64                 `json:"max"`
	Mean            float64                 `json:"mean"`
	Stddev          float64                 `json:"stddev"`
	UniqueCount     *UniqueCountSummary     `json:"unique_count,omitempty"`
	Histogram       *HistogramSummary       `json:"histogram,omitempty"`
	Quantiles       *QuantileSummary        `json:"quantiles,omitempty"`
	FrequentNumbers *FrequentNumbersSummary `json:"frequent_numbers,omitempty"`
}

// StringSummary describes the string values observed in a column. Absent
// when the column never saw a string.
type StringSummary struct {
	UniqueCount *UniqueCountSummary   `json:"unique_count,omitempty"`
	Frequent    *FrequentItemsSummary `json:"frequent,omitempty"`
}

// ColumnSummary is the nested summary tree for one column. Sub-summaries
// that do not apply to a column are nil, never zero-valued.
type ColumnSummary struct {
	Counters      *Counters      `json:"counters,omitempty"`
	Schema        *SchemaSummary `json:"schema,omitempty"`
	NumberSummary *NumberSummary `json:"number_summary,omitempty"`
	StringSummary *StringSummary `json:"string_summary,omitempty"`
}

// DatasetSummary is the summary of a whole profile: its identity properties
// plus every column's summary.
type DatasetSummary struct {
	Properties *Properties               `json:"properties"`
	Columns    map[string]*ColumnSummary `json:"columns"`
}
