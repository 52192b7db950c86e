package profile

import (
	"fmt"
	"sort"
)

// FlatSummary holds the flattened views of a dataset summary: a scalar table
// with one row per column, and per-column histogram and frequent-item maps.
type FlatSummary struct {
	// Summary has one row per column, keyed by the fixed scalar column
	// names. Every row carries the column name under "column".
	Summary []map[string]interface{}

	// Histograms maps column name to its value histogram. Columns with at
	// most one histogram bin are skipped.
	Histograms map[string]*HistogramSummary

	// FrequentStrings maps column name to frequent string value counts.
	FrequentStrings map[string]map[string]int64

	// FrequentNumbers maps column name to frequent numeric value counts.
	FrequentNumbers map[string]map[float64]int64
}

// Fixed mapping from the nested summary tree to flat scalar column names.
// The per-type count columns are derived from ValueTypes; quantile columns
// are named by their formatted level.
const (
	colColumn             = "column"
	colCount              = "count"
	colNullCount          = "null_count"
	colBoolCount          = "bool_count"
	colNumericCount       = "numeric_count"
	colMax                = "max"
	colMean               = "mean"
	colMin                = "min"
	colStddev             = "stddev"
	colNuniqueNumbers     = "nunique_numbers"
	colNuniqueNumbersLow  = "nunique_numbers_lower"
	colNuniqueNumbersHigh = "nunique_numbers_upper"
	colInferredDtype      = "inferred_dtype"
	colDtypeFraction      = "dtype_fraction"
	colNuniqueStr         = "nunique_str"
	colNuniqueStrLow      = "nunique_str_lower"
	colNuniqueStrHigh     = "nunique_str_upper"
)

// TypeCountColumn returns the scalar column name holding the observed count
// of one value type.
func TypeCountColumn(t ValueType) string {
	return "type_" + string(t) + "_count"
}

// QuantileColumn returns the scalar column name for a quantile level.
func QuantileColumn(q float64) string {
	return fmt.Sprintf("quantile_%.4f", q)
}

// FlattenSummary flattens a dataset summary into its tabular views. The
// input is never mutated. Columns lacking a sub-summary simply do not
// contribute to the views derived from it.
func FlattenSummary(summary *DatasetSummary) *FlatSummary {
	return &FlatSummary{
		Summary:         ScalarTable(summary),
		Histograms:      FlattenHistograms(summary),
		FrequentStrings: FlattenFrequentStrings(summary),
		FrequentNumbers: FlattenFrequentNumbers(summary),
	}
}

// ScalarTable flattens the scalar statistics of every column into one row
// per column, ordered by column name.
func ScalarTable(summary *DatasetSummary) []map[string]interface{} {
	names := make([]string, 0, len(summary.Columns))
	for name := range summary.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	quantiles := FlattenQuantiles(summary)

	rows := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		col := summary.Columns[name]
		row := map[string]interface{}{colColumn: name}

		if c := col.Counters; c != nil {
			row[colCount] = c.Count
			row[colNullCount] = c.NullCount
			row[colBoolCount] = c.TrueCount
		}

		if ns := col.NumberSummary; ns != nil {
			row[colNumericCount] = ns.Count
			row[colMax] = ns.Max
			row[colMean] = ns.Mean
			row[colMin] = ns.Min
			row[colStddev] = ns.Stddev
			if uc := ns.UniqueCount; uc != nil {
				row[colNuniqueNumbers] = uc.Estimate
				row[colNuniqueNumbersLow] = uc.Lower
				row[colNuniqueNumbersHigh] = uc.Upper
			}
		}

		if sc := col.Schema; sc != nil {
			if it := sc.InferredType; it != nil {
				row[colInferredDtype] = string(it.Type)
				row[colDtypeFraction] = it.Ratio
			}
			for _, t := range ValueTypes {
				if n, ok := sc.TypeCounts[t]; ok {
					row[TypeCountColumn(t)] = n
				}
			}
		}

		if ss := col.StringSummary; ss != nil {
			if uc := ss.UniqueCount; uc != nil {
				row[colNuniqueStr] = uc.Estimate
				row[colNuniqueStrLow] = uc.Lower
				row[colNuniqueStrHigh] = uc.Upper
			}
		}

		for q, v := range quantiles[name] {
			row[q] = v
		}

		rows = append(rows, row)
	}

	return rows
}

// FlattenQuantiles maps column name to quantile-column values for every
// column with a quantile summary.
func FlattenQuantiles(summary *DatasetSummary) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for name, col := range summary.Columns {
		ns := col.NumberSummary
		if ns == nil || ns.Quantiles == nil {
			continue
		}
		q := ns.Quantiles
		if len(q.Quantiles) == 0 || len(q.Quantiles) != len(q.QuantileValues) {
			continue
		}
		values := make(map[string]float64, len(q.Quantiles))
		for i, level := range q.Quantiles {
			values[QuantileColumn(level)] = q.QuantileValues[i]
		}
		out[name] = values
	}
	return out
}

// FlattenHistograms maps column name to histogram for every column whose
// histogram has more than one bin.
func FlattenHistograms(summary *DatasetSummary) map[string]*HistogramSummary {
	out := make(map[string]*HistogramSummary)
	for name, col := range summary.Columns {
		ns := col.NumberSummary
		if ns == nil || ns.Histogram == nil {
			continue
		}
		if len(ns.Histogram.Counts) > 1 {
			out[name] = ns.Histogram
		}
	}
	return out
}

// FlattenFrequentStrings maps column name to frequent string value counts.
func FlattenFrequentStrings(summary *DatasetSummary) map[string]map[string]int64 {
	out := make(map[string]map[string]int64)
	for name, col := range summary.Columns {
		ss := col.StringSummary
		if ss == nil || ss.Frequent == nil || len(ss.Frequent.Items) == 0 {
			continue
		}
		items := make(map[string]int64, len(ss.Frequent.Items))
		for _, item := range ss.Frequent.Items {
			items[item.Value] = item.Estimate
		}
		out[name] = items
	}
	return out
}

// FlattenFrequentNumbers maps column name to frequent numeric value counts.
func FlattenFrequentNumbers(summary *DatasetSummary) map[string]map[float64]int64 {
	out := make(map[string]map[float64]int64)
	for name, col := range summary.Columns {
		ns := col.NumberSummary
		if ns == nil || ns.FrequentNumbers == nil || len(ns.FrequentNumbers.Items) == 0 {
			continue
		}
		items := make(map[float64]int64, len(ns.FrequentNumbers.Items))
		for _, item := range ns.FrequentNumbers.Items {
			items[item.Value] = item.Estimate
		}
		out[name] = items
	}
	return out
}
