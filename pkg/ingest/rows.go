// Package ingest provides bulk ingestion adapters that reduce tabular and
// array data to repeated single-value profile tracking: row maps, in-memory
// tables, CSV files, and Arrow records.
package ingest

import (
	"strconv"

	"github.com/dataprof/dataprof/pkg/metrics"
	"github.com/dataprof/dataprof/pkg/profile"
)

// Rows tracks every row map into the profile.
func Rows(p *profile.Profile, rows []map[string]interface{}) error {
	var n int64
	for _, row := range rows {
		if err := p.TrackMap(row); err != nil {
			return err
		}
		n += int64(len(row))
	}
	metrics.ValuesTracked.WithLabelValues(p.Name()).Add(float64(n))
	return nil
}

// Table tracks a column-labeled table of rows. Rows shorter than the label
// list leave trailing columns untracked for that row; labels may be nil, in
// which case positional names are generated.
func Table(p *profile.Profile, columns []string, rows [][]interface{}) error {
	width := len(columns)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	labels := columnLabels(columns, width)

	var n int64
	for _, row := range rows {
		for i, value := range row {
			if err := p.Track(labels[i], value); err != nil {
				return err
			}
			n++
		}
	}
	metrics.ValuesTracked.WithLabelValues(p.Name()).Add(float64(n))
	return nil
}

// TableProfile builds a fresh profile over a whole table.
func TableProfile(name string, cfg profile.Config, columns []string, rows [][]interface{}) (*profile.Profile, error) {
	p := profile.New(name, cfg)
	if err := Table(p, columns, rows); err != nil {
		return nil, err
	}
	return p, nil
}

// columnLabels pads or generates positional column labels up to width.
func columnLabels(columns []string, width int) []string {
	if len(columns) >= width {
		return columns
	}
	labels := make([]string, width)
	copy(labels, columns)
	for i := len(columns); i < width; i++ {
		labels[i] = "column_" + strconv.Itoa(i)
	}
	return labels
}

// coerce maps raw cell text to a tracked value: empty cells are nulls and
// boolean literals become bools. Numeric text is left to the statistics
// engine, which parses it anyway.
func coerce(cell string) interface{} {
	switch cell {
	case "":
		return nil
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return cell
}
