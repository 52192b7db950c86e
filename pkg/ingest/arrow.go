package ingest

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/dataprof/dataprof/pkg/metrics"
	"github.com/dataprof/dataprof/pkg/profile"
)

// ArrowRecord tracks every column of an Arrow record batch into the
// profile. Null slots are tracked as nulls; unsupported array types fall
// back to their string representation.
func ArrowRecord(p *profile.Profile, rec arrow.Record) error {
	schema := rec.Schema()
	var values int64

	for i := 0; i < int(rec.NumCols()); i++ {
		name := schema.Field(i).Name
		col := rec.Column(i)

		for row := 0; row < col.Len(); row++ {
			if err := p.Track(name, arrowValue(col, row)); err != nil {
				return err
			}
			values++
		}
	}

	metrics.ValuesTracked.WithLabelValues(p.Name()).Add(float64(values))
	return nil
}

// arrowValue extracts one slot from an Arrow array as a tracked value.
func arrowValue(col arrow.Array, row int) interface{} {
	if col.IsNull(row) {
		return nil
	}

	switch arr := col.(type) {
	case *array.Boolean:
		return arr.Value(row)
	case *array.Int8:
		return arr.Value(row)
	case *array.Int16:
		return arr.Value(row)
	case *array.Int32:
		return arr.Value(row)
	case *array.Int64:
		return arr.Value(row)
	case *array.Uint8:
		return arr.Value(row)
	case *array.Uint16:
		return arr.Value(row)
	case *array.Uint32:
		return arr.Value(row)
	case *array.Uint64:
		return arr.Value(row)
	case *array.Float32:
		return arr.Value(row)
	case *array.Float64:
		return arr.Value(row)
	case *array.String:
		return arr.Value(row)
	case *array.LargeString:
		return arr.Value(row)
	default:
		return col.ValueStr(row)
	}
}
