package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/profile"
	_ "github.com/dataprof/dataprof/pkg/statistics"
)

func newProfile(t *testing.T, name string) *profile.Profile {
	t.Helper()
	return profile.New(name, profile.Config{SessionID: "session-1"})
}

func TestRows(t *testing.T) {
	p := newProfile(t, "orders")
	require.NoError(t, Rows(p, []map[string]interface{}{
		{"price": 10.0, "currency": "USD"},
		{"price": 20.0, "currency": "USD"},
		{"price": 30.0, "currency": "EUR"},
	}))

	summary, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Columns["price"].Counters.Count)
	assert.Equal(t, 20.0, summary.Columns["price"].NumberSummary.Mean)
	assert.Equal(t, 2.0, summary.Columns["currency"].StringSummary.UniqueCount.Estimate)
}

func TestTableWithLabels(t *testing.T) {
	p := newProfile(t, "orders")
	require.NoError(t, Table(p, []string{"price", "qty"}, [][]interface{}{
		{10.0, 1},
		{20.0, 2},
	}))

	assert.ElementsMatch(t, []string{"price", "qty"}, p.ColumnNames())
}

func TestTablePositionalLabels(t *testing.T) {
	p := newProfile(t, "orders")
	require.NoError(t, Table(p, nil, [][]interface{}{
		{10.0, "USD"},
		{20.0, "EUR", true},
	}))

	assert.ElementsMatch(t, []string{"column_0", "column_1", "column_2"}, p.ColumnNames())

	summary, err := p.Summary()
	require.NoError(t, err)
	// The ragged third column only saw the longer row.
	assert.Equal(t, int64(1), summary.Columns["column_2"].Counters.Count)
	assert.Equal(t, int64(2), summary.Columns["column_0"].Counters.Count)
}

func TestTableProfile(t *testing.T) {
	p, err := TableProfile("orders", profile.Config{}, []string{"price"}, [][]interface{}{{10.0}})
	require.NoError(t, err)
	assert.Equal(t, "orders", p.Name())
	assert.Equal(t, []string{"price"}, p.ColumnNames())
}

func TestCoerce(t *testing.T) {
	assert.Nil(t, coerce(""))
	assert.Equal(t, true, coerce("true"))
	assert.Equal(t, true, coerce("TRUE"))
	assert.Equal(t, false, coerce("False"))
	assert.Equal(t, "42", coerce("42"))
	assert.Equal(t, "hello", coerce("hello"))
}

const ordersCSV = `price,currency,returned
10.0,USD,false
20.0,USD,true
30.0,EUR,
`

func TestCSVWithHeader(t *testing.T) {
	p := newProfile(t, "orders")
	require.NoError(t, CSV(p, strings.NewReader(ordersCSV), true))

	summary, err := p.Summary()
	require.NoError(t, err)

	price := summary.Columns["price"]
	assert.Equal(t, int64(3), price.Counters.Count)
	assert.Equal(t, 20.0, price.NumberSummary.Mean)

	returned := summary.Columns["returned"]
	assert.Equal(t, int64(1), returned.Counters.NullCount)
	assert.Equal(t, int64(1), returned.Counters.TrueCount)
}

func TestCSVWithoutHeader(t *testing.T) {
	p := newProfile(t, "orders")
	require.NoError(t, CSV(p, strings.NewReader("10,USD\n20,EUR\n"), false))

	assert.ElementsMatch(t, []string{"column_0", "column_1"}, p.ColumnNames())
}

func TestCSVRaggedRecords(t *testing.T) {
	p := newProfile(t, "orders")
	require.NoError(t, CSV(p, strings.NewReader("a,b\n1,2,3\n4\n"), true))

	summary, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Columns["a"].Counters.Count)
	assert.Equal(t, int64(1), summary.Columns["b"].Counters.Count)
	// Cells beyond the header get positional names.
	assert.Equal(t, int64(1), summary.Columns["column_2"].Counters.Count)
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(ordersCSV), 0o600))

	p, err := CSVProfile("orders", profile.Config{}, path, true)
	require.NoError(t, err)
	assert.Len(t, p.ColumnNames(), 3)
}

func TestCSVFileMissing(t *testing.T) {
	p := newProfile(t, "orders")
	err := CSVFile(p, filepath.Join(t.TempDir(), "absent.csv"), true)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestArrowRecord(t *testing.T) {
	pool := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "price", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "qty", Type: arrow.PrimitiveTypes.Int64},
		{Name: "currency", Type: arrow.BinaryTypes.String},
		{Name: "returned", Type: arrow.FixedWidthTypes.Boolean},
	}, nil)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	b.Field(0).(*array.Float64Builder).AppendValues([]float64{10, 20, 30}, []bool{true, true, false})
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	b.Field(2).(*array.StringBuilder).AppendValues([]string{"USD", "USD", "EUR"}, nil)
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{false, true, false}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	p := newProfile(t, "orders")
	require.NoError(t, ArrowRecord(p, rec))

	summary, err := p.Summary()
	require.NoError(t, err)

	price := summary.Columns["price"]
	assert.Equal(t, int64(3), price.Counters.Count)
	assert.Equal(t, int64(1), price.Counters.NullCount)
	assert.Equal(t, 15.0, price.NumberSummary.Mean)

	qty := summary.Columns["qty"]
	assert.Equal(t, 2.0, qty.NumberSummary.Mean)
	assert.Equal(t, int64(3), qty.Schema.TypeCounts[profile.ValueTypeIntegral])

	assert.Equal(t, 2.0, summary.Columns["currency"].StringSummary.UniqueCount.Estimate)
	assert.Equal(t, int64(1), summary.Columns["returned"].Counters.TrueCount)
}
