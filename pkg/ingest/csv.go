package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/logger"
	"github.com/dataprof/dataprof/pkg/metrics"
	"github.com/dataprof/dataprof/pkg/profile"
)

// CSV tracks every record from a CSV reader into the profile. When
// hasHeader is true the first record supplies the column names; otherwise
// positional names are generated. Empty cells are tracked as nulls.
func CSV(p *profile.Profile, r io.Reader, hasHeader bool) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var headers []string
	var rows, values int64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV record").
				WithDetail("row", rows)
		}

		if headers == nil {
			if hasHeader {
				headers = append([]string{}, record...)
				continue
			}
			headers = make([]string, len(record))
			for i := range headers {
				headers[i] = "column_" + strconv.Itoa(i)
			}
		}

		for i, cell := range record {
			name := "column_" + strconv.Itoa(i)
			if i < len(headers) {
				name = headers[i]
			}
			if err := p.Track(name, coerce(cell)); err != nil {
				return err
			}
			values++
		}
		rows++
	}

	metrics.ValuesTracked.WithLabelValues(p.Name()).Add(float64(values))
	logger.Debug("CSV ingested",
		zap.String("dataset", p.Name()),
		zap.Int64("rows", rows),
		zap.Int64("values", values))
	return nil
}

// CSVFile tracks a CSV file into the profile.
func CSVFile(p *profile.Profile, path string, hasHeader bool) error {
	f, err := os.Open(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to open CSV file").
			WithDetail("path", path)
	}
	defer f.Close()
	return CSV(p, f, hasHeader)
}

// CSVProfile builds a fresh profile over a whole CSV file.
func CSVProfile(name string, cfg profile.Config, path string, hasHeader bool) (*profile.Profile, error) {
	p := profile.New(name, cfg)
	if err := CSVFile(p, path, hasHeader); err != nil {
		return nil, err
	}
	return p, nil
}
