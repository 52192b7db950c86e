// Package store persists profiles as delimited streams: each profile is
// length-prefixed (see profile.SerializeDelimited) and appended to one byte
// stream, optionally compressed. A store file written on one machine is
// readable by any conformant implementation of the delimited protocol.
package store

import (
	"compress/gzip"
	"io"
	"os"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.uber.org/zap"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/logger"
	"github.com/dataprof/dataprof/pkg/metrics"
	"github.com/dataprof/dataprof/pkg/profile"
)

// Compression selects the codec applied to a profile stream.
type Compression string

const (
	// None stores the stream uncompressed
	None Compression = "none"
	// Gzip compresses with gzip
	Gzip Compression = "gzip"
	// Snappy compresses with snappy
	Snappy Compression = "snappy"
	// S2 compresses with s2, snappy's faster successor
	S2 Compression = "s2"
	// Zstd compresses with zstandard
	Zstd Compression = "zstd"
	// LZ4 compresses with lz4
	LZ4 Compression = "lz4"
)

// ParseCompression parses a codec name; the empty string means None.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case "", None:
		return None, nil
	case Gzip, Snappy, S2, Zstd, LZ4:
		return Compression(name), nil
	default:
		return None, errors.Newf(errors.ErrorTypeConfig, "unknown compression codec %q", name)
	}
}

// Writer appends delimited profiles to an underlying stream through a
// compression codec. Close flushes the codec but does not close the
// underlying writer.
type Writer struct {
	compression Compression
	out         io.Writer
	closer      io.Closer
}

// NewWriter wraps w with the chosen compression codec.
func NewWriter(w io.Writer, compression Compression) (*Writer, error) {
	sw := &Writer{compression: compression}
	switch compression {
	case None:
		sw.out = w
	case Gzip:
		gw := gzip.NewWriter(w)
		sw.out, sw.closer = gw, gw
	case Snappy:
		snw := snappy.NewBufferedWriter(w)
		sw.out, sw.closer = snw, snw
	case S2:
		s2w := s2.NewWriter(w)
		sw.out, sw.closer = s2w, s2w
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create zstd writer")
		}
		sw.out, sw.closer = zw, zw
	case LZ4:
		lw := lz4.NewWriter(w)
		sw.out, sw.closer = lw, lw
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown compression codec %q", compression)
	}
	return sw, nil
}

// Append serializes one profile in delimited form and writes it to the
// stream.
func (w *Writer) Append(p *profile.Profile) error {
	data, err := p.SerializeDelimited()
	if err != nil {
		return err
	}
	if _, err := w.out.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write profile")
	}
	metrics.StoreBytesWritten.WithLabelValues(string(w.compression)).Add(float64(len(data)))
	return nil
}

// Close flushes the compression codec.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	if err := w.closer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close compressed stream")
	}
	return nil
}

// ReadAll decodes every profile from a (possibly compressed) delimited
// stream, in stream order.
func ReadAll(r io.Reader, compression Compression) ([]*profile.Profile, error) {
	var src io.Reader
	switch compression {
	case None:
		src = r
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to open gzip stream")
		}
		defer gr.Close()
		src = gr
	case Snappy:
		src = snappy.NewReader(r)
	case S2:
		src = s2.NewReader(r)
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to open zstd stream")
		}
		defer zr.Close()
		src = zr
	case LZ4:
		src = lz4.NewReader(r)
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown compression codec %q", compression)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to read profile stream")
	}
	return profile.ParseDelimited(data)
}

// WriteFile writes profiles to a new store file, replacing any existing
// content.
func WriteFile(path string, compression Compression, profiles ...*profile.Profile) error {
	f, err := os.Create(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create store file")
	}

	w, err := NewWriter(f, compression)
	if err != nil {
		f.Close()
		return err
	}
	for _, p := range profiles {
		if err := w.Append(p); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close store file")
	}

	logger.Debug("profile store written",
		zap.String("path", path),
		zap.String("compression", string(compression)),
		zap.Int("profiles", len(profiles)))
	return nil
}

// ReadFile reads every profile from a store file.
func ReadFile(path string, compression Compression) ([]*profile.Profile, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open store file")
	}
	defer f.Close()
	return ReadAll(f, compression)
}
