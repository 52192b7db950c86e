package profile

import (
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/dataprof/dataprof/pkg/errors"
	"github.com/dataprof/dataprof/pkg/logger"
)

// ColumnProfile is the opaque per-column statistics accumulator. The profile
// core never inspects a column's internals; it only tracks values into it,
// merges it with another accumulator from the same engine, and asks for its
// summary and wire forms.
type ColumnProfile interface {
	// Track adds a single value to the column's statistics.
	Track(value interface{})

	// Merge combines this column with another accumulator and returns a new
	// one. Neither operand is mutated. Merging with a freshly created, empty
	// accumulator is the identity operation.
	Merge(other ColumnProfile) (ColumnProfile, error)

	// Summary returns the column's nested statistics summary.
	Summary() *ColumnSummary

	// ToWire returns the column's wire message. The payload is only
	// decodable by the engine that produced it.
	ToWire() (*ColumnMessage, error)
}

// ColumnMessage is the wire form of a single column. The payload encoding is
// owned by the statistics engine; the profile core treats it as opaque bytes.
type ColumnMessage struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// ColumnCodec creates fresh column accumulators and reconstructs them from
// wire messages. Exactly one codec is active at a time; statistics engines
// register themselves at init time.
type ColumnCodec interface {
	// NewColumn returns a fresh, empty accumulator for the named column.
	NewColumn(name string) ColumnProfile

	// FromWire reconstructs an accumulator from its wire message.
	FromWire(msg *ColumnMessage) (ColumnProfile, error)
}

var (
	codecMu      sync.RWMutex
	defaultCodec ColumnCodec
)

// RegisterCodec installs the column codec used by profiles that were not
// given one explicitly and by wire deserialization. The last registration
// wins, which lets tests install lightweight fakes.
func RegisterCodec(codec ColumnCodec) {
	codecMu.Lock()
	defer codecMu.Unlock()
	defaultCodec = codec
	logger.Get().Debug("column codec registered", zap.String("component", "profile"))
}

// DefaultCodec returns the registered column codec, or an error when no
// statistics engine has been registered.
func DefaultCodec() (ColumnCodec, error) {
	codecMu.RLock()
	defer codecMu.RUnlock()
	if defaultCodec == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "no column codec registered")
	}
	return defaultCodec, nil
}
