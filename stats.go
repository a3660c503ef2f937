package jdbcsink

import (
	"log/slog"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// Stats counts what one traversal did with its input.
// Counter fields use atomic operations so batch executor workers can read
// them while the puller goroutine advances the iterator.
type Stats struct {
	pulled         atomic.Int64
	skippedOrigin  atomic.Int64
	skippedEmpty   atomic.Int64
	grouped        atomic.Int64
	batchesEmitted atomic.Int64
}

// Pulled returns the number of records pulled from the source.
func (s *Stats) Pulled() int64 { return s.pulled.Load() }

// SkippedOrigin returns the number of records dropped for having no mapped
// origin.
func (s *Stats) SkippedOrigin() int64 { return s.skippedOrigin.Load() }

// SkippedEmpty returns the number of records whose extraction yielded no
// bindings.
func (s *Stats) SkippedEmpty() int64 { return s.skippedEmpty.Load() }

// Grouped returns the number of rows appended to groups.
func (s *Stats) Grouped() int64 { return s.grouped.Load() }

// BatchesEmitted returns the number of batches returned by Next.
func (s *Stats) BatchesEmitted() int64 { return s.batchesEmitted.Load() }

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("pulled", s.Pulled()),
		slog.Int64("skipped_origin", s.SkippedOrigin()),
		slog.Int64("skipped_empty", s.SkippedEmpty()),
		slog.Int64("grouped", s.Grouped()),
		slog.Int64("batches_emitted", s.BatchesEmitted()),
	)
}

// statsJSON is the JSON representation for marshaling/unmarshaling Stats.
type statsJSON struct {
	Pulled         int64 `json:"pulled"`
	SkippedOrigin  int64 `json:"skipped_origin"`
	SkippedEmpty   int64 `json:"skipped_empty"`
	Grouped        int64 `json:"grouped"`
	BatchesEmitted int64 `json:"batches_emitted"`
}

// MarshalJSON implements json.Marshaler for Stats serialization.
func (s *Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		Pulled:         s.pulled.Load(),
		SkippedOrigin:  s.skippedOrigin.Load(),
		SkippedEmpty:   s.skippedEmpty.Load(),
		Grouped:        s.grouped.Load(),
		BatchesEmitted: s.batchesEmitted.Load(),
	})
}

// UnmarshalJSON implements json.Unmarshaler for Stats deserialization.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var v statsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.pulled.Store(v.Pulled)
	s.skippedOrigin.Store(v.SkippedOrigin)
	s.skippedEmpty.Store(v.SkippedEmpty)
	s.grouped.Store(v.Grouped)
	s.batchesEmitted.Store(v.BatchesEmitted)
	return nil
}

func (s *Stats) incPulled() int64         { return s.pulled.Add(1) }
func (s *Stats) incSkippedOrigin() int64  { return s.skippedOrigin.Add(1) }
func (s *Stats) incSkippedEmpty() int64   { return s.skippedEmpty.Add(1) }
func (s *Stats) incGrouped() int64        { return s.grouped.Add(1) }
func (s *Stats) incBatchesEmitted() int64 { return s.batchesEmitted.Add(1) }
