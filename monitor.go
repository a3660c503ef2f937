package jdbcsink

import "log/slog"

// SkipReason classifies why a record was dropped without aborting the
// traversal.
type SkipReason string

const (
	// SkipUnmappedOrigin: the record's origin has no configured mapping.
	SkipUnmappedOrigin SkipReason = "unmapped origin"
	// SkipEmptyRow: the extractor produced no bindings for the record.
	SkipEmptyRow SkipReason = "empty row"
)

// SkipEvent describes one skipped record.
type SkipEvent struct {
	Reason    SkipReason
	Origin    string
	Partition int32
	Offset    int64
}

// Monitor receives diagnostic events for records the iterator drops.
// Skips never surface as errors from Next, so a Monitor is the only way to
// observe them; inject one with [Grouper.WithMonitor] when tests or metrics
// need to assert on skipped records.
type Monitor interface {
	OnSkip(ev SkipEvent)
}

// MonitorFunc adapts a plain function to the [Monitor] interface.
type MonitorFunc func(ev SkipEvent)

func (f MonitorFunc) OnSkip(ev SkipEvent) { f(ev) }

// LogMonitor returns a Monitor that reports skips through logger: unmapped
// origins at Warn, empty extraction results at Debug (the latter are a
// normal extractor outcome, not a problem).
//
// LogMonitor(slog.Default()) is the monitor every Grouper starts with.
func LogMonitor(logger *slog.Logger) Monitor {
	return MonitorFunc(func(ev SkipEvent) {
		attrs := []any{
			slog.String("origin", ev.Origin),
			slog.Int("partition", int(ev.Partition)),
			slog.Int64("offset", ev.Offset),
		}
		switch ev.Reason {
		case SkipUnmappedOrigin:
			logger.Warn("no mapping for origin, skipping record", attrs...)
		default:
			logger.Debug("extractor produced no bindings, skipping record", attrs...)
		}
	})
}
