package jdbcsink

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// Grouper holds the traversal-independent configuration: the origin mappings,
// the batch size cap, and the skip monitor. One Grouper can start any number
// of traversals; each traversal gets its own [Iterator] with private state.
type Grouper struct {
	mappings map[string]Mapping
	maxBatch int
	monitor  Monitor
}

// New creates a Grouper. mappings pairs each origin with its extractor and
// statement builder; origin lookup is case-insensitive. maxBatchSize caps the
// number of rows per emitted batch.
//
// New fails on a non-positive maxBatchSize, an empty or nil mappings, or a
// mapping missing either collaborator.
func New(mappings map[string]Mapping, maxBatchSize int) (*Grouper, error) {
	if maxBatchSize <= 0 {
		return nil, fmt.Errorf("jdbcsink: max batch size must be a positive integer, got %d", maxBatchSize)
	}
	if len(mappings) == 0 {
		return nil, errors.New("jdbcsink: at least one origin mapping is required")
	}

	lowered := make(map[string]Mapping, len(mappings))
	for origin, m := range mappings {
		if m.Extractor == nil || m.Builder == nil {
			return nil, fmt.Errorf("jdbcsink: mapping for origin %q needs both an extractor and a statement builder", origin)
		}
		lowered[strings.ToLower(origin)] = m
	}

	return &Grouper{
		mappings: lowered,
		maxBatch: maxBatchSize,
		monitor:  LogMonitor(slog.Default()),
	}, nil
}

// WithMonitor replaces the default slog-backed skip monitor.
func (g *Grouper) WithMonitor(m Monitor) *Grouper {
	if m != nil {
		g.monitor = m
	}
	return g
}

// Batch is one emitted group: the frozen statement template, the ordered rows
// of bindings that share it, and a snapshot of the column usage observed up
// to the moment of emission.
type Batch struct {
	Statement string
	Rows      [][]Binding
	Usage     Usage
}

// Iterator regroups one finite stream of records into batches. It is lazy:
// records are pulled from the source only when Next needs them, partially
// filled groups are buffered, a group is emitted as soon as it reaches the
// configured maximum size, and remaining partial groups are drained once the
// source is exhausted.
//
// An Iterator is strictly single-consumer and single-traversal: it assumes
// exclusive access to its source and none of its state outlives the
// traversal. Start a fresh one per input.
type Iterator struct {
	g     *Grouper
	next  func() (Record, bool)
	stop  func()
	done  bool
	ahead *Record

	groups *groupStore
	usage  *usageTracker
	stats  *Stats
	err    error
}

// Iterate starts a traversal over src. The sequence is pulled lazily, one
// record at a time.
func (g *Grouper) Iterate(src iter.Seq[Record]) *Iterator {
	next, stop := iter.Pull(src)
	return &Iterator{
		g:      g,
		next:   next,
		stop:   stop,
		groups: newGroupStore(),
		usage:  newUsageTracker(),
		stats:  &Stats{},
	}
}

// IterateSlice starts a traversal over records.
func (g *Grouper) IterateSlice(records []Record) *Iterator {
	return g.Iterate(slices.Values(records))
}

// Stats returns the traversal counters. Safe to read at any time.
func (it *Iterator) Stats() *Stats { return it.stats }

// HasNext reports whether the iterator can still produce a batch: a record
// is pending in the source or a buffered group remains. Once HasNext returns
// false, every Next call returns ErrExhausted.
func (it *Iterator) HasNext() bool {
	return it.peek() || it.groups.len() > 0
}

// Next returns the next batch.
//
// A group already at the maximum size is emitted before anything else, so a
// backlog left by a previous call surfaces without touching the source.
// Otherwise records are pulled and routed into groups until one fills up or
// the source runs dry, then the filled group (or, in drain mode, the oldest
// partial one) is emitted.
//
// Next returns [ErrExhausted] when nothing remains, and a fatal error on a
// malformed payload; fatal errors are sticky and abort the traversal.
func (it *Iterator) Next() (*Batch, error) {
	if it.err != nil {
		return nil, it.err
	}

	if it.groups.len() == 0 && !it.peek() {
		return nil, ErrExhausted
	}

	if key, ok := it.groups.keyAtSize(it.g.maxBatch); ok {
		return it.emit(key), nil
	}

	// No full group buffered and the source is exhausted: drain.
	if !it.peek() {
		return it.emit(it.groups.first()), nil
	}

	for it.peek() {
		rec := it.pull()
		it.stats.incPulled()

		payload, ok := rec.Payload.(map[string]any)
		if !ok || payload == nil {
			err := &MalformedPayloadError{Origin: rec.Origin, Partition: rec.Partition, Offset: rec.Offset}
			it.fail(err)
			return nil, err
		}

		m, mapped := it.g.mappings[strings.ToLower(rec.Origin)]
		if !mapped {
			it.stats.incSkippedOrigin()
			it.g.monitor.OnSkip(SkipEvent{Reason: SkipUnmappedOrigin, Origin: rec.Origin, Partition: rec.Partition, Offset: rec.Offset})
			continue
		}

		bindings := m.Extractor.Extract(payload, rec)
		if len(bindings) == 0 {
			it.stats.incSkippedEmpty()
			it.g.monitor.OnSkip(SkipEvent{Reason: SkipEmptyRow, Origin: rec.Origin, Partition: rec.Partition, Offset: rec.Offset})
			continue
		}

		table := m.Extractor.Table()
		it.usage.track(table, bindings)

		grp := it.groups.ensure(groupKey(table, bindings), func() string {
			nonKey, key := partitionColumns(bindings)
			return m.Builder.Build(table, nonKey, key)
		})
		grp.rows = append(grp.rows, bindings)
		it.stats.incGrouped()

		// Full batch: stop pulling, the group is emitted below.
		if len(grp.rows) == it.g.maxBatch {
			break
		}
	}

	// Every pulled record may have been skipped.
	if it.groups.len() == 0 {
		return nil, ErrExhausted
	}

	if key, ok := it.groups.keyAtSize(it.g.maxBatch); ok {
		return it.emit(key), nil
	}
	return it.emit(it.groups.first()), nil
}

// Remove is not supported: the source cannot be mutated mid-traversal.
// Calling it is a programmer error.
func (it *Iterator) Remove() {
	panic("jdbcsink: records cannot be removed during a traversal")
}

// Batches returns the remaining batches as a sequence. ErrExhausted never
// reaches the yield function; it simply ends the sequence. A fatal error is
// yielded once with a nil batch, then the sequence ends.
func (it *Iterator) Batches() iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		for {
			b, err := it.Next()
			if errors.Is(err, ErrExhausted) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

// peek makes sure one record is buffered ahead, reporting whether the source
// still has one.
func (it *Iterator) peek() bool {
	if it.ahead != nil {
		return true
	}
	if it.done {
		return false
	}
	rec, ok := it.next()
	if !ok {
		it.done = true
		it.stop()
		return false
	}
	it.ahead = &rec
	return true
}

func (it *Iterator) pull() Record {
	rec := *it.ahead
	it.ahead = nil
	return rec
}

func (it *Iterator) emit(key string) *Batch {
	grp := it.groups.remove(key)
	it.stats.incBatchesEmitted()
	return &Batch{Statement: grp.statement, Rows: grp.rows, Usage: it.usage.snapshot()}
}

func (it *Iterator) fail(err error) {
	it.err = err
	it.done = true
	it.ahead = nil
	it.stop()
}
