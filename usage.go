package jdbcsink

import (
	"maps"
	"slices"
)

// Usage maps each table seen during a traversal to the sorted set of column
// names observed for it so far. Every emitted [Batch] carries its own Usage
// snapshot; a downstream schema-reconciliation step compares successive
// snapshots to detect newly-seen columns.
//
// Snapshots are copies. A snapshot attached to an earlier batch never changes
// when the traversal goes on to observe more columns.
type Usage map[string][]string

// Columns returns the columns observed for table, or nil if the table has
// not been seen.
func (u Usage) Columns(table string) []string { return u[table] }

// usageTracker accumulates the column names observed per table. Append-only;
// nothing is ever removed.
type usageTracker struct {
	tables map[string]map[string]struct{}
}

func newUsageTracker() *usageTracker {
	return &usageTracker{tables: make(map[string]map[string]struct{})}
}

func (t *usageTracker) track(table string, bindings []Binding) {
	cols, ok := t.tables[table]
	if !ok {
		cols = make(map[string]struct{}, len(bindings))
		t.tables[table] = cols
	}
	for _, b := range bindings {
		cols[b.Field] = struct{}{}
	}
}

// snapshot is copy-on-read: each call materializes a fresh Usage so that
// snapshots taken at different emission times can legitimately differ.
func (t *usageTracker) snapshot() Usage {
	u := make(Usage, len(t.tables))
	for table, cols := range t.tables {
		u[table] = slices.Sorted(maps.Keys(cols))
	}
	return u
}
