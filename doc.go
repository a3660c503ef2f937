// Package jdbcsink regroups an unordered stream of sink records into ordered
// batches that can each be executed as one parameterized bulk statement.
//
// Records arrive tagged with an origin (e.g., a topic name) and carry a field
// map payload. Rows can only share a statement when they target the same
// table with the same columns in the same order, so the package groups rows
// by (table, ordered non-key columns, ordered key columns), buffers
// partially-filled groups, emits a group the moment it reaches the configured
// maximum size, and drains the leftovers once the source runs dry. Each
// emitted batch also carries a snapshot of every column seen so far per
// table, which downstream schema reconciliation uses to spot new columns.
//
// # Quick Start
//
// Configure one [Mapping] per origin and a batch size cap:
//
//	grouper, err := jdbcsink.New(map[string]jdbcsink.Mapping{
//	    "orders": {
//	        Extractor: jdbcsink.NewFieldExtractor("orders", []string{"id"}),
//	        Builder:   jdbcsink.UpsertBuilder{Placeholder: jdbcsink.PlaceholderDollar},
//	    },
//	}, 500)
//	if err != nil {
//	    return err
//	}
//
// Then traverse a record collection. Each traversal gets a fresh iterator:
//
//	it := grouper.IterateSlice(records)
//	for batch, err := range it.Batches() {
//	    if err != nil {
//	        return err // malformed payload, traversal aborted
//	    }
//	    // batch.Statement, batch.Rows, batch.Usage
//	}
//
// Or pull explicitly with HasNext/Next; Next returns [ErrExhausted] at the
// normal end of the sequence:
//
//	for it.HasNext() {
//	    batch, err := it.Next()
//	    if errors.Is(err, jdbcsink.ErrExhausted) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // execute batch
//	}
//
// # Failure Semantics
//
// A payload that is missing or not a field map is fatal: Next returns a
// [*MalformedPayloadError] identifying origin, partition, and offset, and the
// traversal is over. A record whose origin has no mapping is skipped with a
// warning; a record whose extractor yields no bindings is skipped silently.
// Skips are observable through an injected [Monitor]:
//
//	grouper.WithMonitor(jdbcsink.MonitorFunc(func(ev jdbcsink.SkipEvent) {
//	    metrics.Skips.WithLabelValues(string(ev.Reason)).Inc()
//	}))
//
// # Executing Batches
//
// When to flush is the caller's call: the iterator only ever buffers one
// capped batch per distinct group. For the common case of draining a whole
// traversal against a store, [Run] pulls batches on one goroutine and fans
// them out to a pool of [Executor] workers:
//
//	err := jdbcsink.Run(ctx, it, jdbcsink.ExecutorFunc(execBatch), 4)
//
// Everything else (connections, transactions, retries, schema changes) is
// out of scope and belongs to the Executor.
package jdbcsink
