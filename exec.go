package jdbcsink

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Executor issues one emitted batch against the store. Implementations
// typically prepare Batch.Statement and bind each row of Batch.Rows.
type Executor interface {
	ExecBatch(ctx context.Context, batch *Batch) error
}

// ExecutorFunc adapts a plain function to the [Executor] interface.
type ExecutorFunc func(ctx context.Context, batch *Batch) error

func (f ExecutorFunc) ExecBatch(ctx context.Context, batch *Batch) error {
	return f(ctx, batch)
}

// Run drains the iterator and hands every batch to exec, fanning batches out
// to workers concurrent executions. A single puller goroutine advances the
// iterator, preserving its single-consumer contract; only the executions run
// in parallel.
//
// Run stops at the first fatal iterator error or executor error and returns
// it. A clean drain returns nil.
func Run(ctx context.Context, it *Iterator, exec Executor, workers int) error {
	if workers < 1 {
		workers = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	batches := make(chan *Batch, workers)

	group.Go(func() error {
		defer close(batches)
		for {
			b, err := it.Next()
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case batches <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	for range workers {
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case b, ok := <-batches:
					if !ok {
						return nil
					}
					if err := exec.ExecBatch(ctx, b); err != nil {
						return fmt.Errorf("exec batch: %w", err)
					}
				}
			}
		})
	}

	return group.Wait()
}
