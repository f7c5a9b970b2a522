package goshape

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// task reports nil, a *ValidationError, or a fatal error. async marks tasks
// that may block; the others complete as soon as they are invoked.
type task struct {
	async bool
	run   func(ctx context.Context) error
}

type runOptions struct {
	sync     bool
	endEarly bool
	// sort orders collected errors; nil keeps completion order.
	sort  func(a, b *ValidationError) int
	path  string
	value any
	// errors already raised by the node's own tests; they are reported after
	// the errors of the tasks.
	errors []*ValidationError
	logger *slog.Logger
}

// runTasks executes tasks with the synchronous or asynchronous strategy.
func runTasks(ctx context.Context, ro runOptions, tasks []task) error {
	if ro.sync {
		return runSequential(ctx, ro, tasks)
	}
	return runConcurrent(ctx, ro, tasks)
}

func runSequential(ctx context.Context, ro runOptions, tasks []task) error {
	var nested []*ValidationError
	for _, t := range tasks {
		err := t.run(ctx)
		if err == nil {
			continue
		}
		ve, ok := AsValidationError(err)
		if !ok {
			return err
		}
		if ro.endEarly {
			return ve
		}
		nested = append(nested, ve)
	}
	return ro.finish(nested)
}

// runConcurrent starts every blocking task in its own goroutine and runs the
// others inline in dispatch order. Inline outcomes are known at dispatch time,
// so they precede any blocking outcome; blocking outcomes follow in
// completion order.
func runConcurrent(ctx context.Context, ro runOptions, tasks []task) error {
	var blocking []task
	for _, t := range tasks {
		if t.async {
			blocking = append(blocking, t)
		}
	}
	if ro.endEarly {
		return ro.raceFirstFailure(ctx, tasks, blocking)
	}

	var (
		g         errgroup.Group
		mu        sync.Mutex
		completed []*ValidationError
	)
	for _, t := range blocking {
		t := t
		g.Go(func() error {
			err := t.run(ctx)
			if err == nil {
				return nil
			}
			ve, ok := AsValidationError(err)
			if !ok {
				return err
			}
			mu.Lock()
			completed = append(completed, ve)
			mu.Unlock()
			return nil
		})
	}

	var nested []*ValidationError
	for _, t := range tasks {
		if t.async {
			continue
		}
		err := t.run(ctx)
		if err == nil {
			continue
		}
		ve, ok := AsValidationError(err)
		if !ok {
			return err
		}
		nested = append(nested, ve)
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	nested = append(nested, completed...)
	return ro.finish(nested)
}

func (ro runOptions) raceFirstFailure(ctx context.Context, tasks, blocking []task) error {
	results := make(chan error, len(blocking))
	var resolved atomic.Bool
	logger := ro.logger
	for _, t := range blocking {
		t := t
		go func() {
			err := t.run(ctx)
			if resolved.Load() && err != nil && logger != nil {
				logger.Debug("discarding late validation result", "path", ro.path, "error", err)
			}
			results <- err
		}()
	}
	for _, t := range tasks {
		if t.async {
			continue
		}
		if err := t.run(ctx); err != nil {
			resolved.Store(true)
			return err
		}
	}
	for range blocking {
		select {
		case err := <-results:
			if err != nil {
				resolved.Store(true)
				return err
			}
		case <-ctx.Done():
			resolved.Store(true)
			return ctx.Err()
		}
	}
	return ro.finish(nil)
}

// finish sorts nested errors, appends the node's own errors and folds them
// into one aggregate.
func (ro runOptions) finish(nested []*ValidationError) error {
	if len(nested) > 1 && ro.sort != nil {
		slices.SortStableFunc(nested, ro.sort)
	}
	all := append(nested, ro.errors...)
	if len(all) == 0 {
		return nil
	}
	return newAggregate(all, ro.value, ro.path)
}
