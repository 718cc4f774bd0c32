// Package scheduler runs independent tasks with a cap on how many are in
// flight at once.
//
// Tasks are started in slice order whenever a slot frees up. Completion
// order is not constrained, so callers must not derive ordering from it.
// A task owns its failure handling: Task has no error result, and the
// scheduler keeps going no matter how an individual task ends.
package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Task is one unit of work.
type Task func(ctx context.Context)

// Run executes tasks with at most limit of them in flight and returns once
// every started task has finished.
//
// A limit below 1 is treated as 1. When ctx is cancelled, tasks that have
// not been started yet are skipped and ctx.Err() is returned.
func Run(ctx context.Context, limit int, tasks []Task) error {
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, task := range tasks {
		if ctx.Err() != nil {
			log.Debug().Int("skipped", len(tasks)-i).Msg("scheduler cancelled")
			break
		}
		// Go blocks until a slot is free, which keeps start order equal to
		// slice order.
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Int("task", i).Str("panic", fmt.Sprint(r)).Msg("task panicked")
				}
			}()
			task(ctx)
			return nil
		})
	}

	g.Wait()
	return ctx.Err()
}
