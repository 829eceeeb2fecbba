package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"repomirror/internal/tasks"
)

// PairExecutionResult carries the task results of one completed sync pair.
type PairExecutionResult struct {
	Pair    Pair
	Results []tasks.Result
}

// Scheduler runs the pairs of a plan with bounded concurrency. Pairs are
// independent of each other; tasks within one pair run strictly in order
// inside the pair's runner.
type Scheduler struct {
	run         func(ctx context.Context, p Pair) []tasks.Result
	concurrency int
}

func NewScheduler(run func(ctx context.Context, p Pair) []tasks.Result, concurrency int) (*Scheduler, error) {
	if run == nil {
		return nil, errors.New("pair runner is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{run: run, concurrency: concurrency}, nil
}

// Execute streams per-pair completion results.
//
// Channel semantics:
//   - In the normal (non-canceled) case, exactly one PairExecutionResult is
//     sent per pair.
//   - On context cancellation, the scheduler stops promptly; it may emit
//     fewer results than pairs.
//   - Both channels are closed reliably. The error channel carries fatal
//     errors / cancellation; per-task failures are recorded on the results.
func (s *Scheduler) Execute(ctx context.Context, plan *SyncPlan) (<-chan PairExecutionResult, <-chan error) {
	resultsCh := make(chan PairExecutionResult)
	errCh := make(chan error, 1)

	go func() {
		defer close(resultsCh)
		defer close(errCh)

		trySendErr := func(err error) {
			if err == nil {
				return
			}
			select {
			case errCh <- err:
			default:
			}
		}

		if ctx == nil {
			trySendErr(errors.New("context is nil"))
			return
		}
		if plan == nil {
			trySendErr(errors.New("sync plan is nil"))
			return
		}

		g, runCtx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)

		for _, pair := range plan.Pairs {
			g.Go(func() error {
				if err := runCtx.Err(); err != nil {
					return err
				}
				res := PairExecutionResult{Pair: pair, Results: s.run(runCtx, pair)}
				select {
				case resultsCh <- res:
					return nil
				case <-runCtx.Done():
					return runCtx.Err()
				}
			})
		}

		trySendErr(g.Wait())
	}()

	return resultsCh, errCh
}
