// Package app provides the batch-fitting service: many independent
// datasets fitted concurrently with bounded parallelism.
package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"metad/analysis/metad"
	"metad/domain/core"
	"metad/domain/sdt"
)

// Dataset pairs an identifier with the response counts of one subject or
// session.
type Dataset struct {
	ID     core.DatasetID
	Counts sdt.ResponseCounts
}

// FitOutcome is the per-dataset result of a batch run. Err captures a
// per-dataset failure without aborting the rest of the batch.
type FitOutcome struct {
	DatasetID   core.DatasetID   `json:"dataset_id"`
	FitID       core.FitID       `json:"fit_id"`
	Fingerprint core.DatasetHash `json:"fingerprint"`
	Result      *sdt.FitResult   `json:"result,omitempty"`
	Err         error            `json:"-"`
	RuntimeMs   int64            `json:"runtime_ms"`
}

// FitService runs meta-d' fits over independent datasets. Each fit
// receives and returns value data with no shared mutable state, so the
// only coordination needed is the concurrency bound.
type FitService struct {
	sem  *semaphore.Weighted
	opts []metad.Option
}

// NewFitService creates a service allowing at most maxConcurrent
// simultaneous fits. Options are forwarded to every fit.
func NewFitService(maxConcurrent int64, opts ...metad.Option) *FitService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &FitService{
		sem:  semaphore.NewWeighted(maxConcurrent),
		opts: opts,
	}
}

// FitOne fits a single dataset and stamps the outcome with a fresh fit ID
// and the input fingerprint.
func (s *FitService) FitOne(ds Dataset) FitOutcome {
	start := time.Now()
	result, err := metad.Fit(ds.Counts, s.opts...)
	return FitOutcome{
		DatasetID:   ds.ID,
		FitID:       core.FitID(core.NewID()),
		Fingerprint: ds.Counts.Fingerprint(),
		Result:      result,
		Err:         err,
		RuntimeMs:   time.Since(start).Milliseconds(),
	}
}

// FitAll fits every dataset, at most maxConcurrent at a time. Outcomes are
// returned in input order. A context cancellation aborts dispatching new
// fits and returns the context's error; fits already running are allowed
// to finish.
func (s *FitService) FitAll(ctx context.Context, datasets []Dataset) ([]FitOutcome, error) {
	outcomes := make([]FitOutcome, len(datasets))
	var wg sync.WaitGroup

	for i := range datasets {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, ds Dataset) {
			defer wg.Done()
			defer s.sem.Release(1)
			outcomes[i] = s.FitOne(ds)
		}(i, datasets[i])
	}

	wg.Wait()
	return outcomes, nil
}
