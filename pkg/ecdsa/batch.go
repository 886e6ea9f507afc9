package ecdsa

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of verifying one record.
type BatchResult struct {
	Index int   // position of the record in the batch
	Valid bool  // signature verified
	Err   error // record was malformed; Valid is false
}

// BatchSummary counts batch results by outcome.
type BatchSummary struct {
	Total     int
	Valid     int
	Invalid   int
	Malformed int
}

// String formats the summary on one line.
func (s BatchSummary) String() string {
	return fmt.Sprintf("%d records: %d valid, %d invalid, %d malformed",
		s.Total, s.Valid, s.Invalid, s.Malformed)
}

// Summarize tallies results.
func Summarize(results []BatchResult) BatchSummary {
	sum := BatchSummary{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			sum.Malformed++
		case res.Valid:
			sum.Valid++
		default:
			sum.Invalid++
		}
	}
	return sum
}

// BatchVerifier verifies many records concurrently with a bounded number of
// workers sharing one engine.
type BatchVerifier struct {
	engine  *Engine
	workers int
}

// NewBatchVerifier creates a batch verifier with one worker per CPU.
func NewBatchVerifier(e *Engine) *BatchVerifier {
	return &BatchVerifier{
		engine:  e,
		workers: runtime.NumCPU(),
	}
}

// WithWorkers sets the number of concurrent workers.
func (b *BatchVerifier) WithWorkers(n int) *BatchVerifier {
	if n > 0 {
		b.workers = n
	}
	return b
}

// Verify checks every record and returns one result per record in input
// order.  Malformed records are reported in their result and do not stop
// the batch.  The returned error is non-nil only when ctx is done before all
// records were checked.
func (b *BatchVerifier) Verify(ctx context.Context, records []*Record) ([]BatchResult, error) {
	results := make([]BatchResult, len(records))
	var checked int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		i, rec := i, rec
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = b.verifyRecord(i, rec)

			n := atomic.AddInt64(&checked, 1)
			if n%1000 == 0 {
				log.Debugf("Verified %d/%d records", n, len(records))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch verification interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch verification interrupted: %w", err)
	}

	log.Infof("Batch verification finished: %v", Summarize(results))
	return results, nil
}

func (b *BatchVerifier) verifyRecord(i int, rec *Record) BatchResult {
	if rec == nil {
		return BatchResult{Index: i, Err: fmt.Errorf("record %d is nil", i)}
	}
	valid, err := b.engine.Verify(rec.PublicKey, rec.Hash, rec.Signature)
	if err != nil {
		log.Debugf("Record %d is malformed: %v", i, err)
		return BatchResult{Index: i, Err: err}
	}
	return BatchResult{Index: i, Valid: valid}
}
