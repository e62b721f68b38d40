package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// EvaluateBatch scores every document against jd and returns results in input order.
// The job description is analysed once before any resume is scored. Each resume is bounded
// by the task timeout; a timed-out or failed resume yields an Error result without
// affecting the others. A timed-out resume keeps its worker slot until its evaluation
// actually returns, so at most Degree evaluations ever run at once. A resume that waits
// longer than the task timeout for a free slot is reported as timed out.
// Every result carries the batch duration and size.
func (e *Evaluator) EvaluateBatch(ctx context.Context, docs []ingestion.Document, jd string) []types.EvaluationResult {
	start := time.Now()
	results := make([]types.EvaluationResult, len(docs))
	if len(docs) == 0 {
		return results
	}

	// Pre-warm so workers never race to analyse the same job description
	_, _ = e.skills.Get(jd)

	degree := e.Degree(len(docs))
	e.logger.Info("starting batch evaluation",
		zap.Int("resumes", len(docs)),
		zap.Int("workers", degree),
		zap.Duration("task_timeout", e.opts.TaskTimeout),
		zap.Bool("remote_feedback", !e.opts.SkipFeedback && e.feedback.Available()))

	sem := semaphore.NewWeighted(int64(degree))
	var g errgroup.Group
	for i, doc := range docs {
		if err := e.acquireWorker(ctx, sem); err != nil {
			e.logger.Warn("no worker available for resume",
				zap.String(logger.FieldResume, doc.Name),
				zap.Error(err))
			results[i] = errorResult(doc.Name, fmt.Sprintf(timeoutErrorFormat, err), time.Now())
			continue
		}
		g.Go(func() error {
			results[i] = e.evaluateBounded(ctx, doc, jd, func() { sem.Release(1) })
			return nil
		})
	}
	_ = g.Wait()

	batchTime := round2(time.Since(start).Seconds())
	for i := range results {
		results[i].BatchTime = batchTime
		results[i].BatchSize = len(docs)
	}

	e.logger.Info("batch evaluation finished",
		zap.Int("resumes", len(docs)),
		zap.Float64("seconds", batchTime))

	return results
}

// Degree returns the number of concurrent workers used for a batch of n resumes.
func (e *Evaluator) Degree(n int) int {
	if n <= e.opts.SequentialBelow {
		return 1
	}
	return max(1, min(e.opts.Workers, n))
}

// acquireWorker waits up to the task timeout for a free worker slot.
func (e *Evaluator) acquireWorker(ctx context.Context, sem *semaphore.Weighted) error {
	waitCtx, cancel := context.WithTimeout(ctx, e.opts.TaskTimeout)
	defer cancel()
	return sem.Acquire(waitCtx, 1)
}

// evaluateBounded runs Evaluate under the task timeout. A task that overruns is reported
// at the deadline but its goroutine keeps running until its own stages observe the
// cancelled context; release is called only once that goroutine returns.
func (e *Evaluator) evaluateBounded(ctx context.Context, doc ingestion.Document, jd string, release func()) types.EvaluationResult {
	start := time.Now()
	taskCtx, cancel := context.WithTimeout(ctx, e.opts.TaskTimeout)

	done := make(chan types.EvaluationResult, 1)
	go func() {
		defer release()
		defer cancel()
		done <- e.Evaluate(taskCtx, doc, jd)
	}()

	select {
	case result := <-done:
		return result
	case <-taskCtx.Done():
		select {
		case result := <-done:
			return result
		default:
		}
		e.logger.Warn("resume evaluation abandoned",
			zap.String(logger.FieldResume, doc.Name),
			zap.Error(taskCtx.Err()))
		return errorResult(doc.Name, fmt.Sprintf(timeoutErrorFormat, taskCtx.Err()), start)
	}
}
