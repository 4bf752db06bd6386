package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/courtdocs/internal/async"
)

// BatchReport summarises a batch run. Failures maps a source path to its error.
type BatchReport struct {
	Total    int
	Parsed   int
	Failures map[string]string
}

// RunBatch parses paths on a worker queue and waits for all of them.
// One failing document never stops the others.
func RunBatch(ctx context.Context, proc async.Processor, paths []string, logger *slog.Logger, opts ...async.Option) (*BatchReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	report := &BatchReport{Failures: map[string]string{}}
	var mu sync.Mutex

	opts = append(opts, async.WithResultHandler(func(job async.Job, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failures[job.Path] = err.Error()
			return
		}
		report.Parsed++
	}))
	q := async.NewProcessorQueue(proc, logger, opts...)

	var enqueueErr error
	for _, path := range paths {
		if err := q.Enqueue(ctx, async.NewJob(path)); err != nil {
			enqueueErr = err
			break
		}
		report.Total++
	}
	q.Shutdown(context.WithoutCancel(ctx))

	mu.Lock()
	defer mu.Unlock()
	logger.Info("batch.done", "total", report.Total, "parsed", report.Parsed, "failed", len(report.Failures))
	return report, enqueueErr
}
