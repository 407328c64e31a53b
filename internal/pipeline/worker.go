package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/metadata"
)

// Worker processes one enrichment batch at a time. Repositories within
// a batch are enriched sequentially; their pipelines are independent, so
// a failing repository only costs its own fields.
type Worker struct {
	enricher *Enricher
	log      *slog.Logger
}

func NewWorker(enricher *Enricher, log *slog.Logger) *Worker {
	return &Worker{enricher: enricher, log: log}
}

// Process runs the batch to completion and stores the records on the
// job. Every input descriptor yields exactly one output record.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "owner", job.Owner)
	job.SetStatus(StatusRunning, "enriching")

	descriptors := job.Descriptors()
	records := make([]*metadata.Record, 0, len(descriptors))
	for _, desc := range descriptors {
		if ctx.Err() != nil {
			job.AddError("canceled")
			job.SetStatus(StatusFailed, "canceled")
			return
		}
		records = append(records, w.enrichOne(ctx, job, desc))
		job.IncrReposProcessed()
	}

	job.SetRecords(records)
	job.SetStatus(StatusCompleted, "done")
	log.Info("batch complete", "repos", len(records))
}

// enrichOne guards the per-repository pipeline: an unexpected panic
// becomes a logged skip with a well-typed empty record, never a dead
// batch.
func (w *Worker) enrichOne(ctx context.Context, job *Job, desc github.Descriptor) (rec *metadata.Record) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Debug("repository enrichment panicked", "repo", desc.Name, "panic", r)
			job.AddError(fmt.Sprintf("%s: %v", desc.Name, r))
			rec = metadata.NewRecord(desc.Name, desc.Description, desc.URL)
		}
	}()
	return w.enricher.EnrichRepo(ctx, desc)
}
