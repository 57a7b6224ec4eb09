package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookstruct/bookstruct/internal/parser"
	"github.com/bookstruct/bookstruct/internal/profile"
)

// Worker processes a single classification job.
type Worker struct {
	pipeline *Pipeline
	stats    *Stats
	log      *slog.Logger
}

func NewWorker(pl *Pipeline, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{pipeline: pl, stats: stats, log: log}
}

// Process runs extraction and classification for one job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "book_id", job.BookID, "profile", job.ProfileName)

	// Phase 1: extract runs from the source file.
	job.SetStatus(StatusExtracting, "extracting runs")
	ext, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	doc, err := ext.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	doc.SourceID = job.BookID
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.SetExtracted(len(doc.Pages), doc.RunCount())
	log.Info("extracted runs", "pages", len(doc.Pages), "runs", doc.RunCount())

	// Phase 2: classify.
	job.SetStatus(StatusClassifying, "classifying")
	start := time.Now()
	res, err := w.pipeline.ClassifyDocument(ctx, doc, job.ProfileName)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			log.Info("classification cancelled")
			job.AddError("cancelled")
		case errors.Is(err, profile.ErrNotFound):
			log.Error("unknown profile", "error", err)
			job.AddError(err.Error())
		case errors.Is(err, ErrEmptySource):
			log.Error("empty source", "error", err)
			job.AddError(err.Error())
		default:
			log.Error("classification failed", "error", err)
			job.AddError(err.Error())
		}
		job.SetStatus(StatusFailed, "classifying")
		return
	}
	w.stats.Record(time.Since(start).Milliseconds())

	job.SetOutcome(res)
	job.SetFileData(nil) // release the upload
	job.SetStatus(StatusCompleted, "done")
	log.Info("classification complete",
		"chapters", job.Snapshot().Progress.Chapters,
		"warnings", len(res.Warnings),
		"from_cache", res.FromCache,
	)
}
