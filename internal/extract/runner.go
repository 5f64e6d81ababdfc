package extract

import (
	"context"
	"sync"
	"time"

	"github.com/railatlas/railatlas/internal/unit"
)

// ProgressReporter receives per-extractor completion events during a run.
type ProgressReporter interface {
	OnExtractorStart(total int)
	OnExtractorDone(kind unit.Kind, unitCount int)
}

// NoOpProgressReporter discards all progress events.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnExtractorStart(int) {}

func (NoOpProgressReporter) OnExtractorDone(unit.Kind, int) {}

// Runner aggregates the output of a set of extractors. Extractors share no
// mutable state, so they run concurrently; results are concatenated in
// extractor order to keep output deterministic.
type Runner struct {
	extractors []Extractor
	progress   ProgressReporter
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) RunnerOption {
	return func(r *Runner) {
		r.progress = progress
	}
}

// NewRunner creates a runner over the given extractors.
func NewRunner(extractors []Extractor, opts ...RunnerOption) *Runner {
	r := &Runner{
		extractors: extractors,
		progress:   NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats summarizes one extraction run.
type Stats struct {
	UnitsByKind map[unit.Kind]int
	Duration    time.Duration
}

// ExtractAll runs every extractor and concatenates their units. Cancellation
// is coarse: a cancelled context stops scheduling work, and units already
// produced remain valid.
func (r *Runner) ExtractAll(ctx context.Context) ([]unit.CodeUnit, Stats) {
	start := time.Now()
	r.progress.OnExtractorStart(len(r.extractors))

	results := make([][]unit.CodeUnit, len(r.extractors))
	var wg sync.WaitGroup
	for i, ex := range r.extractors {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, ex Extractor) {
			defer wg.Done()
			results[i] = ex.ExtractAll(ctx)
			r.progress.OnExtractorDone(ex.Kind(), len(results[i]))
		}(i, ex)
	}
	wg.Wait()

	stats := Stats{UnitsByKind: make(map[unit.Kind]int, len(r.extractors))}
	var units []unit.CodeUnit
	for i, ex := range r.extractors {
		units = append(units, results[i]...)
		stats.UnitsByKind[ex.Kind()] += len(results[i])
	}
	stats.Duration = time.Since(start)
	return units, stats
}
