// Package service runs the report pipeline: load, normalize, join, sort,
// assemble and render.
package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/trackboard/internal/adapters/render"
	"github.com/okian/trackboard/internal/adapters/source"
	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/normalize"
	"github.com/okian/trackboard/internal/domain/policy"
	"github.com/okian/trackboard/internal/report"
	"github.com/okian/trackboard/pkg/logger"
	"github.com/okian/trackboard/pkg/metrics"
)

// Pipeline stage names used for timing.
const (
	stageLoad     = "load"
	stageAssemble = "assemble"
	stageRender   = "render"
)

const defaultOutputPath = "index.html"

// Outcome describes a successful run.
type Outcome struct {
	RunID      string
	OutputPath string
	Duration   time.Duration
	Report     report.Report
}

// Service generates the report from a source.
type Service struct {
	source     source.Source
	policy     *policy.Policy
	outputPath string
	title      string
	clock      func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the raw record sets come from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithPolicy sets the comparison policy for personal records.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithOutputPath sets the file the report is written to.
func WithOutputPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.outputPath = path
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Service) {
		s.title = title
	}
}

// WithClock replaces time.Now for the generation timestamp.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		policy:     policy.Default(),
		outputPath: defaultOutputPath,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one full regeneration. A source failure aborts the run before
// anything is written, so an existing report is left untouched.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return Outcome{}, ErrNoSource
	}
	start := s.clock()
	runID := uuid.NewString()
	log := s.logger.Named("pipeline")

	raw, err := s.load(ctx)
	if err != nil {
		metrics.RecordRun(metrics.OutcomeSourceUnavailable)
		log.Error(ctx, "source unavailable", logger.String("run_id", runID), logger.Error(err))
		return Outcome{}, err
	}

	t := time.Now()
	snap := normalize.Normalize(raw)
	log.Info(ctx, fmt.Sprintf("Loaded: %d athletes, %d meets, %d results",
		snap.Stats.Athletes, snap.Stats.Meets, snap.Stats.Results),
		logger.String("run_id", runID),
		logger.Int("athletes", snap.Stats.Athletes),
		logger.Int("meets", snap.Stats.Meets),
		logger.Int("results", snap.Stats.Results),
	)

	rep := report.Assemble(snap,
		report.WithTitle(s.title),
		report.WithRunID(runID),
		report.WithGeneratedAt(s.clock()),
		report.WithPolicy(s.policy),
	)
	metrics.RecordStageDuration(stageAssemble, time.Since(t))
	s.observe(ctx, log, rep)

	t = time.Now()
	if err := writeAtomic(s.outputPath, func(f *os.File) error {
		w := bufio.NewWriter(f)
		if err := render.HTML(w, rep); err != nil {
			return err
		}
		return w.Flush()
	}); err != nil {
		outcome := metrics.OutcomeWriteFailed
		if errors.Is(err, render.ErrRender) {
			outcome = metrics.OutcomeRenderFailed
		}
		metrics.RecordRun(outcome)
		log.Error(ctx, "report not written", logger.String("run_id", runID), logger.Error(err))
		return Outcome{}, err
	}
	metrics.RecordStageDuration(stageRender, time.Since(t))

	end := s.clock()
	metrics.RecordRun(metrics.OutcomeSuccess)
	metrics.MarkSuccess(end)
	out := Outcome{RunID: runID, OutputPath: s.outputPath, Duration: end.Sub(start), Report: rep}
	log.Info(ctx, "report generated",
		logger.String("run_id", runID),
		logger.String("output", s.outputPath),
		logger.Duration("duration", out.Duration),
	)
	return out, nil
}

func (s *Service) load(ctx context.Context) (model.RawSnapshot, error) {
	t := time.Now()
	defer func() { metrics.RecordStageDuration(stageLoad, time.Since(t)) }()
	raw, err := s.source.Load(ctx)
	if err != nil {
		if !errors.Is(err, source.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", source.ErrSourceUnavailable, err)
		}
		return model.RawSnapshot{}, err
	}
	return raw, nil
}

// observe logs and counts every row-level recovery of the run.
func (s *Service) observe(ctx context.Context, log logger.Logger, rep report.Report) {
	sum := rep.Summary
	metrics.RecordRowsLoaded(metrics.SetAthletes, rep.Stats.Athletes)
	metrics.RecordRowsLoaded(metrics.SetMeets, rep.Stats.Meets)
	metrics.RecordRowsLoaded(metrics.SetResults, rep.Stats.Results)
	metrics.RecordRowsDropped(metrics.SetAthletes, sum.DroppedAthletes)
	metrics.RecordRowsDropped(metrics.SetMeets, sum.DroppedMeets)
	metrics.RecordRowsDropped(metrics.SetResults, sum.DroppedResults)
	metrics.RecordUnresolvedJoins(sum.UnresolvedJoins)
	metrics.RecordNonComparable(sum.NonComparable)
	metrics.RecordDuplicateMeets(len(sum.DuplicateMeets))

	for _, name := range sum.DuplicateMeets {
		log.Warn(ctx, "duplicate meet name, using first row", logger.String("meet", name))
	}
	if dropped := sum.DroppedAthletes + sum.DroppedMeets + sum.DroppedResults; dropped > 0 {
		log.Warn(ctx, "rows dropped for missing required fields",
			logger.Int("athletes", sum.DroppedAthletes),
			logger.Int("meets", sum.DroppedMeets),
			logger.Int("results", sum.DroppedResults),
		)
	}
	log.Info(ctx, "run summary",
		logger.Int("unresolved_joins", sum.UnresolvedJoins),
		logger.Int("non_comparable", sum.NonComparable),
		logger.Int("duplicate_meets", len(sum.DuplicateMeets)),
		logger.Int("events", len(rep.Events)),
	)
}

// writeAtomic writes through a temp file in the target directory and renames
// it over path, so readers never see a partial report.
func writeAtomic(path string, write func(*os.File) error) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".trackboard-*.html")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		if errors.Is(err, render.ErrRender) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err = f.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
