// Package analysis runs the resume/job description pipeline and assembles the report.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-matcher/internal/feedback"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/logger"
)

// Step represents a single stage of an analysis. Steps write disjoint report
// fields, so enabled steps run concurrently.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(deps Deps) error
	Apply(ctx context.Context, deps Deps, in Input, report *Report) error
}

// KeywordExtractor derives keyword sets from raw text.
type KeywordExtractor interface {
	Extract(text string) (keywords.Set, error)
}

// SemanticScorer computes the embedding similarity score in [0, 100].
type SemanticScorer interface {
	Score(ctx context.Context, resumeText, jdText string) (float64, error)
}

// FeedbackReviewer produces the structured model feedback. It never fails.
type FeedbackReviewer interface {
	Review(ctx context.Context, resumeText, jdText string) feedback.Record
}

// Deps aggregates collaborators shared across all steps.
type Deps struct {
	Keywords KeywordExtractor
	Semantic SemanticScorer
	Feedback FeedbackReviewer
	Logger   *zap.Logger
}

// Input is the pair of extracted documents being compared.
type Input struct {
	Resume         string
	JobDescription string
}

// Status represents runtime information about a step.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// Analyzer sequences the configured steps over one document pair at a time.
// Steps keep no per-run state, so one Analyzer may serve concurrent calls.
type Analyzer struct {
	deps  Deps
	steps []Step
}

// New returns an Analyzer running steps, or DefaultSteps when none are given.
func New(deps Deps, steps ...Step) *Analyzer {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	deps.Logger = logger.WithFields(deps.Logger)
	return &Analyzer{deps: deps, steps: steps}
}

// Steps returns the configured steps.
func (a *Analyzer) Steps() []Step {
	return a.steps
}

// Validate checks every enabled step against the dependencies.
func (a *Analyzer) Validate() error {
	for _, step := range a.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(a.deps); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// Analyze runs all enabled steps and returns the assembled report.
// A semantic failure aborts the analysis with an error wrapping semantic.ErrModelUnavailable;
// a failed model call only degrades Report.Feedback.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Report, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	report := newReport(uuid.NewString())
	log := logger.WithAnalysis(a.deps.Logger, report.ID)
	deps := a.deps
	deps.Logger = log

	log.Info("analysis started",
		zap.Int("resume_length", len(in.Resume)),
		zap.Int("job_description_length", len(in.JobDescription)),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, step := range a.steps {
		if !step.IsEnabled() {
			log.Info("step disabled", zap.String(logger.FieldStep, step.Name()))
			continue
		}

		g.Go(func() error {
			started := time.Now()
			stepLog := log.With(zap.String(logger.FieldStep, step.Name()))

			if err := step.Apply(gctx, withLogger(deps, stepLog), in, report); err != nil {
				stepLog.Warn("step failed", zap.Error(err))
				return fmt.Errorf("%s: %w", step.Name(), err)
			}

			stepLog.Debug("step completed", zap.Duration("took", time.Since(started)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Steps = Describe(a.steps)

	log.Info("analysis completed",
		zap.Float64("semantic_score", report.SemanticScore),
		zap.String("rating", string(report.Rating)),
		zap.Int("missing_keywords", report.Missing.Len()),
	)

	return report, nil
}

func withLogger(deps Deps, log *zap.Logger) Deps {
	deps.Logger = log
	return deps
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Step, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Describe returns status entries for the provided steps.
func Describe(steps []Step) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
