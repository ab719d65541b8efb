package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/matching"
	"github.com/spigell/ats-matcher/internal/semantic"
)

const (
	StepKeywords = "keywords"
	StepLexical  = "lexical"
	StepSemantic = "semantic"
	StepFeedback = "feedback"
)

// DefaultSteps returns the full pipeline.
func DefaultSteps() []Step {
	return []Step{NewKeywords(), NewLexical(), NewSemantic(), NewFeedback(0)}
}

type keywordsStep struct{}

// NewKeywords creates the step extracting and matching keywords of both documents.
func NewKeywords() Step {
	return &keywordsStep{}
}

func (s *keywordsStep) Name() string { return StepKeywords }

func (s *keywordsStep) Disable(string) {}

func (s *keywordsStep) IsEnabled() bool { return true }

func (s *keywordsStep) Validate(deps Deps) error {
	if deps.Keywords == nil {
		return errors.New("keyword extractor is required")
	}
	return nil
}

func (s *keywordsStep) Apply(_ context.Context, deps Deps, in Input, report *Report) error {
	resume, err := deps.Keywords.Extract(in.Resume)
	if err != nil {
		return fmt.Errorf("extract resume keywords: %w", err)
	}
	jd, err := deps.Keywords.Extract(in.JobDescription)
	if err != nil {
		return fmt.Errorf("extract job description keywords: %w", err)
	}

	report.ResumeKeywords = resume
	report.JobKeywords = jd
	report.Result = matching.Match(resume, jd)

	deps.Logger.Info("keywords matched",
		zap.Int("resume_keywords", resume.Len()),
		zap.Int("job_keywords", jd.Len()),
		zap.Int("matched", report.Matched.Len()),
		zap.Int("missing", report.Missing.Len()),
	)
	return nil
}

type lexicalStep struct {
	disabled bool
	reason   string
}

// NewLexical creates the optional TF-IDF similarity step.
func NewLexical() Step {
	return &lexicalStep{}
}

func (s *lexicalStep) Name() string { return StepLexical }

func (s *lexicalStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *lexicalStep) IsEnabled() bool { return !s.disabled }

func (s *lexicalStep) Validate(Deps) error { return nil }

func (s *lexicalStep) Apply(_ context.Context, deps Deps, in Input, report *Report) error {
	score := matching.TFIDFScore(in.Resume, in.JobDescription)
	report.LexicalScore = &score

	deps.Logger.Info("lexical similarity computed", zap.Float64("lexical_score", score))
	return nil
}

func (s *lexicalStep) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason}
}

type semanticStep struct{}

// NewSemantic creates the embedding similarity step. It cannot be disabled.
func NewSemantic() Step {
	return &semanticStep{}
}

func (s *semanticStep) Name() string { return StepSemantic }

func (s *semanticStep) Disable(string) {}

func (s *semanticStep) IsEnabled() bool { return true }

func (s *semanticStep) Validate(deps Deps) error {
	if deps.Semantic == nil {
		return fmt.Errorf("%w: semantic scorer is not configured", semantic.ErrModelUnavailable)
	}
	return nil
}

func (s *semanticStep) Apply(ctx context.Context, deps Deps, in Input, report *Report) error {
	score, err := deps.Semantic.Score(ctx, in.Resume, in.JobDescription)
	if err != nil {
		return err
	}

	report.SemanticScore = score
	report.Rating = RatingFor(score)

	deps.Logger.Info("semantic similarity computed",
		zap.Float64("semantic_score", score),
		zap.String("rating", string(report.Rating)),
	)
	return nil
}

type feedbackStep struct {
	disabled bool
	reason   string
	timeout  time.Duration
}

// NewFeedback creates the generative feedback step. A positive timeout bounds the model call.
func NewFeedback(timeout time.Duration) Step {
	return &feedbackStep{timeout: timeout}
}

func (s *feedbackStep) Name() string { return StepFeedback }

func (s *feedbackStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *feedbackStep) IsEnabled() bool { return !s.disabled }

func (s *feedbackStep) Validate(deps Deps) error {
	if deps.Feedback == nil {
		return errors.New("feedback reviewer is required when feedback is enabled")
	}
	return nil
}

func (s *feedbackStep) Apply(ctx context.Context, deps Deps, in Input, report *Report) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	record := deps.Feedback.Review(ctx, in.Resume, in.JobDescription)
	report.Feedback = &record

	if record.Failed() {
		deps.Logger.Warn("feedback degraded", zap.String("error", record.Error))
		return nil
	}

	deps.Logger.Info("feedback normalized",
		zap.Bool("has_score", record.Score != nil),
		zap.Int("missing_skills", len(record.MissingSkills)),
		zap.Int("suggestions", len(record.Suggestions)),
	)
	return nil
}

func (s *feedbackStep) Status() Status {
	details := map[string]string{}
	if s.timeout > 0 {
		details["timeout"] = s.timeout.String()
	}
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason, Details: details}
}
