package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/ai"
	"github.com/spigell/ats-matcher/internal/ai/gemini"
	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/embedding"
	"github.com/spigell/ats-matcher/internal/extract"
	"github.com/spigell/ats-matcher/internal/feedback"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/secrets"
	"github.com/spigell/ats-matcher/internal/semantic"
)

// readDocuments extracts the resume and job description texts.
func readDocuments(resumePath, jdPath string) (analysis.Input, error) {
	resume, err := extract.Extract(resumePath)
	if err != nil {
		return analysis.Input{}, fmt.Errorf("extract resume %q: %w", resumePath, err)
	}

	jd, err := extract.Extract(jdPath)
	if err != nil {
		return analysis.Input{}, fmt.Errorf("extract job description %q: %w", jdPath, err)
	}

	return analysis.Input{Resume: resume, JobDescription: jd}, nil
}

// prepareAnalyzer wires the configured collaborators. The returned loader must be closed.
func prepareAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (*analysis.Analyzer, *semantic.Loader, error) {
	extractor, err := keywords.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("loading keyword extractor: %w", err)
	}

	loader := semantic.NewLoader(func() (embedding.Embedder, error) {
		return newEmbedder(config.Embedding)
	})

	steps := analysis.DefaultSteps()
	deps := analysis.Deps{
		Keywords: extractor,
		Semantic: loader,
		Logger:   logger,
	}

	if config.Lexical != nil && !config.Lexical.Enabled {
		analysis.DisableByName(steps, analysis.StepLexical, "disabled in config")
	}

	reviewer, err := prepareReviewer(ctx, config.AI, logger)
	switch {
	case err != nil:
		logger.Warn("skipping AI feedback", zap.Error(err))
		analysis.DisableByName(steps, analysis.StepFeedback, err.Error())
	case reviewer == nil:
		analysis.DisableByName(steps, analysis.StepFeedback, "disabled in config")
	default:
		deps.Feedback = reviewer
		steps = replaceStep(steps, analysis.NewFeedback(config.AI.Timeout))
	}

	analyzer := analysis.New(deps, steps...)
	for _, status := range analysis.Describe(analyzer.Steps()) {
		logger.Debug("analysis step",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return analyzer, loader, nil
}

func replaceStep(steps []analysis.Step, step analysis.Step) []analysis.Step {
	for i, existing := range steps {
		if existing.Name() == step.Name() {
			steps[i] = step
		}
	}
	return steps
}

func newEmbedder(cfg *EmbeddingConfig) (embedding.Embedder, error) {
	if cfg == nil || strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, fmt.Errorf("embedding.model-path is not configured")
	}

	embedder, err := embedding.NewONNXEmbedder(embedding.Options{
		ModelPath:      cfg.ModelPath,
		TokenizerPath:  cfg.TokenizerPath,
		RuntimeLibrary: cfg.RuntimeLibrary,
		OutputName:     cfg.OutputName,
		Pooled:         cfg.Pooled,
		Dimensions:     cfg.Dimensions,
		MaxTokens:      cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return embedder, nil
}

// prepareReviewer returns nil without error when AI feedback is disabled.
func prepareReviewer(ctx context.Context, config *AIConfig, logger *zap.Logger) (*feedback.Reviewer, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	if config.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("building ai generator: %w", err)
	}

	return feedback.NewReviewer(generator, config.Gemini.MaxLogLength, logger), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:         apiKey,
		Model:          cfg.Gemini.Model,
		MaxRetries:     cfg.Gemini.MaxRetries,
		CircuitBreaker: cfg.Gemini.CircuitBreaker,
	}, logger)
	if err != nil {
		return nil, err
	}
	return generator, nil
}
