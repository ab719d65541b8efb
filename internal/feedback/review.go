package feedback

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/ai"
	"github.com/spigell/ats-matcher/internal/logger"
	"github.com/spigell/ats-matcher/internal/utils"
)

const defaultMaxLogLength = 200

// Reviewer asks a generative model for resume feedback and normalizes the answer.
type Reviewer struct {
	generator ai.Generator
	maxLogLen int
	logger    *zap.Logger
}

// NewReviewer returns a Reviewer logging prompt and response previews of at most maxLogLength runes.
func NewReviewer(generator ai.Generator, maxLogLength int, log *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Reviewer{
		generator: generator,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, "gemini", model),
	}
}

// Review builds the prompt, calls the model and returns the normalized record.
// Generation errors are folded into Record.Error and never returned. The deadline
// for the model call comes from ctx.
func (r *Reviewer) Review(ctx context.Context, resumeText, jdText string) Record {
	if r == nil || r.generator == nil {
		return FromError(fmt.Errorf("%w: no generator configured", ErrGenerationFailed))
	}

	prompt := BuildPrompt(resumeText, jdText)

	r.logger.Debug("generate feedback request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		r.logger.Warn("feedback generation failed", zap.Error(err))
		return FromError(fmt.Errorf("%w: %w", ErrGenerationFailed, err))
	}

	r.logger.Debug("generate feedback response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	record := Normalize(raw)
	if record.Empty() {
		r.logger.Warn("model response did not contain any recognised section",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
		)
	}

	return record
}
