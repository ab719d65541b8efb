// Package semantic scores how close two documents are in meaning.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/spigell/ats-matcher/internal/embedding"
)

// ErrModelUnavailable is returned when the embedding model cannot be loaded or run.
// It is fatal for an analysis and must not be reported as a zero score.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Scorer compares documents through a shared, read-only embedding model.
type Scorer struct {
	embedder embedding.Embedder
}

func NewScorer(embedder embedding.Embedder) *Scorer {
	return &Scorer{embedder: embedder}
}

// Score returns the semantic similarity of the two texts as a percentage in [0, 100]
// with two decimals. Negative similarity clamps to 0. Blank text is treated as a
// degenerate vector and always scores 0.
func (s *Scorer) Score(ctx context.Context, resumeText, jdText string) (float64, error) {
	if s == nil || s.embedder == nil {
		return 0, fmt.Errorf("%w: scorer has no embedder", ErrModelUnavailable)
	}

	a, err := s.embed(ctx, resumeText)
	if err != nil {
		return 0, err
	}
	b, err := s.embed(ctx, jdText)
	if err != nil {
		return 0, err
	}

	return Percent(Cosine(a, b)), nil
}

func (s *Scorer) embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	return vec, nil
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Empty, mismatched or zero-length vectors yield 0 rather than NaN.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}

// Percent maps a cosine similarity to round(max(0, sim) * 100, 2).
func Percent(sim float64) float64 {
	if math.IsNaN(sim) || sim <= 0 {
		return 0
	}
	return math.Round(math.Min(sim, 1)*10000) / 100
}

// Loader builds the embedding model once per process and hands out a shared Scorer.
type Loader struct {
	load func() (embedding.Embedder, error)

	once     sync.Once
	embedder embedding.Embedder
	scorer   *Scorer
	err      error
}

// NewLoader defers calling load until the first Scorer request.
func NewLoader(load func() (embedding.Embedder, error)) *Loader {
	return &Loader{load: load}
}

// Scorer returns the shared scorer. A load failure is remembered and wraps ErrModelUnavailable.
func (l *Loader) Scorer() (*Scorer, error) {
	l.once.Do(func() {
		if l.load == nil {
			l.err = fmt.Errorf("%w: no model loader configured", ErrModelUnavailable)
			return
		}
		embedder, err := l.load()
		if err != nil {
			l.err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
			return
		}
		l.embedder = embedder
		l.scorer = NewScorer(embedder)
	})
	return l.scorer, l.err
}

// Score loads the model if needed and scores the two texts.
func (l *Loader) Score(ctx context.Context, resumeText, jdText string) (float64, error) {
	scorer, err := l.Scorer()
	if err != nil {
		return 0, err
	}
	return scorer.Score(ctx, resumeText, jdText)
}

// Close releases the model if it was loaded.
func (l *Loader) Close() error {
	if l.embedder == nil {
		return nil
	}
	return l.embedder.Close()
}
