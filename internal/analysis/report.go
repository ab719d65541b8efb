package analysis

import (
	"github.com/spigell/ats-matcher/internal/feedback"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/matching"
)

// Rating is the badge shown next to the semantic score.
type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs_improvement"
)

// RatingFor maps a semantic score in [0, 100] to its badge.
func RatingFor(score float64) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	default:
		return RatingNeedsImprovement
	}
}

// Report is the outcome of one analysis.
type Report struct {
	ID            string   `json:"id"`
	SemanticScore float64  `json:"semantic_score"`
	Rating        Rating   `json:"rating"`
	LexicalScore  *float64 `json:"lexical_score,omitempty"`

	ResumeKeywords keywords.Set `json:"resume_keywords"`
	JobKeywords    keywords.Set `json:"job_keywords"`
	matching.Result

	// Feedback is nil when the feedback step is disabled.
	Feedback *feedback.Record `json:"feedback,omitempty"`
	Steps    []Status         `json:"steps"`
}

func newReport(id string) *Report {
	return &Report{
		ID:             id,
		ResumeKeywords: keywords.NewSet(),
		JobKeywords:    keywords.NewSet(),
		Result:         matching.Match(keywords.NewSet(), keywords.NewSet()),
	}
}
