// Package feedback turns free-text generative model output into structured resume feedback.
package feedback

import "errors"

// ErrGenerationFailed marks a record whose model call failed. It is carried in
// Record.Error and never returned to callers of Review.
var ErrGenerationFailed = errors.New("feedback generation failed")

// Record is the structured feedback for one analysis.
// When Error is set every other field holds its zero value and must not be trusted.
type Record struct {
	// Score is the model's ATS match percentage, nil when absent or out of range.
	Score         *int     `json:"score"`
	MissingSkills []string `json:"missing_skills"`
	Suggestions   []string `json:"suggestions"`
	Summary       string   `json:"summary"`
	// RawResponse is the verbatim model output.
	RawResponse string `json:"raw_response"`
	Error       string `json:"error,omitempty"`
}

func newRecord(raw string) Record {
	return Record{
		MissingSkills: []string{},
		Suggestions:   []string{},
		RawResponse:   raw,
	}
}

// FromError builds the record for a failed generation.
func FromError(err error) Record {
	r := newRecord("")
	if err == nil {
		err = ErrGenerationFailed
	}
	r.Error = err.Error()
	return r
}

// Failed reports whether the record stands for a failed generation.
func (r Record) Failed() bool {
	return r.Error != ""
}

// Empty reports whether no structured field could be recovered.
func (r Record) Empty() bool {
	return r.Score == nil && len(r.MissingSkills) == 0 && len(r.Suggestions) == 0 && r.Summary == ""
}
