// Package matching compares resume and job description wording.
//
// Keyword matching is exact set algebra over extracted keywords; "developer" and
// "developers" only meet when lemmatization has already unified them.
package matching

import "github.com/spigell/ats-matcher/internal/keywords"

// Result is the keyword overlap between a resume and a job description.
// Matched and Missing are disjoint and together cover the job description keywords.
type Result struct {
	Matched keywords.Set `json:"matched"`
	Missing keywords.Set `json:"missing"`
}

// Match returns the job description keywords found in the resume and those absent from it.
func Match(resume, jd keywords.Set) Result {
	return Result{
		Matched: jd.Intersect(resume),
		Missing: jd.Difference(resume),
	}
}

// Coverage is the share of job description keywords present in the resume, in [0, 1].
// A job description without keywords has zero coverage.
func (r Result) Coverage() float64 {
	total := r.Matched.Len() + r.Missing.Len()
	if total == 0 {
		return 0
	}
	return float64(r.Matched.Len()) / float64(total)
}
