package feedback

import (
	_ "embed"
	"strings"
)

//go:embed prompt.md
var promptTemplate string

const (
	resumePlaceholder = "{{RESUME_TEXT}}"
	jdPlaceholder     = "{{JD_TEXT}}"
)

// BuildPrompt substitutes both documents into the fixed feedback template.
// Substitution is single-pass, so placeholder-like text inside a document is left alone.
func BuildPrompt(resumeText, jdText string) string {
	return strings.NewReplacer(
		resumePlaceholder, resumeText,
		jdPlaceholder, jdText,
	).Replace(promptTemplate)
}
