// Package ai defines the generative model collaborator used for resume feedback.
package ai

import "context"

// Generator sends a fully formatted prompt to a generative model and returns its raw text.
// Implementations must honour ctx cancellation and deadlines.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
