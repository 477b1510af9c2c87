package ai

import "context"

// Generator sends a prompt to a text-generation model and returns the raw completion.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
