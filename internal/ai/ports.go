// Package ai generates the narrative text of financial health reports.
package ai

import "context"

// TextGenerator produces report prose from a prompt. Version identifies the
// backing model so reports can record how they were produced.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Version() string
}

// GeneratorFunc adapts a plain function to a TextGenerator. Used by tests.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func (f GeneratorFunc) Version() string { return "test" }
