package analyzer

import "context"

// Request is one classification call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Classifier submits a prompt to a hosted model and returns the model's
// raw text.
type Classifier interface {
	Classify(ctx context.Context, req Request) (string, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, req Request) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
