package port

import "context"

// Translator is a chat-completion backend. Complete sends one system/user
// prompt pair and returns the raw completion text. Exactly one call is made
// per question; callers must not retry on malformed output.
type Translator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
