package port

import "context"

// ChatModel represents a hosted chat-completion model.
type ChatModel interface {
	// Complete sends a single user prompt and returns the generated text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithSystem sends a system prompt alongside the user prompt.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// Translator rewrites text into English when it is detected as
// Roman-transliterated Urdu. Implementations must return the input
// unchanged on any upstream failure.
type Translator interface {
	Normalize(ctx context.Context, text string) (translated string, wasTransliterated bool)
}
