// Package messages builds the prompt sent to a provider for one personality run.
//
// A run sends a single exchange: the personality's prompt body as the system
// message followed by the user's selected text. Either part may be missing:
//
//	msgs := messages.Build(messages.PromptBody(raw), selection)
//
// Messages are plain values; providers translate them into their own wire
// format (for example Gemini folds system messages into systemInstruction and
// renames the assistant role to model).
package messages
