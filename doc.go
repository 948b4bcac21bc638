// Package persona runs AI personalities against markdown notes.
//
// A personality is a note whose YAML frontmatter selects a vendor and model
// and whose body is the system prompt:
//
//	---
//	note-type: ai-personality
//	provider: openai
//	model: gpt-4o-mini
//	temperature: 0.2
//	---
//	You are a concise writing coach.
//
// Running a personality sends the selected text of the open document to the
// vendor and writes the answer below the selection as it streams in:
//
//	v, _ := vault.Open("notes")
//	r := persona.New(v, persona.WithSettings(settings.File{Path: settings.DefaultPath()}))
//	state, err := r.Run(ctx, "personalities/Coach.md", buf)
//
// Every invocation moves through Idle, ValidatingInput,
// AwaitingProviderResponse, ApplyingOutput and ends in Done or Aborted.
// Validation failures leave the document untouched. Once output has been
// written it stays in place even when the vendor fails halfway.
package persona
