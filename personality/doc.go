// Package personality turns the loosely typed frontmatter of a personality note
// into a closed Config and resolves the credential the configured provider needs.
//
// A personality note looks like:
//
//	---
//	note-type: ai-personality
//	provider: gemini
//	model: gemini-1.5-flash
//	temperature: 0.2
//	gemini:
//	  sensitivity:
//	    harassment: low
//	---
//	You are a terse copy editor.
//
// Required keys (note-type, provider, model) are validated strictly, optional
// keys silently fall back to their defaults when they have the wrong type.
package personality
