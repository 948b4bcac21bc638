package messages

import (
	"regexp"
	"strings"
)

// Role is the author of a message as the chat APIs name it.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of the prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System wraps instructions that steer the model.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User wraps the text the model is asked to work on.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Build assembles the ordered prompt: a system message when promptBody is not
// empty, then a user message when userInput is not empty.
func Build(promptBody, userInput string) []Message {
	result := make([]Message, 0, 2)
	if promptBody != "" {
		result = append(result, System(promptBody))
	}
	if userInput != "" {
		result = append(result, User(userInput))
	}
	return result
}

var frontmatterBlock = regexp.MustCompile(`^---\n(?s:.*?)\n---\n`)

// PromptBody returns the text of a personality note without its leading
// frontmatter block, trimmed of surrounding whitespace.
func PromptBody(raw string) string {
	return strings.TrimSpace(frontmatterBlock.ReplaceAllString(raw, ""))
}

// Split partitions msgs into the system prompts and the remaining conversation,
// keeping the relative order of both.
func Split(msgs []Message) (system []string, chat []Message) {
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		chat = append(chat, m)
	}
	return system, chat
}
