// ABOUTME: Role-tagged chat messages and the per-request prompt context
// ABOUTME: PromptContext.Messages builds the ordered message list sent to the completion service
package models

import "fmt"

// Chat roles understood by the completion service
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a prompt
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptContext is assembled fresh for each question and never stored
type PromptContext struct {
	SystemInstructions string
	History            []Turn
	RetrievedText      string
	UserQuestion       string
}

// Messages returns the system instruction, then each prior turn as a
// user/assistant pair in chronological order, then the final user message.
func (p PromptContext) Messages() []Message {
	msgs := make([]Message, 0, 2+2*len(p.History))
	msgs = append(msgs, Message{Role: RoleSystem, Content: p.SystemInstructions})

	for _, turn := range p.History {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: turn.User},
			Message{Role: RoleAssistant, Content: turn.Assistant},
		)
	}

	return append(msgs, Message{Role: RoleUser, Content: p.finalUserMessage()})
}

func (p PromptContext) finalUserMessage() string {
	if p.RetrievedText == "" {
		return fmt.Sprintf("Question: %s", p.UserQuestion)
	}
	return fmt.Sprintf("Book excerpts:\n\n%s\n\nQuestion: %s", p.RetrievedText, p.UserQuestion)
}
