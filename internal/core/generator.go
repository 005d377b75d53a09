// ABOUTME: AnswerGenerator builds role-structured prompts and calls the completion service
// ABOUTME: Supports a first answer with history and an optional history-free refinement pass
package core

import (
	"context"
	"fmt"

	"github.com/harper/book-concierge/internal/models"
)

// Completer sends messages to a chat model and returns its text verbatim
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// AnswerGenerator holds the fixed system instruction for one book
type AnswerGenerator struct {
	completer    Completer
	instructions string
}

// NewAnswerGenerator creates a new AnswerGenerator instance
func NewAnswerGenerator(completer Completer, instructions string) *AnswerGenerator {
	return &AnswerGenerator{completer: completer, instructions: instructions}
}

// GenerateAnswer answers question from retrievedText, replaying history in chronological order
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, question, retrievedText string, history []models.Turn) (string, error) {
	prompt := models.PromptContext{
		SystemInstructions: g.instructions,
		History:            history,
		RetrievedText:      retrievedText,
		UserQuestion:       question,
	}

	answer, err := g.completer.Complete(ctx, prompt.Messages())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return answer, nil
}

// RefineAnswer asks the model to improve a draft. Conversation history is not sent.
func (g *AnswerGenerator) RefineAnswer(ctx context.Context, question, retrievedText, draft string) (string, error) {
	refined, err := g.completer.Complete(ctx, refineMessages(question, retrievedText, draft))
	if err != nil {
		return "", fmt.Errorf("%w: refinement: %w", ErrGeneration, err)
	}
	return refined, nil
}
