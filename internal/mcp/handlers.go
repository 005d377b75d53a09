// ABOUTME: MCP tool handler implementations for the book concierge server
// ABOUTME: Tool failures are returned as error results so the agent can show them
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/book-concierge/internal/core"
	"github.com/harper/book-concierge/internal/models"
)

// Concierge is the subset of *core.Concierge the handlers need
type Concierge interface {
	Ask(ctx context.Context, s *core.Session, question string, opts ...core.AskOption) (*models.AnswerResult, error)
	Search(ctx context.Context, query string, k int) ([]models.RetrievalMatch, error)
	TopK() int
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	concierge     Concierge
	session       *core.Session
	refineDefault bool
}

// NewHandlers binds handlers to one session
func NewHandlers(concierge Concierge, session *core.Session, refineDefault bool) *Handlers {
	return &Handlers{concierge: concierge, session: session, refineDefault: refineDefault}
}

// AskBook handles the ask_book tool
func (h *Handlers) AskBook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	refine := request.GetBool("refine", h.refineDefault)

	result, err := h.concierge.Ask(ctx, h.session, question, core.WithRefinement(refine))
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	return jsonResult(result)
}

type searchResponse struct {
	Query   string                  `json:"query"`
	Matches []models.RetrievalMatch `json:"matches"`
	Count   int                     `json:"count"`
}

// SearchBook handles the search_book tool
func (h *Handlers) SearchBook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", h.concierge.TopK())
	if limit < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be >= 1, got %d", limit)), nil
	}

	matches, err := h.concierge.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	return jsonResult(searchResponse{Query: query, Matches: matches, Count: len(matches)})
}

type statusResponse struct {
	SessionID     string `json:"session_id"`
	State         string `json:"state"`
	QuestionCount int    `json:"question_count"`
	MaxQuestions  int    `json:"max_questions"`
	Remaining     int    `json:"remaining"`
	RefineDefault bool   `json:"refine_default"`
}

// SessionStatus handles the session_status tool
func (h *Handlers) SessionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(statusResponse{
		SessionID:     h.session.ID(),
		State:         h.session.State().String(),
		QuestionCount: h.session.QuestionCount(),
		MaxQuestions:  h.session.MaxQuestions(),
		Remaining:     h.session.Remaining(),
		RefineDefault: h.refineDefault,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

func toolError(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		return "question must not be empty"
	case errors.Is(err, core.ErrRetrieval):
		return fmt.Sprintf("book search failed, the question was not counted: %v", err)
	case errors.Is(err, core.ErrGeneration):
		return fmt.Sprintf("answer generation failed, the question was not counted: %v", err)
	default:
		return err.Error()
	}
}
