// ABOUTME: Concierge orchestrates one question: quota check, retrieval, generation, history update
// ABOUTME: Failed questions leave the session untouched; quota exhaustion is a result, not an error
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/book-concierge/internal/models"
)

// DefaultTopK is the number of passages retrieved per question
const DefaultTopK = 3

// Options configures a Concierge
type Options struct {
	TopK          int
	MaxQuestions  int
	RefineEnabled bool
	Logger        *zap.Logger
}

// Concierge is shared by every session in the process
type Concierge struct {
	retriever     *Retriever
	generator     *AnswerGenerator
	topK          int
	maxQuestions  int
	refineEnabled bool
	logger        *zap.Logger
}

// NewConcierge creates a new Concierge instance
func NewConcierge(retriever *Retriever, generator *AnswerGenerator, opts Options) *Concierge {
	if opts.TopK < 1 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxQuestions < 1 {
		opts.MaxQuestions = DefaultMaxQuestions
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Concierge{
		retriever:     retriever,
		generator:     generator,
		topK:          opts.TopK,
		maxQuestions:  opts.MaxQuestions,
		refineEnabled: opts.RefineEnabled,
		logger:        opts.Logger,
	}
}

// NewSession starts a session with this concierge's quota
func (c *Concierge) NewSession() *Session {
	s := NewSession(c.maxQuestions)
	c.logger.Debug("session started", zap.String("session_id", s.ID()), zap.Int("max_questions", s.MaxQuestions()))
	return s
}

// TopK returns the configured retrieval depth
func (c *Concierge) TopK() int { return c.topK }

// RefineEnabled reports the default refinement setting
func (c *Concierge) RefineEnabled() bool { return c.refineEnabled }

type askOptions struct {
	refine bool
}

// AskOption adjusts a single Ask call
type AskOption func(*askOptions)

// WithRefinement overrides the concierge-level refinement flag for one question
func WithRefinement(enabled bool) AskOption {
	return func(o *askOptions) { o.refine = enabled }
}

// Ask handles one question for session s.
// Once the session has answered its quota, Ask returns a result with QuotaExceeded set
// and makes no network calls. Retrieval and generation failures return an error
// wrapping ErrRetrieval or ErrGeneration and leave history and count unchanged.
func (c *Concierge) Ask(ctx context.Context, s *Session, question string, opts ...AskOption) (*models.AnswerResult, error) {
	o := askOptions{refine: c.refineEnabled}
	for _, opt := range opts {
		opt(&o)
	}

	s.ask.Lock()
	defer s.ask.Unlock()

	log := c.logger.With(zap.String("session_id", s.ID()))

	if !s.admit() {
		log.Info("question refused: quota exceeded", zap.Int("question_count", s.QuestionCount()))
		return &models.AnswerResult{
			SessionID:     s.ID(),
			Question:      question,
			QuestionCount: s.QuestionCount(),
			MaxQuestions:  s.MaxQuestions(),
			QuotaExceeded: true,
			Notice:        QuotaNotice(s.MaxQuestions()),
		}, nil
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	number := s.QuestionCount() + 1
	log = log.With(zap.Int("question", number))
	start := time.Now()

	matches, err := c.retriever.Search(ctx, question, c.topK)
	if err != nil {
		log.Warn("retrieval failed", zap.Error(err))
		return nil, err
	}
	retrievalTime := time.Since(start)

	retrievedText := FormatExcerpts(matches)

	draft, err := c.generator.GenerateAnswer(ctx, question, retrievedText, s.History())
	if err != nil {
		log.Warn("generation failed", zap.Error(err))
		return nil, err
	}

	answer := draft
	if o.refine {
		answer, err = c.generator.RefineAnswer(ctx, question, retrievedText, draft)
		if err != nil {
			log.Warn("refinement failed", zap.Error(err))
			return nil, err
		}
	}

	turn, err := models.NewTurn(question, answer)
	if err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}
	count := s.record(turn)

	result := &models.AnswerResult{
		SessionID:     s.ID(),
		Question:      question,
		Answer:        answer,
		Refined:       o.refine,
		Matches:       matches,
		QuestionCount: count,
		MaxQuestions:  s.MaxQuestions(),
	}
	if o.refine {
		result.Draft = draft
	}
	if s.State() == StateQuotaExceeded {
		result.Notice = QuotaNotice(s.MaxQuestions())
	}

	log.Info("question answered",
		zap.Ints("pages", models.Pages(matches)),
		zap.Bool("refined", o.refine),
		zap.Duration("retrieval", retrievalTime),
		zap.Duration("total", time.Since(start)),
		zap.Int("remaining", result.Remaining()),
	)

	return result, nil
}

// Search runs retrieval alone; no session is read or modified
func (c *Concierge) Search(ctx context.Context, query string, k int) ([]models.RetrievalMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuestion
	}
	if k < 1 {
		k = c.topK
	}
	return c.retriever.Search(ctx, query, k)
}
