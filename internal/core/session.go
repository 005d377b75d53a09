// ABOUTME: Session holds one conversation's history and question quota
// ABOUTME: Owned by a single caller; never shared between sessions or persisted
package core

import (
	"sync"

	"github.com/google/uuid"

	"github.com/harper/book-concierge/internal/models"
)

// DefaultMaxQuestions is the per-session question quota
const DefaultMaxQuestions = 10

// SessionState is where a session is in its lifecycle
type SessionState int

const (
	// StateAwaitingInput accepts the next question
	StateAwaitingInput SessionState = iota
	// StateQuotaExceeded is terminal
	StateQuotaExceeded
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateQuotaExceeded:
		return "quota_exceeded"
	default:
		return "unknown"
	}
}

// Session is the per-conversation state. The question count is the history length,
// so the two cannot drift apart.
type Session struct {
	id           string
	maxQuestions int

	// ask serialises questions: one is fully resolved before the next starts
	ask sync.Mutex

	mu      sync.RWMutex
	history []models.Turn
	state   SessionState
}

// NewSession starts an empty session. maxQuestions < 1 uses DefaultMaxQuestions.
func NewSession(maxQuestions int) *Session {
	if maxQuestions < 1 {
		maxQuestions = DefaultMaxQuestions
	}
	return &Session{
		id:           uuid.New().String(),
		maxQuestions: maxQuestions,
		state:        StateAwaitingInput,
	}
}

func (s *Session) ID() string        { return s.id }
func (s *Session) MaxQuestions() int { return s.maxQuestions }

// QuestionCount returns the number of answered questions
func (s *Session) QuestionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// State returns the current lifecycle state
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// History returns a copy of the completed turns, oldest first
func (s *Session) History() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Remaining returns how many questions are left
func (s *Session) Remaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := s.maxQuestions - len(s.history); n > 0 {
		return n
	}
	return 0
}

// admit reports whether another question may be processed, closing the session if not
func (s *Session) admit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateQuotaExceeded {
		return false
	}
	if len(s.history) >= s.maxQuestions {
		s.state = StateQuotaExceeded
		return false
	}
	return true
}

// record appends a completed turn and returns the new count
func (s *Session) record(turn models.Turn) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turn)
	if len(s.history) >= s.maxQuestions {
		s.state = StateQuotaExceeded
	}
	return len(s.history)
}
