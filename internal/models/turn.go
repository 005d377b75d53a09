// ABOUTME: Turn represents one completed question/answer exchange in a session
// ABOUTME: Turns are immutable once created and appended in order to session history
package models

import (
	"errors"
	"strings"
)

// ErrEmptyUserMessage is returned when a turn is built from a blank question
var ErrEmptyUserMessage = errors.New("user message cannot be empty")

// Turn is a single conversation exchange
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// NewTurn creates a new Turn with validation
func NewTurn(user, assistant string) (Turn, error) {
	if strings.TrimSpace(user) == "" {
		return Turn{}, ErrEmptyUserMessage
	}
	return Turn{User: user, Assistant: assistant}, nil
}
