// ABOUTME: AnswerResult is the per-question output handed to presentation layers
// ABOUTME: Carries the answer, supporting passages, and quota state
package models

// AnswerResult is returned for every handled question.
// When QuotaExceeded is set no question was processed and Answer is empty.
type AnswerResult struct {
	SessionID     string           `json:"session_id"`
	Question      string           `json:"question"`
	Answer        string           `json:"answer,omitempty"`
	Draft         string           `json:"draft,omitempty"`
	Refined       bool             `json:"refined"`
	Matches       []RetrievalMatch `json:"matches,omitempty"`
	QuestionCount int              `json:"question_count"`
	MaxQuestions  int              `json:"max_questions"`
	QuotaExceeded bool             `json:"quota_exceeded"`
	Notice        string           `json:"notice,omitempty"`
}

// Remaining returns how many questions the session can still ask
func (r AnswerResult) Remaining() int {
	if n := r.MaxQuestions - r.QuestionCount; n > 0 {
		return n
	}
	return 0
}
