// ABOUTME: Tests for benchmark scoring
// ABOUTME: Covers phrase faithfulness, page recall, and quota compliance

package ragas

import (
	"strings"
	"testing"

	"github.com/harper/book-concierge/internal/models"
)

func TestCalculateFaithfulness(t *testing.T) {
	m := NewMetricsCalculator()

	tests := []struct {
		name      string
		response  string
		expected  []string
		forbidden []string
		want      float64
	}{
		{"all expected, none forbidden", "Use =SUM(B2:B13) for the total.", []string{"sum"}, []string{"AVERAGE"}, 1.0},
		{"missing expected", "Add the cells by hand.", []string{"SUM"}, nil, 0.5},
		{"forbidden present", "Use SUM or AVERAGE.", []string{"SUM"}, []string{"average"}, 0.5},
		{"both failures", "France won.", []string{"book"}, []string{"France"}, 0.0},
		{"no ground truth", "anything", nil, nil, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detail := m.CalculateFaithfulness(tt.response, tt.expected, tt.forbidden)
			if got != tt.want {
				t.Errorf("score = %.2f, want %.2f (%s)", got, tt.want, detail)
			}
		})
	}
}

func TestCalculateContextRecall(t *testing.T) {
	m := NewMetricsCalculator()

	if got, _ := m.CalculateContextRecall([]int{4}, nil); got != 1.0 {
		t.Errorf("no expectations: got %.2f, want 1.0", got)
	}
	if got, _ := m.CalculateContextRecall([]int{12, 30, 4}, []int{4, 12}); got != 1.0 {
		t.Errorf("all found: got %.2f, want 1.0", got)
	}

	got, detail := m.CalculateContextRecall([]int{12}, []int{12, 47})
	if got != 0.5 {
		t.Errorf("half found: got %.2f, want 0.5", got)
	}
	if !strings.Contains(detail, "47") {
		t.Errorf("detail should name the missing page, got %q", detail)
	}
}

func TestCalculateQuotaCompliance(t *testing.T) {
	m := NewMetricsCalculator()

	answered := &models.AnswerResult{Answer: "ok", QuestionCount: 10, MaxQuestions: 10}
	refused := &models.AnswerResult{QuestionCount: 10, MaxQuestions: 10, QuotaExceeded: true}

	if ok, _ := m.CalculateQuotaCompliance(answered, false); !ok {
		t.Error("answered within limit should comply")
	}
	if ok, _ := m.CalculateQuotaCompliance(refused, true); !ok {
		t.Error("refused past limit should comply")
	}
	if ok, _ := m.CalculateQuotaCompliance(answered, true); ok {
		t.Error("answer past limit should not comply")
	}
	if ok, _ := m.CalculateQuotaCompliance(refused, false); ok {
		t.Error("early refusal should not comply")
	}
}

func TestEvaluateTest(t *testing.T) {
	m := NewMetricsCalculator()
	scenario := TestScenario{
		ID:   "formula",
		Name: "Monthly Total Formula",
		Turns: []ConversationTurn{
			{TurnNumber: 1, Question: "How do I total a column?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:     1,
			ExpectedInResponse: []string{"SUM"},
			ExpectedPages:      []int{12},
		},
	}
	res := &models.AnswerResult{
		Answer:        "Use SUM across the column.",
		QuestionCount: 1,
		MaxQuestions:  10,
		Matches: []models.RetrievalMatch{
			{Passage: models.PassageRecord{Page: 12, Text: "SUM adds a range."}, Rank: 1},
		},
	}

	result := m.EvaluateTest(scenario, res)
	if result.Status != "PASS" {
		t.Errorf("Status = %s, want PASS (%v)", result.Status, result.Details)
	}
	if result.OverallScore != 1.0 {
		t.Errorf("OverallScore = %.2f, want 1.0", result.OverallScore)
	}

	res.Matches = nil
	if result := m.EvaluateTest(scenario, res); result.Status != "FAIL" {
		t.Error("missing expected page should fail")
	}
}

func TestPreview(t *testing.T) {
	if got := preview("€€€€", 2); got != "€€" {
		t.Errorf("preview = %q, want %q", got, "€€")
	}
	if got := preview("short", 10); got != "short" {
		t.Errorf("preview = %q, want %q", got, "short")
	}
}
