// ABOUTME: Test scenario data structures for grounding benchmarks
// ABOUTME: Defines question sequences, expected answer phrases, and the pages each answer should draw on

package ragas

import (
	"encoding/json"
	"fmt"
	"os"
)

// TestScenario is one benchmark run through a fresh session
type TestScenario struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Refine      bool               `json:"refine,omitempty"`
	Turns       []ConversationTurn `json:"turns"`
	GroundTruth GroundTruth        `json:"ground_truth"`
}

// ConversationTurn is a single question in a scenario
type ConversationTurn struct {
	TurnNumber int    `json:"turn"`
	Question   string `json:"question"`
}

// GroundTruth defines expected outcomes for the scored turn
type GroundTruth struct {
	FinalQueryTurn      int      `json:"final_query_turn"`
	ExpectedInResponse  []string `json:"expected_in_response,omitempty"`  // Strings that MUST appear in the answer
	ForbiddenInResponse []string `json:"forbidden_in_response,omitempty"` // Strings that MUST NOT appear in the answer

	// Pages that should appear among the retrieved excerpts
	ExpectedPages []int `json:"expected_pages,omitempty"`

	// The scored turn must be refused by the question limit
	ExpectQuotaExceeded bool `json:"expect_quota_exceeded,omitempty"`
}

// TestResult represents the outcome of a benchmark test
type TestResult struct {
	TestID             string                 `json:"test_id"`
	TestName           string                 `json:"test_name"`
	FaithfulnessScore  float64                `json:"faithfulness"`
	ContextRecallScore float64                `json:"context_recall"`
	OverallScore       float64                `json:"overall"`
	Status             string                 `json:"status"` // "PASS" or "FAIL"
	Details            map[string]interface{} `json:"details,omitempty"`
	ErrorMessage       string                 `json:"error,omitempty"`
}

// Validate checks that the scored turn exists and turns are numbered in order
func (s TestScenario) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scenario has no id")
	}
	if len(s.Turns) == 0 {
		return fmt.Errorf("scenario %s has no turns", s.ID)
	}
	for i, turn := range s.Turns {
		if turn.TurnNumber != i+1 {
			return fmt.Errorf("scenario %s: turn %d is numbered %d", s.ID, i+1, turn.TurnNumber)
		}
	}
	if s.GroundTruth.FinalQueryTurn < 1 || s.GroundTruth.FinalQueryTurn > len(s.Turns) {
		return fmt.Errorf("scenario %s: final_query_turn %d out of range", s.ID, s.GroundTruth.FinalQueryTurn)
	}
	return nil
}

// LoadScenarios reads a JSON array of scenarios written for a specific book
func LoadScenarios(path string) ([]TestScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}

	var scenarios []TestScenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", path)
	}

	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

// GetBudgetFormulaTest asks a direct question the book answers on its formula pages
func GetBudgetFormulaTest() TestScenario {
	return TestScenario{
		ID:          "formula",
		Name:        "Monthly Total Formula",
		Description: "Tests that a direct how-to question is answered from the formula chapter",
		Turns: []ConversationTurn{
			{TurnNumber: 1, Question: "How do I add up all my expenses for the month?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:     1,
			ExpectedInResponse: []string{"SUM"},
		},
	}
}

// GetFollowUpTest checks that a follow-up resolves against the previous answer
func GetFollowUpTest() TestScenario {
	return TestScenario{
		ID:          "follow_up",
		Name:        "Follow-up Question",
		Description: "Tests that prior turns are carried into the next answer",
		Turns: []ConversationTurn{
			{TurnNumber: 1, Question: "How should I lay out a monthly budget sheet?"},
			{TurnNumber: 2, Question: "Can you show me an example of that?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:     2,
			ExpectedInResponse: []string{"budget"},
		},
	}
}

// GetOffTopicTest checks that unrelated questions are steered back to the book
func GetOffTopicTest() TestScenario {
	return TestScenario{
		ID:          "off_topic",
		Name:        "Off-topic Refusal",
		Description: "Tests that the assistant stays within the book's scope",
		Turns: []ConversationTurn{
			{TurnNumber: 1, Question: "Who won the football world cup in 1998?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:      1,
			ExpectedInResponse:  []string{"book"},
			ForbiddenInResponse: []string{"France"},
		},
	}
}

// GetQuotaTest asks one question past the default limit
func GetQuotaTest() TestScenario {
	turns := make([]ConversationTurn, 11)
	for i := range turns {
		turns[i] = ConversationTurn{
			TurnNumber: i + 1,
			Question:   fmt.Sprintf("What is tip number %d for keeping a budget spreadsheet tidy?", i+1),
		}
	}
	return TestScenario{
		ID:          "quota",
		Name:        "Question Limit",
		Description: "Tests that the eleventh question is refused without an answer",
		Turns:       turns,
		GroundTruth: GroundTruth{
			FinalQueryTurn:      11,
			ExpectQuotaExceeded: true,
		},
	}
}

// GetAllTests returns the built-in scenarios
func GetAllTests() []TestScenario {
	return []TestScenario{
		GetBudgetFormulaTest(),
		GetFollowUpTest(),
		GetOffTopicTest(),
		GetQuotaTest(),
	}
}
