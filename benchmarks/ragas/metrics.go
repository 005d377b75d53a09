// ABOUTME: RAGAS-style metrics for answer faithfulness and context recall
// ABOUTME: Deterministic scoring against phrase lists and expected page numbers

package ragas

import (
	"fmt"
	"strings"

	"github.com/harper/book-concierge/internal/models"
)

// MetricsCalculator computes RAGAS scores for benchmark tests
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateFaithfulness computes faithfulness score (0.0-1.0)
// Faithfulness = Does the answer say what the book says and nothing it doesn't?
func (m *MetricsCalculator) CalculateFaithfulness(
	response string,
	expectedInResponse []string,
	forbiddenInResponse []string,
) (float64, string) {
	responseUpper := strings.ToUpper(response)

	missingItems := []string{}
	for _, expected := range expectedInResponse {
		if !strings.Contains(responseUpper, strings.ToUpper(expected)) {
			missingItems = append(missingItems, expected)
		}
	}

	forbiddenFound := []string{}
	for _, forbidden := range forbiddenInResponse {
		if strings.Contains(responseUpper, strings.ToUpper(forbidden)) {
			forbiddenFound = append(forbiddenFound, forbidden)
		}
	}

	switch {
	case len(missingItems) == 0 && len(forbiddenFound) == 0:
		return 1.0, "Perfect faithfulness - response matches expected ground truth"
	case len(missingItems) > 0 && len(forbiddenFound) > 0:
		return 0.0, fmt.Sprintf(
			"Faithfulness failure - missing expected items: %v, forbidden items found: %v",
			missingItems, forbiddenFound,
		)
	case len(missingItems) > 0:
		return 0.5, fmt.Sprintf("Partial faithfulness - missing expected items: %v", missingItems)
	default:
		return 0.5, fmt.Sprintf("Partial faithfulness - forbidden items found: %v", forbiddenFound)
	}
}

// CalculateContextRecall computes context recall score (0.0-1.0)
// Context Recall = Were the expected pages among the retrieved excerpts?
func (m *MetricsCalculator) CalculateContextRecall(
	retrievedPages []int,
	expectedPages []int,
) (float64, string) {
	if len(expectedPages) == 0 {
		return 1.0, "No context retrieval required"
	}

	seen := make(map[int]bool, len(retrievedPages))
	for _, p := range retrievedPages {
		seen[p] = true
	}

	foundCount := 0
	missingPages := []int{}
	for _, p := range expectedPages {
		if seen[p] {
			foundCount++
		} else {
			missingPages = append(missingPages, p)
		}
	}

	recall := float64(foundCount) / float64(len(expectedPages))
	if recall == 1.0 {
		return 1.0, "Perfect context recall - all expected pages retrieved"
	}

	return recall, fmt.Sprintf(
		"Partial context recall (%.2f) - missing pages: %v",
		recall, missingPages,
	)
}

// CalculateQuotaCompliance checks the scored turn was refused exactly when expected
func (m *MetricsCalculator) CalculateQuotaCompliance(result *models.AnswerResult, expectExceeded bool) (bool, string) {
	switch {
	case expectExceeded && !result.QuotaExceeded:
		return false, fmt.Sprintf("Question %d was answered past the limit of %d", result.QuestionCount, result.MaxQuestions)
	case expectExceeded && result.Answer != "":
		return false, "Refused question still carried an answer"
	case !expectExceeded && result.QuotaExceeded:
		return false, "Question was refused before the limit"
	case expectExceeded:
		return true, "Question limit enforced"
	default:
		return true, "Question answered within the limit"
	}
}

// EvaluateTest runs full RAGAS evaluation for the scored turn of a scenario
func (m *MetricsCalculator) EvaluateTest(scenario TestScenario, result *models.AnswerResult) TestResult {
	faithfulness, faithfulnessDetail := m.CalculateFaithfulness(
		result.Answer,
		scenario.GroundTruth.ExpectedInResponse,
		scenario.GroundTruth.ForbiddenInResponse,
	)

	retrievedPages := models.Pages(result.Matches)
	recall, recallDetail := m.CalculateContextRecall(retrievedPages, scenario.GroundTruth.ExpectedPages)

	quotaOK, quotaDetail := m.CalculateQuotaCompliance(result, scenario.GroundTruth.ExpectQuotaExceeded)

	overallScore := (faithfulness + recall) / 2.0

	// Grounded answers need >= 0.9 on both metrics and the limit must hold
	status := "FAIL"
	if quotaOK && faithfulness >= 0.9 && recall >= 0.9 {
		status = "PASS"
	}

	return TestResult{
		TestID:             scenario.ID,
		TestName:           scenario.Name,
		FaithfulnessScore:  faithfulness,
		ContextRecallScore: recall,
		OverallScore:       overallScore,
		Status:             status,
		Details: map[string]interface{}{
			"faithfulness_detail": faithfulnessDetail,
			"recall_detail":       recallDetail,
			"quota_detail":        quotaDetail,
			"final_response":      preview(result.Answer, 200),
			"retrieved_pages":     retrievedPages,
			"question_count":      result.QuestionCount,
		},
	}
}

// preview cuts s to at most n runes
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
