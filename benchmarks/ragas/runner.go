// ABOUTME: Test runner for grounding benchmarks - executes scenarios and collects results
// ABOUTME: Each scenario gets a fresh concierge session so quotas and history never leak between tests

package ragas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/book-concierge/internal/core"
	"github.com/harper/book-concierge/internal/models"
)

// BenchmarkRunner executes benchmark scenarios against a concierge
type BenchmarkRunner struct {
	concierge *core.Concierge
	metrics   *MetricsCalculator
	verbose   bool
	out       io.Writer
}

// NewBenchmarkRunner creates a new benchmark runner writing progress to out
func NewBenchmarkRunner(concierge *core.Concierge, verbose bool, out io.Writer) *BenchmarkRunner {
	if out == nil {
		out = io.Discard
	}
	return &BenchmarkRunner{
		concierge: concierge,
		metrics:   NewMetricsCalculator(),
		verbose:   verbose,
		out:       out,
	}
}

// RunTest executes a single benchmark scenario
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) (TestResult, error) {
	if err := scenario.Validate(); err != nil {
		return TestResult{}, err
	}

	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RUNNING: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Description: %s\n\n", scenario.Description)
	}

	session := r.concierge.NewSession()

	var opts []core.AskOption
	if scenario.Refine {
		opts = append(opts, core.WithRefinement(true))
	}

	var scored *models.AnswerResult
	for _, turn := range scenario.Turns {
		if r.verbose {
			fmt.Fprintf(r.out, "[Turn %d] User: %s\n", turn.TurnNumber, turn.Question)
		}

		res, err := r.concierge.Ask(ctx, session, turn.Question, opts...)
		if err != nil {
			return TestResult{}, fmt.Errorf("turn %d failed: %w", turn.TurnNumber, err)
		}

		if r.verbose {
			if res.QuotaExceeded {
				fmt.Fprintf(r.out, "[Turn %d] (refused: %s)\n\n", turn.TurnNumber, res.Notice)
			} else {
				fmt.Fprintf(r.out, "[Turn %d] AI: %s\n", turn.TurnNumber, preview(res.Answer, 150))
				fmt.Fprintf(r.out, "  [DEBUG] Pages: %v\n\n", models.Pages(res.Matches))
			}
		}

		if turn.TurnNumber == scenario.GroundTruth.FinalQueryTurn {
			scored = res
		}
	}

	result := r.metrics.EvaluateTest(scenario, scored)

	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RESULTS: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Fprintf(r.out, "Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Fprintf(r.out, "Overall Score: %.2f\n", result.OverallScore)
		fmt.Fprintf(r.out, "Status: %s\n", result.Status)
		fmt.Fprintf(r.out, "========================================\n\n")
	}

	return result, nil
}

// RunAll executes scenarios in order. A scenario that errors is recorded as FAIL
// and the run continues, unless ctx is done.
func (r *BenchmarkRunner) RunAll(ctx context.Context, scenarios []TestScenario) ([]TestResult, error) {
	results := make([]TestResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunTest(ctx, scenario)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			result = TestResult{
				TestID:       scenario.ID,
				TestName:     scenario.Name,
				Status:       "FAIL",
				ErrorMessage: err.Error(),
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// Summary is the exported shape of a benchmark run
type Summary struct {
	Timestamp  string       `json:"timestamp"`
	TotalTests int          `json:"total_tests"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Results    []TestResult `json:"results"`
}

// Summarize counts passes and failures
func Summarize(results []TestResult) Summary {
	s := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalTests: len(results),
		Results:    results,
	}
	for _, result := range results {
		if result.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// ExportResults writes the run summary as indented JSON
func ExportResults(results []TestResult, outputPath string) error {
	jsonData, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	return nil
}
