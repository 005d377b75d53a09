// ABOUTME: CLI command to ask a single question in a fresh session
// ABOUTME: Prints the answer with its question counter and optionally the excerpts used
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/book-concierge/internal/core"
	"github.com/harper/book-concierge/internal/models"
)

var (
	askRefine       bool
	askShowExcerpts bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question about the book",
		Long: `Ask one question about the book in a new session.

The question is matched against the book index and answered only
from the retrieved excerpts. Use --refine for a second pass that
improves clarity and formatting, and --show-excerpts to see the
passages the answer was based on.

Examples:
  concierge ask "Who is this book for?"
  concierge ask --refine "How do I track monthly bills?"
  concierge ask --show-excerpts --format json "Does it cover LibreOffice?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askRefine, "refine", false, "Run the refinement pass (overrides CONCIERGE_REFINE)")
	cmd.Flags().BoolVar(&askShowExcerpts, "show-excerpts", false, "Show the book excerpts used for the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(consoleLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	refine := a.cfg.RefineEnabled
	if cmd.Flags().Changed("refine") {
		refine = askRefine
	}

	session := a.concierge.NewSession()
	question := strings.Join(args, " ")

	result, err := a.concierge.Ask(cmd.Context(), session, question, core.WithRefinement(refine))
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	printAnswer(cmd.OutOrStdout(), result, askShowExcerpts)
	return nil
}

// printAnswer renders an AnswerResult as plain text
func printAnswer(w io.Writer, res *models.AnswerResult, showExcerpts bool) {
	if res.QuotaExceeded {
		fmt.Fprintln(w, res.Notice)
		return
	}

	fmt.Fprintf(w, "Question %d of %d\n\n", res.QuestionCount, res.MaxQuestions)
	if res.Refined && res.Draft != "" {
		fmt.Fprintf(w, "Original answer:\n%s\n\nRefined answer:\n%s\n", res.Draft, res.Answer)
	} else {
		fmt.Fprintf(w, "%s\n", res.Answer)
	}

	if showExcerpts {
		fmt.Fprintf(w, "\nBook excerpts used:\n")
		if len(res.Matches) == 0 {
			fmt.Fprintf(w, "  (none)\n")
		}
		for _, m := range res.Matches {
			fmt.Fprintf(w, "\n  Page %d\n  %s\n", m.Passage.Page, strings.ReplaceAll(m.Passage.Text, "\n", "\n  "))
		}
	}

	if res.Notice != "" && !quiet {
		fmt.Fprintf(w, "\n%s\n", res.Notice)
	}
}
