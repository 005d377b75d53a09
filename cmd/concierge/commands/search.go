// ABOUTME: CLI command to search the book index without asking a question
// ABOUTME: Shows the nearest passages as a table or JSON; does not use a session
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/book-concierge/internal/core"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the book for relevant passages",
		Long: `Search the book index for the passages nearest to a query.

Runs the same retrieval step used for answering, without calling the
chat model and without using any question quota.

Examples:
  concierge search "conditional formatting"
  concierge search --limit 10 "savings goals"
  concierge search --format json "LibreOffice"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", core.DefaultTopK, "Maximum passages to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Validate limit flag
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	a, err := bootstrap(consoleLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")

	matches, err := a.concierge.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching book: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(matches) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No passages found for query: %s\n", query)
		}
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tPAGE\tDISTANCE\tPREVIEW\n")
	fmt.Fprintf(w, "----\t----\t--------\t-------\n")

	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%s\n",
			m.Rank,
			m.Passage.Page,
			m.Distance,
			truncate(oneLine(m.Passage.Text), 70))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d passage(s)\n", len(matches))
	}

	return nil
}
