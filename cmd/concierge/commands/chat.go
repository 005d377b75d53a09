// ABOUTME: CLI command for an interactive chat session in the terminal
// ABOUTME: Runs the Bubble Tea UI until the quota is reached or the user quits
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/book-concierge/internal/tui"
)

var chatRefine bool

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Start an interactive question-and-answer session about the book.

Prior questions and answers in the session are sent with each new
question, so follow-ups work naturally. The session ends when the
question limit is reached.

Keys:
  enter   ask the question
  ctrl+e  show or hide the excerpts used for the last answer
  ctrl+r  toggle the refinement pass
  esc     quit

Logs are written only to CONCIERGE_LOG_FILE while the UI is open.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().BoolVar(&chatRefine, "refine", false, "Start with the refinement pass enabled")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(fileLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	refine := a.cfg.RefineEnabled
	if cmd.Flags().Changed("refine") {
		refine = chatRefine
	}

	session := a.concierge.NewSession()
	model := tui.New(cmd.Context(), a.concierge, session, a.cfg.BookTitle, refine)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running chat UI: %w", err)
	}

	a.logger.Info("session ended",
		zap.String("session_id", session.ID()),
		zap.Int("questions", session.QuestionCount()))

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Session ended after %d of %d questions.\n",
			session.QuestionCount(), session.MaxQuestions())
	}
	return nil
}
