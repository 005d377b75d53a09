// ABOUTME: Root command and global flags for the Book Concierge CLI
// ABOUTME: Loads .env before any subcommand and wires signal-aware contexts
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

const banner = `
 ██████╗  ██████╗  ██████╗ ██╗  ██╗
 ██╔══██╗██╔═══██╗██╔═══██╗██║ ██╔╝
 ██████╔╝██║   ██║██║   ██║█████╔╝
 ██╔══██╗██║   ██║██║   ██║██╔═██╗
 ██████╔╝╚██████╔╝╚██████╔╝██║  ██╗
 ╚═════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═╝  concierge`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concierge",
		Short: "Ask questions about one book, answered only from its pages",
		Long: banner + `

Book Concierge answers questions using only the content of one book.
Each question is matched against a pre-built passage index, and the
most relevant excerpts are handed to a language model together with
the conversation so far. A session allows a fixed number of questions.

Configuration comes from built-in defaults, an optional YAML file
(--config), and environment variables (OPENAI_API_KEY, CONCIERGE_*).
A .env file in the working directory is loaded automatically.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("--format must be auto, text or json, got %q", outputFormat)
			}
			// Missing .env is fine; real environment variables still apply
			_ = godotenv.Load()
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors and suppress hints")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, json")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	cmd.AddCommand(
		NewAskCmd(),
		NewChatCmd(),
		NewSearchCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the CLI with a context cancelled on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
