// ABOUTME: Version command reporting the build and the book it is configured for
// ABOUTME: Works without an API key or index so it can be used to check an install
package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/harper/book-concierge/internal/config"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo contains build information
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// SetVersion sets the version information (called from main)
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

type versionReport struct {
	VersionInfo
	GoVersion string `json:"go_version"`
	BookTitle string `json:"book_title"`
	ChatModel string `json:"chat_model"`
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the build version, commit and date, plus the book title and
chat model the current configuration points at.

An unreadable or invalid config file falls back to the built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Default()
	}

	report := versionReport{
		VersionInfo: versionInfo,
		GoVersion:   runtime.Version(),
		BookTitle:   cfg.BookTitle,
		ChatModel:   cfg.ChatModel,
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}

	fmt.Fprintf(out, "Book Concierge %s\n", report.Version)
	fmt.Fprintf(out, "Commit: %s\n", report.Commit)
	fmt.Fprintf(out, "Built:  %s\n", report.Date)
	fmt.Fprintf(out, "Go:     %s\n", report.GoVersion)
	fmt.Fprintf(out, "Book:   %s\n", report.BookTitle)
	fmt.Fprintf(out, "Model:  %s\n", report.ChatModel)
	return nil
}
