// ABOUTME: Tests for prompt text and excerpt formatting
// ABOUTME: Includes the excerpt/page-label round trip
package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/harper/book-concierge/internal/models"
)

func matchesFor(records ...models.PassageRecord) []models.RetrievalMatch {
	out := make([]models.RetrievalMatch, len(records))
	for i, r := range records {
		out[i] = models.RetrievalMatch{Passage: r, Rank: i + 1}
	}
	return out
}

func TestFormatExcerpts(t *testing.T) {
	got := FormatExcerpts(matchesFor(
		models.PassageRecord{Page: 12, Text: "Fixed costs."},
		models.PassageRecord{Page: 3, Text: "Line one\nLine two"},
	))
	want := "[Page 12]:\nFixed costs.\n\n[Page 3]:\nLine one\nLine two"
	if got != want {
		t.Errorf("FormatExcerpts() = %q, want %q", got, want)
	}

	if got := FormatExcerpts(nil); got != "" {
		t.Errorf("FormatExcerpts(nil) = %q, want empty", got)
	}
}

func TestParsePageLabels_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		records []models.PassageRecord
	}{
		{name: "empty"},
		{name: "single", records: []models.PassageRecord{{Page: 7, Text: "x"}}},
		{name: "preserves order", records: []models.PassageRecord{
			{Page: 47, Text: "later page first"},
			{Page: 4, Text: "then an early page"},
			{Page: 47, Text: "and a repeat"},
		}},
		{name: "multiline text", records: []models.PassageRecord{
			{Page: 1, Text: "Budget [Page 2] is mentioned inline\nnot as a label"},
			{Page: 9, Text: ""},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := matchesFor(tt.records...)
			got := ParsePageLabels(FormatExcerpts(matches))
			want := models.Pages(matches)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ParsePageLabels() = %v, want %v", got, want)
			}
		})
	}
}

func TestSystemInstructions(t *testing.T) {
	text := SystemInstructions("Mastering Excel for Home Budgeting")
	for _, want := range []string{
		"'Mastering Excel for Home Budgeting'",
		"ONLY answer questions based on the content",
		"same language the user wrote in",
		"Default to English",
		"Markdown",
		"Do not push a sale",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("SystemInstructions() missing %q", want)
		}
	}
}

func TestLoadInstructions(t *testing.T) {
	got, err := LoadInstructions("", "My Book")
	if err != nil {
		t.Fatalf("LoadInstructions failed: %v", err)
	}
	if got != SystemInstructions("My Book") {
		t.Error("empty path should return the built-in instructions")
	}

	path := filepath.Join(t.TempDir(), "instructions.txt")
	if err := os.WriteFile(path, []byte("  Only talk about gardening.\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = LoadInstructions(path, "My Book")
	if err != nil {
		t.Fatalf("LoadInstructions failed: %v", err)
	}
	if got != "Only talk about gardening." {
		t.Errorf("LoadInstructions() = %q, want file contents", got)
	}

	if _, err := LoadInstructions(filepath.Join(t.TempDir(), "missing.txt"), "x"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRefineMessages(t *testing.T) {
	msgs := refineMessages("What is SUMIF?", "[Page 30]:\nTotals.", "It sums.")
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != models.RoleSystem || msgs[1].Role != models.RoleUser {
		t.Errorf("roles = %s,%s, want system,user", msgs[0].Role, msgs[1].Role)
	}
	for _, want := range []string{"What is SUMIF?", "[Page 30]:\nTotals.", "It sums.", "Respond with only the improved answer."} {
		if !strings.Contains(msgs[1].Content, want) {
			t.Errorf("refine prompt missing %q", want)
		}
	}
}

func TestQuotaNotice(t *testing.T) {
	want := "You've reached the 10-question limit for this session. Please start a new session to continue."
	if got := QuotaNotice(10); got != want {
		t.Errorf("QuotaNotice(10) = %q, want %q", got, want)
	}
}
