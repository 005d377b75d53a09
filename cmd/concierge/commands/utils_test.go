// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, oneLine, and validation helpers

package commands

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length unchanged",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "long string truncated",
			input:  "hello world",
			maxLen: 8,
			want:   "hello...",
		},
		{
			name:   "very short maxLen",
			input:  "hello",
			maxLen: 2,
			want:   "he",
		},
		{
			name:   "multibyte runes",
			input:  "presupuesto de gastos €€€",
			maxLen: 13,
			want:   "presupuest...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 5,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestOneLine(t *testing.T) {
	got := oneLine("  Track fixed\ncosts\t in a   table. ")
	want := "Track fixed costs in a table."
	if got != want {
		t.Errorf("oneLine() = %q, want %q", got, want)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{n: 1},
		{n: 10},
		{n: 0, wantErr: true},
		{n: -3, wantErr: true},
	}
	for _, tt := range tests {
		err := validatePositiveInt(tt.n, "limit")
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePositiveInt(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}
