package catalog

import (
	"strings"
	"testing"
)

func TestClassifyShortMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"greeting", "hi there"},
		{"short with code keyword", "fix this bug"},
		{"short with import keyword", "import this"},
		{"49 chars with keyword", strings.Repeat("a", 44) + " bug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.message) >= shortQueryThreshold {
				t.Fatalf("test message %q is not short (%d chars)", tt.message, len(tt.message))
			}
			if got := Classify(tt.message); got != CategoryFast {
				t.Errorf("Classify(%q) = %q, want %q", tt.message, got, CategoryFast)
			}
		})
	}
}

func TestClassifyCodeMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"function keyword", "Please review this function for memory leaks in the allocator"},
		{"uppercase keyword", "THIS LONG MESSAGE MENTIONS A BUG SOMEWHERE IN THE PIPELINE OK"},
		{"language name", "I have been learning python for a while and would like a project idea"},
		{"def with space", "here is my snippet: def handler(request) -> and it keeps crashing on me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.message) < shortQueryThreshold {
				t.Fatalf("test message %q too short (%d chars)", tt.message, len(tt.message))
			}
			if got := Classify(tt.message); got != CategoryCode {
				t.Errorf("Classify(%q) = %q, want %q", tt.message, got, CategoryCode)
			}
		})
	}
}

func TestClassifyGeneralMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"long prose", "Tell me about the history of the Adriatic coast and its most famous lighthouses"},
		{"definition not def", "What is the definition of entropy and why does it always seem to increase"},
		{"variant not var", "Compare the covariant and contravariant forms of this tensor notation please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.message) < shortQueryThreshold {
				t.Fatalf("test message %q too short (%d chars)", tt.message, len(tt.message))
			}
			if got := Classify(tt.message); got != CategoryGeneral {
				t.Errorf("Classify(%q) = %q, want %q", tt.message, got, CategoryGeneral)
			}
		})
	}
}

func TestClassifyNeverCreative(t *testing.T) {
	messages := []string{
		"write me a creative story about dragons and ancient forgotten kingdoms",
		"compose a poem",
		"paint me a picture with words about the sea at dawn, make it vivid and long",
	}
	for _, m := range messages {
		if got := Classify(m); got == CategoryCreative {
			t.Errorf("Classify(%q) = creative; classifier must never produce it", m)
		}
	}
}
