package catalog

import "strings"

// shortQueryThreshold is the message length below which a query is always
// routed to the fast tier, regardless of content.
const shortQueryThreshold = 50

// codeKeywords are substrings that signal programming or debugging intent.
// Matched case-insensitively. The trailing spaces on "def " / "const " /
// "var " avoid matching words like "definition" or "variant".
var codeKeywords = []string{
	"code", "function", "class", "def ", "const ", "var ",
	"import", "error", "bug", "debug", "python", "javascript",
}

// Classify maps a user message to a routing category. Pure and
// deterministic: no I/O, no randomness.
//
// Short messages win over everything — "fix this bug" is 12 characters, so
// it classifies as fast even though it contains a code keyword.
func Classify(message string) Category {
	if len(message) < shortQueryThreshold {
		return CategoryFast
	}

	lower := strings.ToLower(message)
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			return CategoryCode
		}
	}

	return CategoryGeneral
}
