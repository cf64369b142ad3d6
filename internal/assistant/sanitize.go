package assistant

import (
	"regexp"
	"strings"
)

const maxInputLength = 2000

var injectionPatterns = compilePatterns(
	"ignore previous instructions",
	"forget all previous",
	"new instructions:",
	"system:",
	"assistant:",
	"you are now",
	"pretend you are",
	"act as if",
	"roleplay as",
	"bypass",
	"override",
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)))
	}
	return out
}

// sanitizeInput redacts common prompt injection phrases and caps the length.
func sanitizeInput(input string) string {
	sanitized := input
	for _, re := range injectionPatterns {
		sanitized = re.ReplaceAllString(sanitized, "[redacted]")
	}
	return truncate(sanitized, maxInputLength)
}

// sanitizeCode only caps the length. Code is quoted inside a fence, so redaction would corrupt it.
func sanitizeCode(code string) string {
	return truncate(strings.ReplaceAll(code, "```", "'''"), maxInputLength*2)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
