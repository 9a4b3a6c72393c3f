package server

import (
	"regexp"
	"strings"
)

// Identity/caste-sensitive terms the model must never echo back. Ordered
// longest-phrase-first so multi-word terms are rewritten before their
// substrings could match. Replacement text never contains a flagged term,
// which is what makes sanitizeOutgoing idempotent.
var sensitiveTermReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bscheduled\s+castes?\b`), "historically marginalized communities"},
	{regexp.MustCompile(`(?i)\bscheduled\s+tribes?\b`), "historically marginalized communities"},
	{regexp.MustCompile(`(?i)\bbackward\s+class(?:es)?\b`), "historically disadvantaged communities"},
	{regexp.MustCompile(`(?i)\blower\s+castes?\b`), "marginalized communities"},
	{regexp.MustCompile(`(?i)\bupper\s+castes?\b`), "privileged communities"},
	{regexp.MustCompile(`(?i)\bhigh\s+castes?\b`), "privileged communities"},
	{regexp.MustCompile(`(?i)\buntouchables?\b`), "members of marginalized communities"},
	{regexp.MustCompile(`(?i)\buntouchability\b`), "caste-based exclusion"},
	{regexp.MustCompile(`(?i)\bcasteist\b`), "discriminatory"},
}

// sanitizeOutgoing rewrites sensitive identity terms in generated text to
// neutral phrasing. It only touches the replaced spans; nothing else in the
// text is reflowed or truncated.
func sanitizeOutgoing(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	for _, term := range sensitiveTermReplacements {
		text = term.pattern.ReplaceAllString(text, term.replacement)
	}
	return text
}
