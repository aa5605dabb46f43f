package claude

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	headingMarkerRe = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)
	boldRe          = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	fencedCodeRe    = regexp.MustCompile("(?m)^```[a-zA-Z0-9]*[ \t]*$\n?")
	inlineCodeRe    = regexp.MustCompile("`([^`\n]*)`")
	confidenceRe    = regexp.MustCompile(`CONFIDENCE SCORE:\s*(\d+(?:\.\d+)?)\s*%`)
)

// CleanMarkup strips the lightweight markdown Claude tends to emit:
// heading markers at line starts, bold-emphasis wrapping, and inline or
// fenced code markers. Literal pattern stripping only, not a markdown
// parser.
func CleanMarkup(text string) string {
	text = headingMarkerRe.ReplaceAllString(text, "")
	text = fencedCodeRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// ExtractConfidence parses a trailing "CONFIDENCE SCORE: N%" annotation
// into a 0-1 fraction. Returns nil when the annotation is absent; a
// missing score is reported as unknown, never defaulted.
func ExtractConfidence(text string) *float64 {
	m := confidenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	f := n / 100
	return &f
}

// StripConfidence removes the confidence annotation line from the text so
// the cleaned result does not repeat what the confidence field carries.
func StripConfidence(text string) string {
	return strings.TrimSpace(confidenceRe.ReplaceAllString(text, ""))
}

// Placeholder reported for a reasoning section whose heading was not found
// in the response. Intentional: real model output varies and an explicit
// marker beats a silent empty string.
const SectionPlaceholder = "Not specified in analysis"

// Heading synonyms per reasoning section, longest first so a prefix match
// never shadows a more specific heading.
var reasoningSections = []struct {
	key      string
	synonyms []string
}{
	{"decision_summary", []string{"DECISION SUMMARY", "DECISION", "SUMMARY"}},
	{"rationale", []string{"RATIONALE", "REASONING", "JUSTIFICATION"}},
	{"supporting_evidence", []string{"SUPPORTING EVIDENCE", "SUPPORTING DATA", "EVIDENCE"}},
	{"alternatives_considered", []string{"ALTERNATIVES CONSIDERED", "ALTERNATIVES", "OTHER OPTIONS"}},
	{"risk_assessment", []string{"RISK ASSESSMENT", "RISK ANALYSIS", "RISKS"}},
}

// ParseSections decomposes cleaned reasoning text into labeled sections by
// scanning for known heading synonyms and capturing up to the next
// all-caps heading line or end of text. A section whose heading never
// appears maps to SectionPlaceholder.
func ParseSections(text string) map[string]string {
	lines := strings.Split(text, "\n")
	out := make(map[string]string, len(reasoningSections))

	for _, sec := range reasoningSections {
		out[sec.key] = SectionPlaceholder

		for i, line := range lines {
			if !isHeadingLine(line) || !matchesHeading(line, sec.synonyms) {
				continue
			}

			var body []string
			for _, next := range lines[i+1:] {
				if isHeadingLine(next) {
					break
				}
				body = append(body, next)
			}
			if captured := strings.TrimSpace(strings.Join(body, "\n")); captured != "" {
				out[sec.key] = captured
			}
			break
		}
	}

	return out
}

// isHeadingLine reports whether line looks like an all-caps section
// heading: contains letters, none of them lowercase.
func isHeadingLine(line string) bool {
	t := strings.TrimSpace(line)
	t = strings.TrimSuffix(t, ":")
	if t == "" {
		return false
	}

	hasLetter := false
	for _, r := range t {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func matchesHeading(line string, synonyms []string) bool {
	t := strings.TrimSpace(line)
	t = strings.TrimSuffix(t, ":")
	t = strings.TrimSpace(t)
	for _, s := range synonyms {
		if t == s || strings.HasPrefix(t, s+" ") {
			return true
		}
	}
	return false
}
