// Package patterns holds the ordered text-matching strategies used to pull
// profile fields out of resume text.
package patterns

import (
	"regexp"
	"strings"
)

// Matcher is one named strategy for a single profile field.
type Matcher struct {
	Name  string
	Match func(text string) (string, bool)
}

// FirstMatch runs strategies in order and returns the first non-empty result.
// It returns "" when no strategy matches.
func FirstMatch(strategies []Matcher, text string) string {
	for _, m := range strategies {
		if v, ok := m.Match(text); ok && v != "" {
			return v
		}
	}
	return ""
}

// Regex returns a Matcher that captures submatch group of re and passes the trimmed
// result through post, if any.
func Regex(name string, re *regexp.Regexp, group int, post func(string) string) Matcher {
	return Matcher{
		Name: name,
		Match: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil || len(m) <= group {
				return "", false
			}
			v := strings.TrimSpace(m[group])
			if post != nil {
				v = strings.TrimSpace(post(v))
			}
			return v, v != ""
		},
	}
}

// labelBlock builds a regex capturing the text after one of labels, either on the same
// line after a ":" or "-" separator, or on the lines below a bare heading. The capture
// ends at a blank line, at terminator, or at end of text.
func labelBlock(labels []string, terminator string) *regexp.Regexp {
	alt := make([]string, len(labels))
	for i, l := range labels {
		alt[i] = strings.ReplaceAll(regexp.QuoteMeta(l), " ", `[ \t]+`)
	}
	l := strings.Join(alt, "|")
	return regexp.MustCompile(
		`(?im:\b(?:` + l + `)[ \t]*[:\-]|^[ \t]*(?:` + l + `)[ \t]*$)` +
			`[ \t]*\n?[ \t]*([\s\S]+?)(?:\n[ \t]*\n|` + terminator + `|\z)`,
	)
}

// vocabularyRegex builds a case-insensitive whole-word alternation over words.
func vocabularyRegex(words []string) *regexp.Regexp {
	alt := make([]string, len(words))
	for i, w := range words {
		alt[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alt, "|") + `)\b`)
}
