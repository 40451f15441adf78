// Package search normalizes free-text job fields so postings written
// differently compare equal.
package search

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, drops everything but letters, digits and spaces,
// and collapses runs of whitespace.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if unicode.IsSpace(r) || r == '/' || r == ',' {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// CanonicalTitle normalizes a job title and rewrites known variants to
// their canonical term, so "Sr. Back-End Dev" and "senior backend
// developer" yield the same string.
func CanonicalTitle(title string) string {
	words := strings.Fields(Normalize(title))
	if len(words) == 0 {
		return ""
	}

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+1 < len(words) {
			if c, ok := canonical[words[i]+" "+words[i+1]]; ok {
				out = append(out, c)
				i += 2
				continue
			}
		}
		if c, ok := canonical[words[i]]; ok {
			out = append(out, c)
		} else {
			out = append(out, words[i])
		}
		i++
	}
	return strings.Join(out, " ")
}
