package builtin

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ExactKey returns s unchanged. It is the default join-key function: names
// that differ in case or whitespace do not match.
func ExactKey(s string) string { return s }

// FoldKey canonicalises s for caseless matching: non-breaking spaces become
// spaces, surrounding whitespace is trimmed, the text is NFC-normalised and
// then case-folded.
func FoldKey(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	s = norm.NFC.String(s)
	return cases.Fold().String(s)
}

// KeyFunc returns the join-key function for a policy name: "fold" selects
// FoldKey, anything else ExactKey.
func KeyFunc(policy string) func(string) string {
	if strings.EqualFold(strings.TrimSpace(policy), "fold") {
		return FoldKey
	}
	return ExactKey
}
