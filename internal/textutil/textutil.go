// Package textutil provides the small set of text primitives the
// interpreter and protocol layers need: case folding, trimming, and
// whitespace splitting.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCaser = cases.Fold()

// FoldUpper case-folds s the Unicode-correct way, used to compare SQL
// keywords case-insensitively regardless of the client's locale.
func FoldUpper(s string) string {
	return strings.ToUpper(foldCaser.String(s))
}

// Fields splits s on runs of ASCII whitespace, dropping empty fields.
func Fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
	})
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// TrimPunct removes any of the given cut-set characters from both ends of
// s, used to strip the statement's trailing semicolon and parens.
func TrimPunct(s, cutset string) string {
	return strings.Trim(s, cutset)
}

// DefaultLanguage is the tag used for any future locale-aware formatting;
// kept centralized rather than sprinkling language.Und across callers.
var DefaultLanguage = language.Und
