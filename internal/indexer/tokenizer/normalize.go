// Package tokenizer canonicalizes place names and breaks them into the
// boundary-padded n-grams the match index is keyed on.
package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var replacer = strings.NewReplacer(
	"–", "-",
	"’", "'",
	"/", " ",
	" - ", " ",
)

// Normalize lowercases text, folds a few punctuation variants, drops every
// rune that is not a letter, number, mark, apostrophe, hyphen or space, and
// collapses whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = replacer.Replace(text)
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r):
			return r
		case r == '\'' || r == '-':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, text)
	// Composition runs after stripping: a dropped rune between a letter and
	// its combining mark would otherwise leave the pair decomposed.
	text = norm.NFC.String(text)
	text = strings.Join(strings.Fields(text), " ")
	// Stripping can expose new " - " separators, e.g. "a (-) b".
	for strings.Contains(text, " - ") {
		text = strings.ReplaceAll(text, " - ", " ")
	}
	return text
}
