// Package examples turns flagged cards into a word list and asks a
// chat-completion model for study example sentences.
package examples

import (
	"html"
	"regexp"
	"strings"

	"github.com/jkivela/ankictl/internal/anki"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Word returns the study word for a card: the value of the lowest-order
// note field (the front), with HTML markup stripped and whitespace
// collapsed. Empty if the card carries no fields.
func Word(card anki.FlaggedCard) string {
	front := ""
	frontOrder := -1
	for _, f := range card.NoteFields {
		if frontOrder == -1 || f.Order < frontOrder {
			frontOrder = f.Order
			front = f.Value
		}
	}
	return cleanField(front)
}

// Words extracts the word list from a card set, dropping empties and
// duplicates. First occurrence wins, so the input order carries over.
func Words(cards []anki.FlaggedCard) []string {
	seen := make(map[string]struct{}, len(cards))
	var out []string
	for _, c := range cards {
		w := Word(c)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// cleanField strips HTML tags, unescapes entities, and collapses
// whitespace. Anki front fields routinely carry markup and &nbsp;.
func cleanField(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
