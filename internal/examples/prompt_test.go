package examples

import (
	"strings"
	"testing"

	"github.com/jkivela/ankictl/internal/anki"
)

func card(fields map[string]anki.NoteField) anki.FlaggedCard {
	return anki.FlaggedCard{NoteFields: fields}
}

func TestWord_FrontField(t *testing.T) {
	c := card(map[string]anki.NoteField{
		"Back":  {Value: "house", Order: 1},
		"Front": {Value: "talo", Order: 0},
	})
	if got := Word(c); got != "talo" {
		t.Errorf("Word = %q, want talo", got)
	}
}

func TestWord_StripsMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>talo</b>", "talo"},
		{"talo&nbsp;", "talo"},
		{"  kest&auml;v&auml;  ", "kestävä"},
		{"<div>py&ouml;r&auml;<br></div>", "pyörä"},
		{"", ""},
	}
	for _, tt := range tests {
		c := card(map[string]anki.NoteField{"Front": {Value: tt.in, Order: 0}})
		if got := Word(c); got != tt.want {
			t.Errorf("Word(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWords_DedupeAndOrder(t *testing.T) {
	cards := []anki.FlaggedCard{
		card(map[string]anki.NoteField{"Front": {Value: "talo", Order: 0}}),
		card(map[string]anki.NoteField{"Front": {Value: "kissa", Order: 0}}),
		card(map[string]anki.NoteField{"Front": {Value: "<i>talo</i>", Order: 0}}),
		card(nil),
	}

	got := Words(cards)
	want := []string{"talo", "kissa"}
	if len(got) != len(want) {
		t.Fatalf("Words = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt([]string{"talo", "kissa"}, "Finnish", "A2")

	for _, want := range []string{
		"I'm learning Finnish language on level A2.",
		"5 example sentences",
		"well-being",
		"Words:\ntalo\nkissa",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildPrompt_ConfigurableLanguage(t *testing.T) {
	p := BuildPrompt([]string{"hus"}, "Norwegian", "B1")
	if !strings.Contains(p, "Norwegian language on level B1") {
		t.Errorf("prompt = %q", p)
	}
}
