package main

import (
	"strings"
	"testing"

	"github.com/jkivela/ankictl/internal/anki"
)

func TestDueLabel(t *testing.T) {
	tests := []struct {
		bucket int
		want   string
	}{
		{0, "due today"},
		{3, "due 3d"},
		{14, "due 14d"},
		{anki.DueBucketNone, "later"},
		{anki.DueBucketUnknown, "due ?"},
	}
	for _, tt := range tests {
		if got := dueLabel(tt.bucket); got != tt.want {
			t.Errorf("dueLabel(%d) = %q, want %q", tt.bucket, got, tt.want)
		}
	}
}

func TestFormatCard(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()
	noColor = true

	c := anki.FlaggedCard{
		Card:       anki.Card{CardID: 201, DeckName: "Suomi"},
		Interval:   7,
		NoteFields: map[string]anki.NoteField{"Front": {Value: "<b>talo</b>", Order: 0}},
		NoteTags:   []string{"noun"},
		DueBucket:  3,
	}

	line := formatCard(c)
	for _, want := range []string{"talo", "due 3d", "ivl 7d", "Suomi", "#noun"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "<b>") {
		t.Errorf("line %q contains raw markup", line)
	}
}

func TestFormatCard_NoFields(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()
	noColor = true

	c := anki.FlaggedCard{Card: anki.Card{CardID: 201}, DueBucket: anki.DueBucketNone}
	line := formatCard(c)
	if !strings.Contains(line, "card 201") {
		t.Errorf("line = %q", line)
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if got := colorize(colorGreen, "hi"); got != "hi" {
		t.Errorf("colorize with noColor = %q", got)
	}

	noColor = false
	if got := colorize(colorGreen, "hi"); !strings.Contains(got, "\033[32m") {
		t.Errorf("colorize without noColor = %q", got)
	}
}
