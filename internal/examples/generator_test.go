package examples

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jkivela/ankictl/internal/anki"
)

type mockCompleter struct {
	response string
	err      error

	model  string
	system string
	user   string
}

func (m *mockCompleter) Complete(_ context.Context, model, system, user string) (string, error) {
	m.model, m.system, m.user = model, system, user
	return m.response, m.err
}

var ctx = context.Background()

func TestGenerate(t *testing.T) {
	mc := &mockCompleter{response: "1. Talo on iso. — The house is big."}
	g := NewGenerator(mc, "test/model", "Finnish", "A2")

	cards := []anki.FlaggedCard{
		card(map[string]anki.NoteField{"Front": {Value: "talo", Order: 0}}),
	}

	res, err := g.Generate(ctx, cards)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(res.Words) != 1 || res.Words[0] != "talo" {
		t.Errorf("Words = %v, want [talo]", res.Words)
	}
	if res.Text != mc.response {
		t.Errorf("Text = %q", res.Text)
	}
	if mc.model != "test/model" {
		t.Errorf("model = %q", mc.model)
	}
	if !strings.Contains(mc.user, "talo") {
		t.Errorf("user prompt missing word: %q", mc.user)
	}
	if mc.system == "" {
		t.Error("system instruction not sent")
	}
}

func TestGenerate_NoWords(t *testing.T) {
	g := NewGenerator(&mockCompleter{}, "m", "Finnish", "A2")

	_, err := g.Generate(ctx, nil)
	if !errors.Is(err, ErrNoWords) {
		t.Errorf("error = %v, want ErrNoWords", err)
	}
}

func TestGenerate_CompletionError(t *testing.T) {
	mc := &mockCompleter{err: errors.New("boom")}
	g := NewGenerator(mc, "m", "Finnish", "A2")

	cards := []anki.FlaggedCard{
		card(map[string]anki.NoteField{"Front": {Value: "talo", Order: 0}}),
	}
	_, err := g.Generate(ctx, cards)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v", err)
	}
}

func TestDryRun(t *testing.T) {
	mc := &mockCompleter{}
	g := NewGenerator(mc, "m", "Finnish", "A2")

	cards := []anki.FlaggedCard{
		card(map[string]anki.NoteField{"Front": {Value: "kissa", Order: 0}}),
	}
	res, err := g.DryRun(cards)
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty on dry run", res.Text)
	}
	if !strings.Contains(res.Prompt, "kissa") {
		t.Errorf("Prompt = %q", res.Prompt)
	}
	if mc.user != "" {
		t.Error("dry run must not call the model")
	}
}
