package examples

import (
	"context"
	"errors"
	"fmt"

	"github.com/jkivela/ankictl/internal/anki"
)

// ErrNoWords is returned when the card set yields no usable words.
var ErrNoWords = errors.New("no words to generate examples for")

// Completer is the chat-completion call used for generation.
type Completer interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Result holds the extracted word list and the generated text. Text is
// empty for dry runs, Prompt for real ones.
type Result struct {
	Words  []string `json:"words"`
	Text   string   `json:"text,omitempty"`
	Prompt string   `json:"prompt,omitempty"`
}

// Generator produces example sentences for flagged-card vocabulary.
type Generator struct {
	client   Completer
	model    string
	language string
	level    string
}

// NewGenerator creates a Generator using the given completion client,
// model name, and learner settings.
func NewGenerator(client Completer, model, language, level string) *Generator {
	return &Generator{client: client, model: model, language: language, level: level}
}

// Generate extracts the word list from cards, builds the prompt, and
// performs one blocking generation call.
func (g *Generator) Generate(ctx context.Context, cards []anki.FlaggedCard) (Result, error) {
	words := Words(cards)
	if len(words) == 0 {
		return Result{}, ErrNoWords
	}

	text, err := g.client.Complete(ctx, g.model, systemPrompt, BuildPrompt(words, g.language, g.level))
	if err != nil {
		return Result{}, fmt.Errorf("generating examples: %w", err)
	}
	return Result{Words: words, Text: text}, nil
}

// DryRun extracts the word list and returns the prompt that Generate
// would send, without calling the model.
func (g *Generator) DryRun(cards []anki.FlaggedCard) (Result, error) {
	words := Words(cards)
	if len(words) == 0 {
		return Result{}, ErrNoWords
	}
	return Result{Words: words, Prompt: BuildPrompt(words, g.language, g.level)}, nil
}
