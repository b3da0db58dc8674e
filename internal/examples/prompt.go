package examples

import (
	"fmt"
	"strings"
)

// systemPrompt is the fixed instruction sent with every generation call.
const systemPrompt = `You are a language tutor preparing study material for spaced-repetition flashcards. Write natural sentences appropriate to the learner's level and keep the English translations faithful. Output plain text, one word section at a time.`

// BuildPrompt renders the user message for the generation call: the
// learner's language and level, the sentence requirements, and the
// word list.
func BuildPrompt(words []string, language, level string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I'm learning %s language on level %s.\n", language, level)
	sb.WriteString(`Please generate 5 example sentences for each of the words provided below with translation to English.
- one simple and short sentence (near 7 words)
- one medium (7-12 words) length sentence on theme of AI
- one medium (7-12 words) length sentence on theme of well-being
- one medium (7-12 words) length sentence on theme of ecology and responsible consumption
- one medium (7-12 words) length sentence on theme of cycling as a hobby
Words:
`)
	sb.WriteString(strings.Join(words, "\n"))
	return sb.String()
}
