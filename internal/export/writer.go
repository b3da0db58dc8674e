// Package export writes generation output to plain text files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Writer writes the word list and the generated examples of one run
// into a directory, creating it as needed. Each run gets a fresh id so
// earlier output is never clobbered.
type Writer struct {
	dir string
}

// NewWriter creates a Writer targeting dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Files holds the paths written by one export run.
type Files struct {
	Words    string
	Examples string
}

// Export writes words-<id>.txt and examples-<id>.txt and returns both paths.
func (w *Writer) Export(words []string, text string) (Files, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("creating export dir: %w", err)
	}

	runID := uuid.New().String()[:8]
	out := Files{
		Words:    filepath.Join(w.dir, fmt.Sprintf("words-%s.txt", runID)),
		Examples: filepath.Join(w.dir, fmt.Sprintf("examples-%s.txt", runID)),
	}

	wordsContent := strings.Join(words, "\n") + "\n"
	if err := os.WriteFile(out.Words, []byte(wordsContent), 0o644); err != nil {
		return Files{}, fmt.Errorf("writing word list: %w", err)
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := os.WriteFile(out.Examples, []byte(text), 0o644); err != nil {
		return Files{}, fmt.Errorf("writing examples: %w", err)
	}

	return out, nil
}
