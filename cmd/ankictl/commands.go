package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkivela/ankictl/internal/anki"
	"github.com/jkivela/ankictl/internal/config"
	"github.com/jkivela/ankictl/internal/examples"
	"github.com/jkivela/ankictl/internal/export"
	"github.com/jkivela/ankictl/internal/proxy"
)

func newRetriever() (*anki.Retriever, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	return anki.NewRetriever(anki.New(cfg.Anki.BaseURL)), cfg, nil
}

// --- decks ---

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List all deck names in the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		names, err := anki.New(cfg.Anki.BaseURL).DeckNames(cmd.Context())
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

// --- flagged ---

var flaggedCmd = &cobra.Command{
	Use:   "flagged",
	Short: "List red-flagged cards with due classification",
	Long: `List every card whose note carries the red flag, enriched with the
note's fields and tags, the card's review interval, and a due bucket:
0-14 for "due in exactly N days", later otherwise.

Cards are printed most urgent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		retriever, _, err := newRetriever()
		if err != nil {
			return err
		}

		cards, err := retriever.FlaggedCards(cmd.Context())
		if err != nil {
			return err
		}

		sorted := anki.ByDueBucket(cards)
		if limit > 0 && len(sorted) > limit {
			sorted = sorted[:limit]
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sorted)
		}

		if len(sorted) == 0 {
			fmt.Println("No flagged cards found.")
			return nil
		}

		for _, c := range sorted {
			fmt.Println(formatCard(c))
		}
		return nil
	},
}

// formatCard renders one enriched card as a display line.
func formatCard(c anki.FlaggedCard) string {
	word := examples.Word(c)
	if word == "" {
		word = fmt.Sprintf("card %d", c.CardID)
	}

	parts := []string{
		colorize(colorBold, word),
		colorize(colorCyan, dueLabel(c.DueBucket)),
		fmt.Sprintf("ivl %dd", c.Interval),
	}
	if c.DeckName != "" {
		parts = append(parts, c.DeckName)
	}
	if len(c.NoteTags) > 0 {
		parts = append(parts, "#"+strings.Join(c.NoteTags, " #"))
	}
	return strings.Join(parts, "  ")
}

// dueLabel turns a due bucket into a short human label.
func dueLabel(bucket int) string {
	switch {
	case bucket == anki.DueBucketUnknown:
		return "due ?"
	case bucket == anki.DueBucketNone:
		return "later"
	case bucket == 0:
		return "due today"
	default:
		return fmt.Sprintf("due %dd", bucket)
	}
}

func init() {
	flaggedCmd.Flags().Int("limit", 0, "maximum number of cards to show (0 = all)")
	flaggedCmd.Flags().Bool("json", false, "print raw JSON instead of a table")
}

// --- examples ---

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Generate example sentences for the flagged vocabulary",
	Long: `Extract the front-field words of the red-flagged cards, most urgent
first, and ask the configured OpenRouter model for study example
sentences. The word list and the generated text are written to two
text files in the export directory.

With --dry-run the assembled prompt is printed instead and nothing is
sent to OpenRouter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		outDir, _ := cmd.Flags().GetString("output")

		retriever, cfg, err := newRetriever()
		if err != nil {
			return err
		}

		cards, err := retriever.FlaggedCards(cmd.Context())
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			printWarning("No flagged cards found; nothing to generate.")
			return nil
		}

		sorted := anki.ByDueBucket(cards)
		if limit > 0 && len(sorted) > limit {
			sorted = sorted[:limit]
		}

		gen := examples.NewGenerator(
			proxy.NewClient(cfg.Proxy.OpenRouterAPIKey),
			cfg.Proxy.Model,
			cfg.Prompt.Language,
			cfg.Prompt.Level,
		)

		if dryRun {
			res, err := gen.DryRun(sorted)
			if err != nil {
				return err
			}
			fmt.Println(res.Prompt)
			return nil
		}

		if err := cfg.RequireOpenRouterKey(); err != nil {
			return err
		}

		res, err := gen.Generate(cmd.Context(), sorted)
		if err != nil {
			return err
		}

		if outDir == "" {
			outDir = cfg.Export.Dir
		}
		files, err := export.NewWriter(outDir).Export(res.Words, res.Text)
		if err != nil {
			return err
		}

		printSuccess("Generated examples for %d words", len(res.Words))
		printStatus("Words", "%s", files.Words)
		printStatus("Examples", "%s", files.Examples)
		return nil
	},
}

func init() {
	examplesCmd.Flags().Int("limit", 0, "only use the N most urgent cards (0 = all)")
	examplesCmd.Flags().Bool("dry-run", false, "print the prompt instead of calling OpenRouter")
	examplesCmd.Flags().String("output", "", "export directory (default: configured export.dir)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
