package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jkivela/ankictl/internal/anki"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "ankictl",
	Short: "Work with red-flagged Anki cards from the command line",
	Long: `ankictl talks to the AnkiConnect add-on of a locally running Anki,
extracts the cards you marked with the red flag, classifies them by how
soon they are due, and can generate study example sentences for the
extracted vocabulary via OpenRouter.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the ankictl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ankictl version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(flaggedCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v", err)
		var ae *anki.Error
		if errors.As(err, &ae) {
			fmt.Fprintln(os.Stderr, "Make sure Anki is running and the AnkiConnect add-on is installed.")
		}
		os.Exit(1)
	}
}
