package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jkivela/ankictl/internal/anki"
	"github.com/jkivela/ankictl/internal/api"
	"github.com/jkivela/ankictl/internal/config"
	"github.com/jkivela/ankictl/internal/examples"
	"github.com/jkivela/ankictl/internal/proxy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local HTTP API and MCP tools (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ankictl system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	fmt.Fprintf(os.Stderr, "ankictl version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireOpenRouterKey(); err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	client := anki.New(cfg.Anki.BaseURL)
	deps := api.Deps{
		Decks:   client,
		Flagged: anki.NewRetriever(client),
		Generator: examples.NewGenerator(
			proxy.NewClient(cfg.Proxy.OpenRouterAPIKey),
			cfg.Proxy.Model,
			cfg.Prompt.Language,
			cfg.Prompt.Level,
		),
		Token: cfg.Server.APIToken,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	// Start the MCP server on stdio in a goroutine.
	stdioSrv := server.NewStdioServer(api.NewMCPServer(deps, version))
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	// Start the HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("ankictl listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	// Probe AnkiConnect with a cheap read.
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if decks, err := anki.New(cfg.Anki.BaseURL).DeckNames(probeCtx); err != nil {
		printStatus("AnkiConnect", "not reachable at %s", cfg.Anki.BaseURL)
	} else {
		printStatus("AnkiConnect", "running at %s (%d decks)", cfg.Anki.BaseURL, len(decks))
	}

	// Check the local API server.
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if cfg.Proxy.OpenRouterAPIKey == "" {
		printStatus("OpenRouter", "no API key configured")
	} else {
		printStatus("OpenRouter", "key configured, model %s", cfg.Proxy.Model)
	}
	printStatus("Prompt", "%s, level %s", cfg.Prompt.Language, cfg.Prompt.Level)
	printStatus("Export dir", "%s", cfg.Export.Dir)
	return nil
}
