package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jkivela/ankictl/internal/anki"
	"github.com/jkivela/ankictl/internal/examples"
)

// NewMCPServer creates an MCP server exposing the flagged-card queue
// and example generation as tools, so an agent can read the user's
// priority vocabulary directly.
func NewMCPServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ankictl",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("ankictl — red-flagged Anki cards with due classification and example-sentence generation."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_decks",
			mcp.WithDescription("List all deck names in the Anki collection."),
		),
		mcpListDecks(deps),
	)

	s.AddTool(
		mcp.NewTool("list_flagged_cards",
			mcp.WithDescription("List red-flagged cards enriched with note fields, tags, review interval, and due bucket, sorted by due bucket ascending."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of cards to return (default: all)")),
		),
		mcpListFlagged(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_examples",
			mcp.WithDescription("Generate study example sentences for the red-flagged vocabulary."),
			mcp.WithNumber("limit", mcp.Description("Only use the N most urgent cards (default: all)")),
			mcp.WithBoolean("dry_run", mcp.Description("Return the prompt instead of calling the generation model")),
		),
		mcpGenerateExamples(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"anki://flagged",
			"Flagged Cards",
			mcp.WithResourceDescription("Red-flagged cards with due classification, as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceFlagged(deps),
	)

	return s
}

func mcpListDecks(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := deps.Decks.DeckNames(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("listing decks: %v", err)), nil
		}

		b, err := json.Marshal(names)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal decks: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListFlagged(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 0)
		if limit < 0 {
			limit = 0
		}

		cards, err := deps.Flagged.FlaggedCards(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("retrieving flagged cards: %v", err)), nil
		}

		b, err := json.Marshal(sortAndTruncate(cards, limit))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal cards: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGenerateExamples(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 0)
		if limit < 0 {
			limit = 0
		}
		dryRun := req.GetBool("dry_run", false)

		cards, err := deps.Flagged.FlaggedCards(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("retrieving flagged cards: %v", err)), nil
		}
		cards = sortAndTruncate(cards, limit)

		result, err := generate(ctx, deps.Generator, cards, dryRun)
		if err != nil {
			return mcpError(fmt.Sprintf("generating examples: %v", err)), nil
		}

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func generate(ctx context.Context, g ExampleGenerator, cards []anki.FlaggedCard, dryRun bool) (examples.Result, error) {
	if dryRun {
		return g.DryRun(cards)
	}
	return g.Generate(ctx, cards)
}

func mcpResourceFlagged(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cards, err := deps.Flagged.FlaggedCards(ctx)
		if err != nil {
			return nil, fmt.Errorf("retrieving flagged cards: %w", err)
		}

		b, err := json.Marshal(sortAndTruncate(cards, 0))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cards: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
