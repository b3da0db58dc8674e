// Package api exposes the flagged-card retrieval and example
// generation over a local HTTP API and an MCP server.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jkivela/ankictl/internal/anki"
	"github.com/jkivela/ankictl/internal/examples"
)

const maxExamplesBodySize = 1 << 20 // 1MB

// DeckLister lists deck names from the collection.
type DeckLister interface {
	DeckNames(ctx context.Context) ([]string, error)
}

// FlaggedLister retrieves the enriched flagged-card list.
type FlaggedLister interface {
	FlaggedCards(ctx context.Context) ([]anki.FlaggedCard, error)
}

// ExampleGenerator produces example sentences for a card set.
type ExampleGenerator interface {
	Generate(ctx context.Context, cards []anki.FlaggedCard) (examples.Result, error)
	DryRun(cards []anki.FlaggedCard) (examples.Result, error)
}

// Deps holds the collaborators for the HTTP and MCP surfaces.
type Deps struct {
	Decks     DeckLister
	Flagged   FlaggedLister
	Generator ExampleGenerator
	Token     string // optional; empty disables bearer auth
}

// NewHandler builds the local HTTP API. All routes except /health sit
// behind bearer auth when a token is configured.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(bearerAuth(deps.Token))
		}
		r.Get("/decks", handleDecks(deps))
		r.Get("/flagged", handleFlagged(deps))
		r.Post("/examples", handleExamples(deps))
	})

	return r
}

func handleDecks(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := deps.Decks.DeckNames(r.Context())
		if err != nil {
			ankiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, names)
	}
}

func handleFlagged(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid limit %q", raw)
				return
			}
			limit = n
		}

		cards, err := deps.Flagged.FlaggedCards(r.Context())
		if err != nil {
			ankiError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sortAndTruncate(cards, limit))
	}
}

type examplesRequest struct {
	Limit  int  `json:"limit"`
	DryRun bool `json:"dry_run"`
}

func handleExamples(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxExamplesBodySize)
		defer r.Body.Close()

		var req examplesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Limit < 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be non-negative")
			return
		}

		cards, err := deps.Flagged.FlaggedCards(r.Context())
		if err != nil {
			ankiError(w, err)
			return
		}
		cards = sortAndTruncate(cards, req.Limit)

		var result examples.Result
		if req.DryRun {
			result, err = deps.Generator.DryRun(cards)
		} else {
			result, err = deps.Generator.Generate(r.Context(), cards)
		}
		if err != nil {
			if errors.Is(err, examples.ErrNoWords) {
				httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "%v", err)
				return
			}
			httpError(w, http.StatusBadGateway, "api_error", "%v", err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// sortAndTruncate applies the display-layer ordering: due bucket
// ascending, truncated to limit when positive.
func sortAndTruncate(cards []anki.FlaggedCard, limit int) []anki.FlaggedCard {
	sorted := anki.ByDueBucket(cards)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ankiError maps a service failure to 502: the remote collaborator was
// unreachable or rejected the call, regardless of which.
func ankiError(w http.ResponseWriter, err error) {
	var ae *anki.Error
	if errors.As(err, &ae) {
		httpError(w, http.StatusBadGateway, "api_error", "%v", err)
		return
	}
	httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
