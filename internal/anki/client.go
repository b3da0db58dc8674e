// Package anki talks to the AnkiConnect add-on's HTTP automation API
// and assembles the enriched flagged-card view used by the rest of
// the tool.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// protocolVersion is the AnkiConnect API version sent with every request.
const protocolVersion = 6

// DefaultBaseURL is where a stock AnkiConnect install listens.
const DefaultBaseURL = "http://localhost:8765"

// Error is the single error kind surfaced by this package. Transport
// failures (connection refused, bad status, undecodable body) and
// application failures (non-null error field in the response) both
// arrive as *Error; callers are expected to print the message and give
// up rather than branch on the cause.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string { return "anki-connect: " + e.Message }

func (e *Error) Unwrap() error { return e.cause }

func transportErr(err error) *Error {
	return &Error{Message: "request failed: " + err.Error(), cause: err}
}

// Client performs AnkiConnect action round trips against a single base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given AnkiConnect base URL.
// An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// envelope mirrors the AnkiConnect response body. The error field is
// null on success; exactly one of result/error carries meaning.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Invoke performs one action round trip and returns the raw result
// payload. Every call is atomic success-or-error; there are no retries.
func (c *Client) Invoke(ctx context.Context, action string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"action":  action,
		"version": protocolVersion,
		"params":  params,
	})
	if err != nil {
		return nil, transportErr(fmt.Errorf("marshalling %s request: %w", action, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, transportErr(fmt.Errorf("creating %s request: %w", action, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr(fmt.Errorf("%s: %w", action, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, transportErr(fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, transportErr(fmt.Errorf("decoding %s response: %w", action, err))
	}

	if env.Error != nil && *env.Error != "" {
		return nil, &Error{Message: *env.Error}
	}
	return env.Result, nil
}

// invokeInto runs Invoke and unmarshals the result payload into v.
func (c *Client) invokeInto(ctx context.Context, action string, params map[string]any, v any) error {
	raw, err := c.Invoke(ctx, action, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return transportErr(fmt.Errorf("decoding %s result: %w", action, err))
	}
	return nil
}

// DeckNames returns the names of all decks in the collection.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invokeInto(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// FindNotes returns the note ids matching an Anki search expression.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invokeInto(ctx, "findNotes", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindCards returns the card ids matching an Anki search expression.
func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invokeInto(ctx, "findCards", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo returns full note records for the given note ids.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]Note, error) {
	var notes []Note
	if err := c.invokeInto(ctx, "notesInfo", map[string]any{"notes": noteIDs}, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CardsInfo returns full card records for the given card ids.
func (c *Client) CardsInfo(ctx context.Context, cardIDs []int64) ([]Card, error) {
	var cards []Card
	if err := c.invokeInto(ctx, "cardsInfo", map[string]any{"cards": cardIDs}, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetIntervals returns the current review interval in days for each
// card. The response is positionally aligned with cardIDs; that
// alignment is an AnkiConnect protocol guarantee.
func (c *Client) GetIntervals(ctx context.Context, cardIDs []int64) ([]int, error) {
	var intervals []int
	if err := c.invokeInto(ctx, "getIntervals", map[string]any{"cards": cardIDs}, &intervals); err != nil {
		return nil, err
	}
	return intervals, nil
}
