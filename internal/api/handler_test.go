package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jkivela/ankictl/internal/anki"
	"github.com/jkivela/ankictl/internal/examples"
)

// --- mocks ---

type mockDecks struct {
	names []string
	err   error
}

func (m *mockDecks) DeckNames(context.Context) ([]string, error) {
	return m.names, m.err
}

type mockFlagged struct {
	cards []anki.FlaggedCard
	err   error
}

func (m *mockFlagged) FlaggedCards(context.Context) ([]anki.FlaggedCard, error) {
	return m.cards, m.err
}

type mockGenerator struct {
	result examples.Result
	err    error

	generated bool
	dryRan    bool
	gotCards  []anki.FlaggedCard
}

func (m *mockGenerator) Generate(_ context.Context, cards []anki.FlaggedCard) (examples.Result, error) {
	m.generated = true
	m.gotCards = cards
	return m.result, m.err
}

func (m *mockGenerator) DryRun(cards []anki.FlaggedCard) (examples.Result, error) {
	m.dryRan = true
	m.gotCards = cards
	return m.result, m.err
}

func testCards() []anki.FlaggedCard {
	return []anki.FlaggedCard{
		{Card: anki.Card{CardID: 1}, DueBucket: anki.DueBucketNone},
		{Card: anki.Card{CardID: 2}, DueBucket: 3},
		{Card: anki.Card{CardID: 3}, DueBucket: 0},
	}
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHealth(t *testing.T) {
	h := NewHandler(Deps{})
	rec := doRequest(t, h, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestDecks(t *testing.T) {
	h := NewHandler(Deps{Decks: &mockDecks{names: []string{"Default", "Suomi"}}})
	rec := doRequest(t, h, "GET", "/decks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(names) != 2 || names[0] != "Default" {
		t.Errorf("names = %v", names)
	}
}

func TestFlagged_SortedByDueBucket(t *testing.T) {
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}})
	rec := doRequest(t, h, "GET", "/flagged", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var cards []anki.FlaggedCard
	if err := json.Unmarshal(rec.Body.Bytes(), &cards); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	wantOrder := []int64{3, 2, 1}
	for i, id := range wantOrder {
		if cards[i].CardID != id {
			t.Errorf("cards[%d].CardID = %d, want %d", i, cards[i].CardID, id)
		}
	}
}

func TestFlagged_Limit(t *testing.T) {
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}})
	rec := doRequest(t, h, "GET", "/flagged?limit=1", "")

	var cards []anki.FlaggedCard
	if err := json.Unmarshal(rec.Body.Bytes(), &cards); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(cards) != 1 || cards[0].CardID != 3 {
		t.Errorf("cards = %+v, want just card 3", cards)
	}
}

func TestFlagged_BadLimit(t *testing.T) {
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}})
	rec := doRequest(t, h, "GET", "/flagged?limit=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFlagged_AnkiErrorIs502(t *testing.T) {
	h := NewHandler(Deps{Flagged: &mockFlagged{err: &anki.Error{Message: "collection unavailable"}}})
	rec := doRequest(t, h, "GET", "/flagged", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "collection unavailable") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestExamples(t *testing.T) {
	gen := &mockGenerator{result: examples.Result{Words: []string{"talo"}, Text: "sentences"}}
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}, Generator: gen})

	rec := doRequest(t, h, "POST", "/examples", `{"limit":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !gen.generated || gen.dryRan {
		t.Errorf("generated = %v, dryRan = %v", gen.generated, gen.dryRan)
	}
	if len(gen.gotCards) != 2 {
		t.Errorf("generator saw %d cards, want 2", len(gen.gotCards))
	}
	if gen.gotCards[0].CardID != 3 {
		t.Errorf("generator saw card %d first, want 3 (most urgent)", gen.gotCards[0].CardID)
	}
}

func TestExamples_DryRun(t *testing.T) {
	gen := &mockGenerator{result: examples.Result{Words: []string{"talo"}, Prompt: "the prompt"}}
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}, Generator: gen})

	rec := doRequest(t, h, "POST", "/examples", `{"dry_run":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !gen.dryRan || gen.generated {
		t.Errorf("dryRan = %v, generated = %v", gen.dryRan, gen.generated)
	}
}

func TestExamples_NoWordsIs422(t *testing.T) {
	gen := &mockGenerator{err: examples.ErrNoWords}
	h := NewHandler(Deps{Flagged: &mockFlagged{}, Generator: gen})

	rec := doRequest(t, h, "POST", "/examples", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}, Token: "secret"})

	rec := doRequest(t, h, "GET", "/flagged", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("GET", "/flagged", nil)
	req.Header.Set("Authorization", "Bearer secret")
	okRec := httptest.NewRecorder()
	h.ServeHTTP(okRec, req)
	if okRec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", okRec.Code)
	}

	// Health stays open.
	health := doRequest(t, h, "GET", "/health", "")
	if health.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", health.Code)
	}
}

func TestAuthDisabledWithoutToken(t *testing.T) {
	h := NewHandler(Deps{Flagged: &mockFlagged{cards: testCards()}})
	rec := doRequest(t, h, "GET", "/flagged", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no token configured", rec.Code)
	}
}
