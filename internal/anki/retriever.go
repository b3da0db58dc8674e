package anki

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const flaggedQuery = "flag:1"

// Retriever builds the enriched flagged-card list out of several
// AnkiConnect calls. It holds no state between calls; every retrieval
// starts from scratch.
type Retriever struct {
	client *Client
}

// NewRetriever creates a Retriever on top of the given client.
func NewRetriever(client *Client) *Retriever {
	return &Retriever{client: client}
}

// FlaggedCards returns every card belonging to a red-flagged note,
// enriched with the parent note's fields and tags, the card's review
// interval, and a due bucket (0..14 for "due in exactly N days",
// DueBucketNone beyond the window, DueBucketUnknown if the note join
// failed). Cards come back in cardsInfo order. Any client error aborts
// the whole retrieval; no partial list is ever returned.
func (r *Retriever) FlaggedCards(ctx context.Context) ([]FlaggedCard, error) {
	noteIDs, err := r.client.FindNotes(ctx, flaggedQuery)
	if err != nil {
		return nil, err
	}
	if len(noteIDs) == 0 {
		return []FlaggedCard{}, nil
	}

	cardIDs, err := r.client.FindCards(ctx, nidQuery(noteIDs))
	if err != nil {
		return nil, err
	}
	if len(cardIDs) == 0 {
		return []FlaggedCard{}, nil
	}

	cards, err := r.client.CardsInfo(ctx, cardIDs)
	if err != nil {
		return nil, err
	}

	intervals, err := r.client.GetIntervals(ctx, cardIDs)
	if err != nil {
		return nil, err
	}
	// getIntervals responses are positionally aligned with the request ids.
	intervalByCard := make(map[int64]int, len(cardIDs))
	for i, id := range cardIDs {
		if i < len(intervals) {
			intervalByCard[id] = intervals[i]
		}
	}

	notes, err := r.client.NotesInfo(ctx, noteIDs)
	if err != nil {
		return nil, err
	}
	notesByID := make(map[int64]Note, len(notes))
	bucketByNote := make(map[int64]int, len(notes))
	for _, n := range notes {
		notesByID[n.NoteID] = n
		bucketByNote[n.NoteID] = DueBucketNone
	}

	matches, err := r.scanDueWindow(ctx)
	if err != nil {
		return nil, err
	}
	// Apply strictly in ascending day order: a note matching several
	// windows keeps the largest matching day.
	for day, ids := range matches {
		for _, id := range ids {
			if _, ok := bucketByNote[id]; ok {
				bucketByNote[id] = day
			}
		}
	}

	out := make([]FlaggedCard, 0, len(cards))
	for _, card := range cards {
		fc := FlaggedCard{Card: card, DueBucket: DueBucketUnknown}
		if note, ok := notesByID[card.NoteID]; ok {
			fc.NoteFields = note.Fields
			fc.NoteTags = note.Tags
			fc.DueBucket = bucketByNote[note.NoteID]
		}
		if interval, ok := intervalByCard[card.CardID]; ok {
			fc.Interval = interval
		}
		out = append(out, fc)
	}
	return out, nil
}

// scanDueWindow queries the flagged notes due in exactly d days for
// every d in [0, dueScanDays]. The queries are independent reads, so
// they run concurrently; results come back indexed by day and the
// caller applies them in day order, keeping bucket assignment
// deterministic regardless of response arrival.
func (r *Retriever) scanDueWindow(ctx context.Context) ([][]int64, error) {
	matches := make([][]int64, dueScanDays+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4) // Bound concurrency; AnkiConnect is a single-process add-on.

	for day := 0; day <= dueScanDays; day++ {
		g.Go(func() error {
			ids, err := r.client.FindNotes(gctx, fmt.Sprintf("%s prop:due=%d", flaggedQuery, day))
			if err != nil {
				return err
			}
			matches[day] = ids
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

// nidQuery builds the "nid:1,2,3" search expression for a note id set.
func nidQuery(noteIDs []int64) string {
	parts := make([]string, len(noteIDs))
	for i, id := range noteIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "nid:" + strings.Join(parts, ",")
}

// ByDueBucket returns a copy of cards sorted by due bucket ascending.
// The sort is stable, so cards in the same bucket keep their retrieval
// order. Display layers use this; the retrieval itself never resorts.
func ByDueBucket(cards []FlaggedCard) []FlaggedCard {
	sorted := make([]FlaggedCard, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueBucket < sorted[j].DueBucket
	})
	return sorted
}
