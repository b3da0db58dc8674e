package anki

// NoteField is one content field of a note as reported by notesInfo.
// Order reflects the field's position in the note type, 0 being the front.
type NoteField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Note is a note record returned by notesInfo.
type Note struct {
	NoteID    int64                `json:"noteId"`
	ModelName string               `json:"modelName"`
	Fields    map[string]NoteField `json:"fields"`
	Tags      []string             `json:"tags"`
}

// Card is a card record returned by cardsInfo. Scheduling fields are
// owned by Anki; this tool only reads them.
type Card struct {
	CardID    int64  `json:"cardId"`
	NoteID    int64  `json:"note"`
	DeckName  string `json:"deckName"`
	ModelName string `json:"modelName"`
	Due       int64  `json:"due"`
	Queue     int    `json:"queue"`
	Reps      int    `json:"reps"`
	Lapses    int    `json:"lapses"`
}

const (
	// DueBucketNone marks a card not due within the scan window.
	DueBucketNone = 90
	// DueBucketUnknown marks a card whose parent note could not be joined.
	DueBucketUnknown = -1

	// dueScanDays is the inclusive upper bound of the due-window scan.
	dueScanDays = 14
)

// FlaggedCard is a Card joined with its parent note's content and the
// locally computed scheduling annotations.
type FlaggedCard struct {
	Card
	Interval   int                  `json:"interval"`
	NoteFields map[string]NoteField `json:"noteFields"`
	NoteTags   []string             `json:"noteTags"`
	DueBucket  int                  `json:"dueBucket"`
}
