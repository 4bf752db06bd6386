package tagger

// TaggedToken is one CoNLL-U token row.
type TaggedToken struct {
	ID       int    `json:"id"`
	Word     string `json:"word"`
	Lemma    string `json:"lemma"`
	Type     string `json:"type"`
	Features string `json:"features"`
	RefID    int    `json:"ref_id"`
	POS      string `json:"pos"`
}

// TaggedSentence is one sentence of the tagger output with its tokens.
type TaggedSentence struct {
	ID       int           `json:"id"`
	Sentence string        `json:"sentence"`
	Data     []TaggedToken `json:"data"`
}
