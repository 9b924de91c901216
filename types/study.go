package types

// RetrievalResult is a read-only projection of a matched index entry,
// recomputed per query and never persisted.
type RetrievalResult struct {
	Content     string  `json:"content"`
	SourceLabel string  `json:"source"`
	Score       float64 `json:"score"`
}

// AnsweredQuery pairs a generated answer with the retrieval results that
// grounded it.
type AnsweredQuery struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Sources  []RetrievalResult `json:"sources"`
}
