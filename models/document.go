package models

import "github.com/google/uuid"

// ScoreOrder documents the scoring convention of a vector search. pgvector's
// cosine distance operator is the only backend today, so the convention is
// ascending: a smaller score means a closer match. Consumers must read the
// convention from here instead of assuming a direction in sort code.
type ScoreOrder string

const (
	// ScoreAscending means smaller score = more similar (distance semantics).
	ScoreAscending ScoreOrder = "ascending"
)

// Document is a single retrieval unit inside one tenant's corpus.
// Documents are created during ingestion and read-only afterwards.
type Document struct {
	ID       uuid.UUID      `json:"id" db:"id"`
	Content  string         `json:"content" db:"content"`
	Metadata map[string]any `json:"metadata" db:"metadata"`

	// Embedding holds the provider-assigned vector. Width is fixed per
	// deployment (default 768) and checked against the vector column.
	Embedding []float32 `json:"-" db:"vector"`
}

// ScoredMatch pairs a retrieved document with its distance to the query.
// Matches only live for the duration of one request.
type ScoredMatch struct {
	Document Document
	Score    float64
}

// Source is the projection of a match that is both returned to the caller
// and persisted as part of a history record. Keeping a single type for the
// two uses is what guarantees they cannot diverge.
type Source struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

// SourcesFromMatches builds the shared response/persistence projection,
// preserving best-first order.
func SourcesFromMatches(matches []ScoredMatch) []Source {
	if len(matches) == 0 {
		return nil
	}
	sources := make([]Source, len(matches))
	for i, m := range matches {
		sources[i] = Source{
			Content:  m.Document.Content,
			Metadata: m.Document.Metadata,
			Score:    m.Score,
		}
	}
	return sources
}
