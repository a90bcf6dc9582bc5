package models

import (
	"encoding/json"
	"time"
)

// History is one persisted question/answer exchange with its retrieval
// evidence. Rows are append-only: the pipeline creates exactly one per
// completed request and never updates or deletes them.
type History struct {
	ID       int64  `json:"id" db:"id"`
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`

	// SimilarityScore is the best match's distance, or nil when retrieval
	// returned nothing. nil is deliberate: a literal 0.0 would be
	// indistinguishable from a genuine zero-distance match.
	SimilarityScore *float64 `json:"similarity_score,omitempty" db:"similarity_score"`

	// SimilarityResults mirrors the sources returned to the caller.
	SimilarityResults []Source `json:"similarity_results,omitempty" db:"similarity_results"`

	Users json.RawMessage `json:"users" db:"users"`
	Space json.RawMessage `json:"space,omitempty" db:"space"`

	BotType   Tenant    `json:"bot_type" db:"bot_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the History model.
func (History) TableName() string {
	return "histories"
}

// NewHistory creates a History pending persistence. ID and CreatedAt are
// assigned by the database on insert.
func NewHistory(question, answer string, tenant Tenant, users, space json.RawMessage) *History {
	if !tenant.Valid() {
		tenant = TenantNusawork
	}
	return &History{
		Question: question,
		Answer:   answer,
		Users:    users,
		Space:    space,
		BotType:  tenant,
	}
}

// WithMatches attaches the retrieval evidence: the shared Source projection
// and the top (best-first) score, or nil score when there were no matches.
func (h *History) WithMatches(matches []ScoredMatch) *History {
	h.SimilarityResults = SourcesFromMatches(matches)
	if len(matches) > 0 {
		score := matches[0].Score
		h.SimilarityScore = &score
	}
	return h
}
