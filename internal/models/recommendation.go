package models

import (
	"time"

	"github.com/lib/pq"
)

// Provenance tags for a recommendation result.
const (
	SourceDatabase = "database"
	SourceFallback = "fallback"
	SourceMixed    = "mixed"
)

// RecommendationHistory is an append-only snapshot of one recommend call.
// Records are never mutated after creation.
type RecommendationHistory struct {
	ID            string         `db:"id" json:"id"`
	Preferences   pq.StringArray `db:"preferences" json:"preferences"`
	Goal          string         `db:"goal" json:"goal"`
	MaxActivities int            `db:"max_activities" json:"max_activities"`
	ActivityIDs   pq.StringArray `db:"activity_ids" json:"activity_ids"`
	Source        string         `db:"source" json:"source"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// HistoryEntry is a history record hydrated with its activities for display.
type HistoryEntry struct {
	RecommendationHistory
	Activities []Activity `json:"activities"`
}
