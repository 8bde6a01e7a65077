package models

import "time"

// Time-of-day preference values accepted on candidates.
const (
	TimeOfDayAny       = "any"
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNight     = "night"
)

// DefaultPriority is applied when a candidate omits its priority.
const DefaultPriority = 3

// Activity is a persisted activity available for recommendation.
type Activity struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Preference  string    `db:"preference" json:"preference"`
	Goal        string    `db:"goal" json:"goal"`
	Category    string    `db:"category" json:"category"`
	Duration    int       `db:"duration" json:"duration"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ActivityCandidate is a validated activity eligible for placement into a
// weekly plan. Candidates are value objects, they never touch storage.
type ActivityCandidate struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	Duration           int    `json:"duration"`
	Priority           int    `json:"priority"`
	PreferredTimeOfDay string `json:"preferredTimeOfDay"`
}

// ActivityFilter narrows store queries by normalized preference/goal.
type ActivityFilter struct {
	Preferences []string
	Goal        string
}

// LibraryEntry is one record of the static reference library used as the
// fallback source. The library is loaded once at process start and never
// mutated.
type LibraryEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Preference  string `json:"preference"`
	Goal        string `json:"goal"`
	Category    string `json:"category"`
	Duration    int    `json:"duration"`
}

// ActivitySelection records activities a user picked from a recommendation.
type ActivitySelection struct {
	ID         string    `db:"id" json:"id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	ActivityID string    `db:"activity_id" json:"activity_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
