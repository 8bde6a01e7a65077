package models

import "time"

// PreferenceCategory groups user preferences (e.g. "fitness", "study").
type PreferenceCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Preference is one stored user preference value within a category.
type Preference struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	CategoryID string    `db:"category_id" json:"category_id"`
	Value      string    `db:"value" json:"value"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// PreferenceWithCategory joins a preference with its category for responses.
type PreferenceWithCategory struct {
	Preference
	CategoryName string `db:"category_name" json:"category_name"`
}
