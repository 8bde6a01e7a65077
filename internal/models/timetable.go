package models

import "time"

// Generation methods supported by the timetable generator.
const (
	GenerationRandom   = "random"
	GenerationBalanced = "balanced"
	GenerationSmart    = "smart"
)

// Timetable is a generated weekly plan owned by a user.
type Timetable struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Title            string    `db:"title" json:"title"`
	WeekStartDate    string    `db:"week_start_date" json:"week_start_date"`
	WeekEndDate      string    `db:"week_end_date" json:"week_end_date"`
	IsGenerated      bool      `db:"is_generated" json:"is_generated"`
	GenerationMethod string    `db:"generation_method" json:"generation_method"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableActivity is one placed activity row belonging to a timetable.
type TimetableActivity struct {
	ID              string     `db:"id" json:"id"`
	TimetableID     string     `db:"timetable_id" json:"timetable_id"`
	DayNumber       int        `db:"day_number" json:"day_number"`
	DayName         string     `db:"day_name" json:"day_name"`
	ActivityID      string     `db:"activity_id" json:"activity_id"`
	ActivityName    string     `db:"activity_name" json:"activity_name"`
	Category        string     `db:"category" json:"category"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	StartTime       string     `db:"start_time" json:"start_time"`
	IsCompleted     bool       `db:"is_completed" json:"is_completed"`
	UserRating      *int       `db:"user_rating" json:"user_rating,omitempty"`
	UserNotes       *string    `db:"user_notes" json:"user_notes,omitempty"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// DayPlacement is the in-memory result of placing one candidate on one day.
// It is a value object produced by the generator before persistence.
type DayPlacement struct {
	DayNumber       int    `json:"dayNumber"`
	DayName         string `json:"dayName"`
	ActivityID      string `json:"activityId,omitempty"`
	ActivityName    string `json:"activityName,omitempty"`
	Category        string `json:"category,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	StartTime       string `json:"startTime,omitempty"`
	IsEmpty         bool   `json:"isEmpty,omitempty"`
}

// WeekWindow describes the Monday-Sunday window a plan covers.
type WeekWindow struct {
	StartDate  string `json:"weekStartDate"`
	EndDate    string `json:"weekEndDate"`
	WeekNumber int    `json:"weekNumber"`
}
