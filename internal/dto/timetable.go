package dto

import "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"

// CandidateActivity is the wire form of one activity eligible for placement.
type CandidateActivity struct {
	ID                 string `json:"id" validate:"required"`
	Name               string `json:"name" validate:"required"`
	Category           string `json:"category" validate:"required"`
	Duration           int    `json:"duration" validate:"required,min=1,max=720"`
	Priority           int    `json:"priority" validate:"omitempty,min=1,max=5"`
	PreferredTimeOfDay string `json:"preferredTimeOfDay" validate:"omitempty,oneof=any morning afternoon evening night"`
}

// GenerateTimetableRequest instructs the generator to build a weekly plan.
type GenerateTimetableRequest struct {
	UserID           string              `json:"userId" validate:"required"`
	Title            string              `json:"title"`
	GenerationMethod string              `json:"generationMethod" validate:"omitempty,oneof=random balanced smart"`
	Activities       []CandidateActivity `json:"activities" validate:"required,min=1,dive"`
}

// GenerateTimetableResponse returns the persisted plan plus generation info.
type GenerateTimetableResponse struct {
	Timetable  TimetableDetail `json:"timetable"`
	Generation GenerationInfo  `json:"generation"`
}

// GenerationInfo summarises how the plan was produced.
type GenerationInfo struct {
	Method          string `json:"method"`
	ActivitiesCount int    `json:"activitiesCount"`
	WeekNumber      int    `json:"weekNumber"`
}

// TimetableDetail is a timetable hydrated with its daily activities.
type TimetableDetail struct {
	models.Timetable
	Activities []models.TimetableActivity `json:"activities"`
}

// CompleteActivityRequest marks a placed activity as done.
type CompleteActivityRequest struct {
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Notes  *string `json:"notes"`
}
