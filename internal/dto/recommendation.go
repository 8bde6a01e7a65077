package dto

import "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"

// RecommendRequest asks for a blended set of activity recommendations.
type RecommendRequest struct {
	Preferences   []string `json:"preferences"`
	Goal          string   `json:"goal" validate:"required"`
	AvailableTime int      `json:"availableTime" validate:"required,min=1"`
	MaxActivities int      `json:"maxActivities" validate:"omitempty,min=1,max=50"`
}

// RecommendResponse carries the deduplicated result and its provenance.
type RecommendResponse struct {
	Source     string            `json:"source"`
	Activities []models.Activity `json:"activities"`
	HistoryID  string            `json:"historyId"`
}

// SaveSelectionRequest records the activities a user picked from a result.
type SaveSelectionRequest struct {
	SessionID   string   `json:"sessionId" validate:"required"`
	ActivityIDs []string `json:"activityIds" validate:"required,min=1"`
}
