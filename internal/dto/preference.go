package dto

// CreateCategoryRequest registers a new preference category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// CreatePreferenceRequest stores a preference value for a user.
type CreatePreferenceRequest struct {
	UserID     string `json:"userId" validate:"required"`
	CategoryID string `json:"categoryId" validate:"required"`
	Value      string `json:"value" validate:"required"`
}

// UpdatePreferenceRequest replaces the value/category of a preference.
type UpdatePreferenceRequest struct {
	CategoryID string `json:"categoryId" validate:"required"`
	Value      string `json:"value" validate:"required"`
}
