package dto

// CreateSiteRequest creates a jobsite.
type CreateSiteRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// UpdateSiteRequest partially updates a jobsite.
type UpdateSiteRequest struct {
	Name    *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Address Optional[string] `json:"address,omitempty"`
}
