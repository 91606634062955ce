package dto

// CreateCostCodeRequest creates a cost-code under a site.
type CreateCostCodeRequest struct {
	SiteID uint   `json:"site_id" validate:"required"`
	Name   string `json:"name" validate:"required,max=255"`
}

// UpdateCostCodeRequest partially updates a cost-code.
type UpdateCostCodeRequest struct {
	SiteID   *uint   `json:"site_id,omitempty"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Finished *bool   `json:"finished,omitempty"`
}
