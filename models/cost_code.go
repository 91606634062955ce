package models

// CostCode is a billing bucket ("partida") under a jobsite. The site name is
// denormalized at creation time, mirroring the historical schema.
type CostCode struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SiteID   uint   `gorm:"not null;index:idx_cost_codes_site_id" json:"site_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	SiteName string `gorm:"size:255;not null" json:"site_name"`
	Finished bool   `gorm:"not null;default:false" json:"finished"`
}

func (CostCode) TableName() string {
	return "cost_codes"
}

// CostCodeFilter represents filter criteria for cost-code queries
type CostCodeFilter struct {
	ID       *uint   `json:"id,omitempty"`
	SiteID   *uint   `json:"site_id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Finished *bool   `json:"finished,omitempty"`
}
