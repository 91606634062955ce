package models

// Site is a jobsite ("obra"), a physical work location entries are booked against.
type Site struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"size:255;not null" json:"name"`
	Address *string `gorm:"size:255" json:"address,omitempty"`

	CostCodes []CostCode `gorm:"foreignKey:SiteID" json:"cost_codes,omitempty"`
}

func (Site) TableName() string {
	return "sites"
}

// SiteFilter represents filter criteria for site queries
type SiteFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}
