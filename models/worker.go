package models

// Worker is a construction worker identified by a stable external ID
// (historically the chat account id used to log hours).
type Worker struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Worker) TableName() string {
	return "workers"
}

// WorkerFilter represents filter criteria for worker queries
type WorkerFilter struct {
	ID   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}
