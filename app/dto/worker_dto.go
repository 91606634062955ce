package dto

// CreateWorkerRequest registers a worker under their external ID.
type CreateWorkerRequest struct {
	ID   string `json:"id" validate:"required,max=64"`
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateWorkerRequest renames a worker. Existing entries keep the name they
// were created with.
type UpdateWorkerRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=255"`
}
