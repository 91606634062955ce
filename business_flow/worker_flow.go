package businessflow

import (
	"context"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
)

// WorkerFlow manages the worker registry
type WorkerFlow interface {
	List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Worker, error)
	Get(ctx context.Context, actor Actor, workerID string) (*models.Worker, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateWorkerRequest) (*models.Worker, error)
	Update(ctx context.Context, actor Actor, workerID string, req *dto.UpdateWorkerRequest) (*models.Worker, error)
	Delete(ctx context.Context, actor Actor, workerID string) error
}

// WorkerFlowImpl implements WorkerFlow
type WorkerFlowImpl struct {
	workerRepo repository.WorkerRepository
	entryRepo  repository.TimeEntryRepository
}

// NewWorkerFlow constructs a WorkerFlow
func NewWorkerFlow(workerRepo repository.WorkerRepository, entryRepo repository.TimeEntryRepository) WorkerFlow {
	return &WorkerFlowImpl{
		workerRepo: workerRepo,
		entryRepo:  entryRepo,
	}
}

func (f *WorkerFlowImpl) List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Worker, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("WORKER_LIST_FAILED", "Only secretary or admin may list workers", ErrPermissionDenied)
	}

	workers, err := f.workerRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("WORKER_LIST_FAILED", "Failed to list workers", err)
	}
	return workers, nil
}

// Get returns one worker. A worker-role actor may read only their own record.
func (f *WorkerFlowImpl) Get(ctx context.Context, actor Actor, workerID string) (*models.Worker, error) {
	if !actor.CanActFor(workerID) {
		return nil, NewBusinessError("WORKER_GET_FAILED", "Not allowed to view this worker", ErrPermissionDenied)
	}

	worker, err := getWorker(ctx, f.workerRepo, workerID)
	if err != nil {
		return nil, NewBusinessError("WORKER_GET_FAILED", "Worker lookup failed", err)
	}
	return worker, nil
}

// Create registers a worker under a caller-chosen external ID. The ID is the
// primary key, so a duplicate is rejected up front instead of surfacing as a
// constraint violation.
func (f *WorkerFlowImpl) Create(ctx context.Context, actor Actor, req *dto.CreateWorkerRequest) (*models.Worker, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("WORKER_CREATE_FAILED", "Only secretary or admin may create workers", ErrPermissionDenied)
	}

	existing, err := f.workerRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("WORKER_CREATE_FAILED", "Worker lookup failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError("WORKER_CREATE_FAILED", "Worker ID already exists", ErrWorkerAlreadyExists)
	}

	worker := &models.Worker{
		ID:   req.ID,
		Name: req.Name,
	}
	if err := f.workerRepo.Save(ctx, worker); err != nil {
		return nil, NewBusinessError("WORKER_CREATE_FAILED", "Failed to save worker", err)
	}
	return worker, nil
}

// Update renames a worker. Entries keep the denormalized name they were
// created with.
func (f *WorkerFlowImpl) Update(ctx context.Context, actor Actor, workerID string, req *dto.UpdateWorkerRequest) (*models.Worker, error) {
	if !models.ElevatedRole(actor.Role) {
		return nil, NewBusinessError("WORKER_UPDATE_FAILED", "Only secretary or admin may update workers", ErrPermissionDenied)
	}

	worker, err := getWorker(ctx, f.workerRepo, workerID)
	if err != nil {
		return nil, NewBusinessError("WORKER_UPDATE_FAILED", "Worker lookup failed", err)
	}

	if req.Name == nil {
		return worker, nil
	}
	worker.Name = *req.Name
	if err := f.workerRepo.Updates(ctx, worker, map[string]any{"name": *req.Name}); err != nil {
		return nil, NewBusinessError("WORKER_UPDATE_FAILED", "Failed to update worker", err)
	}
	return worker, nil
}

func (f *WorkerFlowImpl) Delete(ctx context.Context, actor Actor, workerID string) error {
	if !models.ElevatedRole(actor.Role) {
		return NewBusinessError("WORKER_DELETE_FAILED", "Only secretary or admin may delete workers", ErrPermissionDenied)
	}

	worker, err := getWorker(ctx, f.workerRepo, workerID)
	if err != nil {
		return NewBusinessError("WORKER_DELETE_FAILED", "Worker lookup failed", err)
	}

	entries, err := f.entryRepo.CountByWorker(ctx, worker.ID)
	if err != nil {
		return NewBusinessError("WORKER_DELETE_FAILED", "Failed to count time entries", err)
	}
	if entries > 0 {
		return NewBusinessError("WORKER_DELETE_FAILED", "Worker still has time entries", ErrWorkerHasEntries)
	}

	if err := f.workerRepo.Delete(ctx, worker); err != nil {
		return NewBusinessError("WORKER_DELETE_FAILED", "Failed to delete worker", err)
	}
	return nil
}
