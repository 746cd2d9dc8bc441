package repositories

import (
	"context"
	"fmt"

	"unionhall/backoffice/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// WorkerRepo handles union member records
type WorkerRepo struct {
	db *gormlib.DB
}

// NewWorkerRepo creates a new worker repository
func NewWorkerRepo(db *gormlib.DB) *WorkerRepo {
	return &WorkerRepo{db: db}
}

// GetBySSN looks up a worker by canonical SSN. Returns nil without error
// when no record exists, so callers can distinguish absence from failure.
func (r *WorkerRepo) GetBySSN(ctx context.Context, ssn string) (*gorm.Worker, error) {
	var worker gorm.Worker

	err := r.db.WithContext(ctx).
		Where("ssn = ?", ssn).
		First(&worker).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &worker, nil
}

// Create inserts a new worker record
func (r *WorkerRepo) Create(ctx context.Context, worker *gorm.Worker) error {
	if err := r.db.WithContext(ctx).Create(worker).Error; err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

// Update persists field-level changes to an existing worker
func (r *WorkerRepo) Update(ctx context.Context, worker *gorm.Worker) error {
	if err := r.db.WithContext(ctx).Save(worker).Error; err != nil {
		return fmt.Errorf("failed to update worker %s: %w", worker.ID, err)
	}
	return nil
}

// ListByEntity returns workers for one tenant
func (r *WorkerRepo) ListByEntity(ctx context.Context, entityID string) ([]gorm.Worker, error) {
	var workers []gorm.Worker

	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("last_name, first_name").
		Find(&workers).Error

	if err != nil {
		return nil, err
	}
	return workers, nil
}
