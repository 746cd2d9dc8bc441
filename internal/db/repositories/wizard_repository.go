package repositories

import (
	"context"
	"fmt"
	"time"

	"unionhall/backoffice/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// WizardRepo handles wizard instance persistence
type WizardRepo struct {
	db *gormlib.DB
}

// NewWizardRepo creates a new wizard repository
func NewWizardRepo(db *gormlib.DB) *WizardRepo {
	return &WizardRepo{db: db}
}

// Create inserts a new wizard in draft status
func (r *WizardRepo) Create(ctx context.Context, wizard *gorm.Wizard) error {
	return r.db.WithContext(ctx).Create(wizard).Error
}

// GetByID returns the wizard or nil when no row exists
func (r *WizardRepo) GetByID(ctx context.Context, id string) (*gorm.Wizard, error) {
	var wizard gorm.Wizard

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&wizard).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &wizard, nil
}

// Save persists the full wizard row, including its step state
func (r *WizardRepo) Save(ctx context.Context, wizard *gorm.Wizard) error {
	if err := r.db.WithContext(ctx).Save(wizard).Error; err != nil {
		return fmt.Errorf("failed to save wizard %s: %w", wizard.ID, err)
	}
	return nil
}

// ListByEntity returns wizards for one tenant, newest first
func (r *WizardRepo) ListByEntity(ctx context.Context, entityID string, limit int) ([]gorm.Wizard, error) {
	var wizards []gorm.Wizard

	q := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&wizards).Error; err != nil {
		return nil, err
	}
	return wizards, nil
}

// ListStaleDrafts returns draft wizards older than the cutoff so dependent
// rows can be cleaned up before the drafts themselves are removed
func (r *WizardRepo) ListStaleDrafts(ctx context.Context, olderThanDays int) ([]gorm.Wizard, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	var wizards []gorm.Wizard
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", "draft", cutoff).
		Find(&wizards).Error
	if err != nil {
		return nil, err
	}
	return wizards, nil
}

// DeleteStaleDrafts removes draft wizards older than the cutoff and returns
// how many were removed. Used by the cleanup job.
func (r *WizardRepo) DeleteStaleDrafts(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	res := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", "draft", cutoff).
		Delete(&gorm.Wizard{})
	return res.RowsAffected, res.Error
}
