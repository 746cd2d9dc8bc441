package repositories

import (
	"context"
	"fmt"

	"unionhall/backoffice/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ReportRowRepo handles the append-only row store behind generated reports
type ReportRowRepo struct {
	db *gormlib.DB
}

// NewReportRowRepo creates a new report row repository
func NewReportRowRepo(db *gormlib.DB) *ReportRowRepo {
	return &ReportRowRepo{db: db}
}

// Save persists one result row
func (r *ReportRowRepo) Save(ctx context.Context, row *gorm.ReportRow) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save report row %s/%s: %w", row.WizardID, row.PrimaryKeyValue, err)
	}
	return nil
}

// ListForWizard returns all persisted rows for one wizard
func (r *ReportRowRepo) ListForWizard(ctx context.Context, wizardID string) ([]gorm.ReportRow, error) {
	var rows []gorm.ReportRow

	err := r.db.WithContext(ctx).
		Where("wizard_id = ?", wizardID).
		Find(&rows).Error

	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteForWizard removes every row belonging to one wizard. Called before a
// report rerun so results never mix across runs.
func (r *ReportRowRepo) DeleteForWizard(ctx context.Context, wizardID string) error {
	return r.db.WithContext(ctx).
		Where("wizard_id = ?", wizardID).
		Delete(&gorm.ReportRow{}).Error
}

// CountForWizard returns the number of persisted rows for one wizard
func (r *ReportRowRepo) CountForWizard(ctx context.Context, wizardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.ReportRow{}).
		Where("wizard_id = ?", wizardID).
		Count(&count).Error
	return count, err
}
