package repositories

import (
	"context"

	"unionhall/backoffice/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// FileRepo handles stored-file metadata
type FileRepo struct {
	db *gormlib.DB
}

// NewFileRepo creates a new file metadata repository
func NewFileRepo(db *gormlib.DB) *FileRepo {
	return &FileRepo{db: db}
}

// Create inserts a new file metadata record
func (r *FileRepo) Create(ctx context.Context, file *gorm.StoredFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// GetByID returns the file record or nil when no row exists
func (r *FileRepo) GetByID(ctx context.Context, id string) (*gorm.StoredFile, error) {
	var file gorm.StoredFile

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&file).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &file, nil
}

// ListForWizard returns files attached to one wizard
func (r *FileRepo) ListForWizard(ctx context.Context, wizardID string) ([]gorm.StoredFile, error) {
	var files []gorm.StoredFile

	err := r.db.WithContext(ctx).
		Where("wizard_id = ?", wizardID).
		Order("created_at DESC").
		Find(&files).Error

	if err != nil {
		return nil, err
	}
	return files, nil
}
