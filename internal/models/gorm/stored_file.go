package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// StoredFile is the metadata record for a blob held in object storage
type StoredFile struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	WizardID    *string   `gorm:"column:wizard_id;type:uuid;index"`
	Name        string    `gorm:"column:name;not null"`
	ContentType string    `gorm:"column:content_type;type:varchar(100)"`
	Size        int64     `gorm:"column:size"`
	StoragePath string    `gorm:"column:storage_path;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (StoredFile) TableName() string {
	return "stored_files"
}

// BeforeCreate assigns the id; there is no database-side default
func (f *StoredFile) BeforeCreate(tx *gormlib.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
