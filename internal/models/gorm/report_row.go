package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// ReportRow is one persisted result row of a generated report, keyed by the
// report's primary-key field so results survive independently of the source
// query and can be re-fetched without re-running it.
type ReportRow struct {
	ID              string         `gorm:"column:id;primaryKey;type:uuid"`
	WizardID        string         `gorm:"column:wizard_id;type:uuid;not null;uniqueIndex:idx_report_rows_wizard_pk"`
	PrimaryKeyValue string         `gorm:"column:primary_key_value;not null;uniqueIndex:idx_report_rows_wizard_pk"`
	Data            map[string]any `gorm:"column:data;type:jsonb;serializer:json"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ReportRow) TableName() string {
	return "report_rows"
}

// BeforeCreate assigns the id; there is no database-side default
func (r *ReportRow) BeforeCreate(tx *gormlib.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
