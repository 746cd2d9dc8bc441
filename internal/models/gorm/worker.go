package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Worker is one union member record. SSNs are stored in canonical
// nine-digit form and are the lookup key for feed upserts.
type Worker struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid"`
	SSN        string    `gorm:"column:ssn;type:varchar(9);uniqueIndex"`
	FirstName  string    `gorm:"column:first_name"`
	MiddleName *string   `gorm:"column:middle_name"`
	LastName   string    `gorm:"column:last_name"`
	Suffix     *string   `gorm:"column:suffix"`
	BirthDate  *string   `gorm:"column:birth_date;type:varchar(10)"`
	EntityID   string    `gorm:"column:entity_id;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Worker) TableName() string {
	return "workers"
}

// BeforeCreate assigns the id; there is no database-side default
func (w *Worker) BeforeCreate(tx *gormlib.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
