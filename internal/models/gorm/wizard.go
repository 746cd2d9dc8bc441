package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"unionhall/backoffice/internal/models/dtos"
)

// WizardState is the per-step state of a wizard instance. Each step owns a
// distinct slot; transitions that invalidate later steps clear those slots
// explicitly rather than relying on callers to prune a shared bag.
type WizardState struct {
	UploadedFileID    string                 `json:"uploadedFileId,omitempty"`
	Mode              string                 `json:"mode,omitempty"`
	HasHeaderRow      bool                   `json:"hasHeaderRow,omitempty"`
	ColumnMapping     map[int]string         `json:"columnMapping,omitempty"`
	ValidationResults *dtos.ValidationResult `json:"validationResults,omitempty"`
	ProcessResults    *dtos.ProcessResult    `json:"processResults,omitempty"`
	ReportMeta        *dtos.ReportMeta       `json:"reportMeta,omitempty"`
	StepsCompleted    []string               `json:"stepsCompleted,omitempty"`
}

// AttachFile points the wizard at a newly uploaded file. The pipeline is
// forward-only: replacing the file invalidates every downstream step.
func (s *WizardState) AttachFile(fileID string) {
	s.UploadedFileID = fileID
	s.ColumnMapping = nil
	s.HasHeaderRow = false
	s.ValidationResults = nil
	s.ProcessResults = nil
	s.StepsCompleted = nil
}

// SetColumnMapping records the mapping step and invalidates validation and
// processing results from any earlier mapping.
func (s *WizardState) SetColumnMapping(mapping map[int]string, hasHeader bool, mode string) {
	s.ColumnMapping = mapping
	s.HasHeaderRow = hasHeader
	s.Mode = mode
	s.ValidationResults = nil
	s.ProcessResults = nil
	s.StepsCompleted = nil
	s.markStep("upload", "map_columns")
}

// SetValidationResults records the validation step outcome
func (s *WizardState) SetValidationResults(res *dtos.ValidationResult) {
	s.ValidationResults = res
	s.ProcessResults = nil
	s.unmarkStep("process")
	s.markStep("validate")
}

// SetProcessResults records the processing step outcome
func (s *WizardState) SetProcessResults(res *dtos.ProcessResult) {
	s.ProcessResults = res
	s.markStep("process")
}

// StepCompleted reports whether a step has been completed
func (s *WizardState) StepCompleted(step string) bool {
	for _, done := range s.StepsCompleted {
		if done == step {
			return true
		}
	}
	return false
}

func (s *WizardState) markStep(steps ...string) {
	for _, step := range steps {
		if !s.StepCompleted(step) {
			s.StepsCompleted = append(s.StepsCompleted, step)
		}
	}
}

func (s *WizardState) unmarkStep(step string) {
	for i, done := range s.StepsCompleted {
		if done == step {
			s.StepsCompleted = append(s.StepsCompleted[:i], s.StepsCompleted[i+1:]...)
			return
		}
	}
}

// Wizard is one run of a multi-step feed or report process
type Wizard struct {
	ID        string      `gorm:"column:id;primaryKey;type:uuid"`
	Type      string      `gorm:"column:type;type:varchar(50);not null"`
	Status    string      `gorm:"column:status;type:varchar(20);not null;default:draft"`
	EntityID  string      `gorm:"column:entity_id"`
	Date      time.Time   `gorm:"column:date"`
	State     WizardState `gorm:"column:state;type:jsonb;serializer:json"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Wizard) TableName() string {
	return "wizards"
}

// BeforeCreate assigns the id; there is no database-side default
func (w *Wizard) BeforeCreate(tx *gormlib.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
