package dtos

import "time"

// RowError is one validation failure on one row
type RowError struct {
	RowIndex int    `json:"rowIndex"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Value    string `json:"value,omitempty"`
}

// ErrorSummaryEntry carries the exact count for one (field, message)
// signature even when the stored instances are capped
type ErrorSummaryEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ValidationResult summarizes a validation pass over an uploaded feed file
type ValidationResult struct {
	TotalRows    int                 `json:"totalRows"`
	ValidRows    int                 `json:"validRows"`
	InvalidRows  int                 `json:"invalidRows"`
	Errors       []RowError          `json:"errors"`
	ErrorSummary []ErrorSummaryEntry `json:"errorSummary"`
}

// Row processing outcomes
const (
	RowStatusSuccess = "success"
	RowStatusFailure = "failure"
)

// RowResult is the outcome of processing one feed row
type RowResult struct {
	RowIndex int    `json:"rowIndex"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// ProcessResult summarizes a feed-processing run
type ProcessResult struct {
	TotalRows    int         `json:"totalRows"`
	CreatedCount int         `json:"createdCount"`
	UpdatedCount int         `json:"updatedCount"`
	SuccessCount int         `json:"successCount"`
	FailureCount int         `json:"failureCount"`
	Rows         []RowResult `json:"rows"`
	ResultFileID string      `json:"resultFileId,omitempty"`
}

// ReportColumn describes one column of a generated report
type ReportColumn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReportMeta is the summary stored on the wizard after a report run. It is
// the source of truth for record count even when re-derived results differ.
type ReportMeta struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	RecordCount int            `json:"recordCount"`
	Columns     []ReportColumn `json:"columns"`
	PrimaryKey  string         `json:"primaryKey"`
}

// WizardView is the API shape of a wizard instance
type WizardView struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	EntityID       string         `json:"entityId"`
	Date           time.Time      `json:"date"`
	UploadedFileID string         `json:"uploadedFileId,omitempty"`
	Mode           string         `json:"mode,omitempty"`
	HasHeaderRow   bool           `json:"hasHeaderRow,omitempty"`
	ColumnMapping  map[int]string `json:"columnMapping,omitempty"`
	StepsCompleted []string       `json:"stepsCompleted,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ProgressSnapshot is what the UI polls while a feed or report runs
type ProgressSnapshot struct {
	WizardID  string    `json:"wizardId"`
	Phase     string    `json:"phase"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updatedAt"`
}
