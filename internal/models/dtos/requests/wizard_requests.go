package requests

// CreateWizardRequest starts a new wizard instance
type CreateWizardRequest struct {
	Type     string `json:"type"`
	EntityID string `json:"entityId"`
}

// SetColumnMappingRequest binds source column indexes to field ids and
// declares whether the first row of the file is a header
type SetColumnMappingRequest struct {
	ColumnMapping map[int]string `json:"columnMapping"`
	HasHeaderRow  bool           `json:"hasHeaderRow"`
	Mode          string         `json:"mode"`
}

// ProcessFeedRequest triggers feed processing, optionally in the background
type ProcessFeedRequest struct {
	BatchSize int  `json:"batchSize,omitempty"`
	Async     bool `json:"async,omitempty"`
}

// GenerateReportRequest triggers report generation
type GenerateReportRequest struct {
	BatchSize int `json:"batchSize,omitempty"`
}
