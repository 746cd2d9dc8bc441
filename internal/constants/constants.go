package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixWizardProgress CachePrefix = "WIZ_PROGRESS_"
	CachePrefixWizardSummary  CachePrefix = "WIZ_SUMMARY_"
	CachePrefixReportResults  CachePrefix = "REPORT_RESULTS_"
)

// Wizard lifecycle statuses
const (
	WizardStatusDraft      = "draft"
	WizardStatusInProgress = "in_progress"
	WizardStatusReady      = "ready"
	WizardStatusCompleted  = "completed"
)

// Wizard step identifiers shared between feed and report flows
const (
	StepUpload     = "upload"
	StepMapColumns = "map_columns"
	StepValidate   = "validate"
	StepProcess    = "process"
	StepConfigure  = "configure"
	StepGenerate   = "generate"
	StepResults    = "results"
)

// Wizard types
const (
	WizardTypeWorkerFeed   = "worker_feed"
	WizardTypeWorkerReport = "worker_report"
)

// Feed stream used by the background worker
const FeedStreamName = "backoffice:feed:process"
