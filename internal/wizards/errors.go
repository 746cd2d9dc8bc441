package wizards

import "errors"

// Configuration errors: caller misuse, aborts the whole operation. Row-level
// data problems never surface through these; they accumulate in results.
var (
	ErrWizardNotFound      = errors.New("wizard not found")
	ErrNoUploadedFile      = errors.New("wizard has no uploaded file")
	ErrNoColumnMapping     = errors.New("wizard has no column mapping")
	ErrDuplicateMapping    = errors.New("column mapping assigns the same field twice")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrValidationRequired  = errors.New("feed must be validated before processing")
	ErrMissingPrimaryKey   = errors.New("record is missing its primary key value")
	ErrUnknownWizardType   = errors.New("unknown wizard type")
)
