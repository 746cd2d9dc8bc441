package wizards

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/db/repositories"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/models/dtos"
	gormModels "unionhall/backoffice/internal/models/gorm"
	"unionhall/backoffice/internal/storage"
)

// DefaultBatchSize bounds per-call work between progress callbacks. Rows
// within a batch run sequentially; batching is not a concurrency primitive.
const DefaultBatchSize = 100

// ProgressFunc is invoked between batches with rows processed so far
type ProgressFunc func(processed, total int)

// WorkerStore is the external domain store for union member records.
// GetBySSN returns nil without error when no record exists.
type WorkerStore interface {
	GetBySSN(ctx context.Context, ssn string) (*gormModels.Worker, error)
	Create(ctx context.Context, worker *gormModels.Worker) error
	Update(ctx context.Context, worker *gormModels.Worker) error
}

// WorkerHooks is the optional per-feed capability for processing hour and
// contact-info columns. Hook failures are appended to an otherwise
// successful row message; they never fail the row.
type WorkerHooks interface {
	ProcessHours(ctx context.Context, worker *gormModels.Worker, row map[string]string) error
	ProcessContactInfo(ctx context.Context, worker *gormModels.Worker, row map[string]string) error
}

// NoopHooks is the default hook set
type NoopHooks struct{}

func (NoopHooks) ProcessHours(ctx context.Context, worker *gormModels.Worker, row map[string]string) error {
	return nil
}

func (NoopHooks) ProcessContactInfo(ctx context.Context, worker *gormModels.Worker, row map[string]string) error {
	return nil
}

// FeedProcessor runs the validate and process steps of a file-based worker
// feed wizard
type FeedProcessor struct {
	wizards *repositories.WizardRepo
	files   *repositories.FileRepo
	workers WorkerStore
	blobs   storage.Interface
	hooks   WorkerHooks
	fields  []FieldDef
}

// NewFeedProcessor wires the processor. Passing nil hooks selects NoopHooks.
func NewFeedProcessor(
	wizardRepo *repositories.WizardRepo,
	fileRepo *repositories.FileRepo,
	workers WorkerStore,
	blobs storage.Interface,
	hooks WorkerHooks,
) *FeedProcessor {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &FeedProcessor{
		wizards: wizardRepo,
		files:   fileRepo,
		workers: workers,
		blobs:   blobs,
		hooks:   hooks,
		fields:  WorkerFeedFields,
	}
}

// loadFeedFile resolves the wizard's uploaded file and decodes it into
// mapped rows, applying the stored column mapping.
func (p *FeedProcessor) loadFeedFile(ctx context.Context, wizard *gormModels.Wizard) ([][]string, []map[string]string, error) {
	state := &wizard.State

	if state.UploadedFileID == "" {
		return nil, nil, ErrNoUploadedFile
	}
	if len(state.ColumnMapping) == 0 {
		return nil, nil, ErrNoColumnMapping
	}

	file, err := p.files.GetByID(ctx, state.UploadedFileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load file record: %w", err)
	}
	if file == nil {
		return nil, nil, fmt.Errorf("%w: file record %s missing", ErrNoUploadedFile, state.UploadedFileID)
	}

	blob, err := p.blobs.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download uploaded file: %w", err)
	}
	defer blob.Close()

	data, err := io.ReadAll(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	raw, err := DecodeRows(data, file.ContentType)
	if err != nil {
		return nil, nil, err
	}

	mapped, err := MapRows(raw, state.ColumnMapping, state.HasHeaderRow)
	if err != nil {
		return nil, nil, err
	}

	return raw, mapped, nil
}

func (p *FeedProcessor) mode(wizard *gormModels.Wizard) Mode {
	if wizard.State.Mode == string(ModeUpdate) {
		return ModeUpdate
	}
	return ModeCreate
}

// ValidateFeedData decodes the uploaded file, remaps columns, and validates
// every row against the feed's field definitions. The result is stored on
// the wizard and returned.
func (p *FeedProcessor) ValidateFeedData(ctx context.Context, wizardID string) (*dtos.ValidationResult, error) {
	wizard, err := p.wizards.GetByID(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	if wizard == nil {
		return nil, ErrWizardNotFound
	}

	_, mapped, err := p.loadFeedFile(ctx, wizard)
	if err != nil {
		return nil, err
	}

	result := validateRows(mapped, p.fields, p.mode(wizard))

	wizard.State.SetValidationResults(result)
	wizard.Status = constants.WizardStatusInProgress
	if err := p.wizards.Save(ctx, wizard); err != nil {
		return nil, err
	}

	logging.Info("Feed validation complete",
		"wizard_id", wizardID,
		"total_rows", result.TotalRows,
		"invalid_rows", result.InvalidRows,
	)

	return result, nil
}

// ProcessFeedData runs the create/update pass over the feed in sequential
// batches. Row failures are recorded and never abort the batch; only
// configuration errors abort the run.
func (p *FeedProcessor) ProcessFeedData(ctx context.Context, wizardID string, batchSize int, onProgress ProgressFunc) (*dtos.ProcessResult, error) {
	wizard, err := p.wizards.GetByID(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	if wizard == nil {
		return nil, ErrWizardNotFound
	}
	if wizard.State.ValidationResults == nil {
		return nil, ErrValidationRequired
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	raw, mapped, err := p.loadFeedFile(ctx, wizard)
	if err != nil {
		return nil, err
	}

	mode := p.mode(wizard)
	result := &dtos.ProcessResult{
		TotalRows: len(mapped),
		Rows:      make([]dtos.RowResult, 0, len(mapped)),
	}

	for start := 0; start < len(mapped); start += batchSize {
		end := start + batchSize
		if end > len(mapped) {
			end = len(mapped)
		}

		for i := start; i < end; i++ {
			rowResult := p.processRow(ctx, wizard, i, mapped[i], mode, result)
			result.Rows = append(result.Rows, rowResult)

			if rowResult.Status == dtos.RowStatusSuccess {
				result.SuccessCount++
			} else {
				result.FailureCount++
			}
		}

		if onProgress != nil {
			onProgress(end, len(mapped))
		}
	}

	// The results artifact is best-effort: the processing outcome stands
	// even when the file cannot be written.
	if fileID, err := p.exportResults(ctx, wizard, raw, result); err != nil {
		logging.Error("Failed to generate feed results file",
			"wizard_id", wizardID,
			"error", err.Error(),
		)
	} else {
		result.ResultFileID = fileID
	}

	wizard.State.SetProcessResults(result)
	wizard.Status = constants.WizardStatusCompleted
	if err := p.wizards.Save(ctx, wizard); err != nil {
		return nil, err
	}

	logging.Info("Feed processing complete",
		"wizard_id", wizardID,
		"total_rows", result.TotalRows,
		"created", result.CreatedCount,
		"updated", result.UpdatedCount,
		"failures", result.FailureCount,
	)

	return result, nil
}

// processRow applies one feed row. Any error becomes a row failure; the
// batch always continues.
func (p *FeedProcessor) processRow(ctx context.Context, wizard *gormModels.Wizard, index int, row map[string]string, mode Mode, result *dtos.ProcessResult) dtos.RowResult {
	fail := func(msg string) dtos.RowResult {
		return dtos.RowResult{RowIndex: index, Status: dtos.RowStatusFailure, Message: msg}
	}

	ssnRaw := strings.TrimSpace(row[FieldIDSSN])
	if ssnRaw == "" {
		return fail("SSN is required")
	}

	ssn, err := common.NormalizeSSN(ssnRaw)
	if err != nil {
		return fail(fmt.Sprintf("invalid SSN: %v", err))
	}

	var birthDate *string
	if rawDate := strings.TrimSpace(row[FieldIDBirthDate]); rawDate != "" {
		parsed, err := common.ParseFlexibleDate(rawDate)
		if err != nil {
			return fail(fmt.Sprintf("invalid birth date: %v", err))
		}
		birthDate = &parsed
	}

	worker, err := p.workers.GetBySSN(ctx, ssn)
	if err != nil {
		return fail(fmt.Sprintf("worker lookup failed: %v", err))
	}

	var action string
	switch {
	case worker == nil && mode == ModeUpdate:
		return fail("no worker found for SSN")

	case worker == nil:
		worker = &gormModels.Worker{
			SSN:      ssn,
			EntityID: wizard.EntityID,
		}
		applyWorkerFields(worker, row, birthDate)
		if err := p.workers.Create(ctx, worker); err != nil {
			return fail(fmt.Sprintf("failed to create worker: %v", err))
		}
		result.CreatedCount++
		action = "created worker"

	default:
		applyWorkerFields(worker, row, birthDate)
		if err := p.workers.Update(ctx, worker); err != nil {
			return fail(fmt.Sprintf("failed to update worker: %v", err))
		}
		result.UpdatedCount++
		action = "updated worker"
	}

	message := action
	if note := p.runHooks(ctx, worker, row); note != "" {
		message += note
	}

	return dtos.RowResult{RowIndex: index, Status: dtos.RowStatusSuccess, Message: message}
}

// runHooks invokes the optional capabilities and folds their failures into
// a non-fatal message suffix
func (p *FeedProcessor) runHooks(ctx context.Context, worker *gormModels.Worker, row map[string]string) string {
	var notes []string

	if err := p.hooks.ProcessHours(ctx, worker, row); err != nil {
		notes = append(notes, fmt.Sprintf("hours processing failed: %v", err))
	}
	if err := p.hooks.ProcessContactInfo(ctx, worker, row); err != nil {
		notes = append(notes, fmt.Sprintf("contact info processing failed: %v", err))
	}

	if len(notes) == 0 {
		return ""
	}
	return "; " + strings.Join(notes, "; ")
}

func applyWorkerFields(worker *gormModels.Worker, row map[string]string, birthDate *string) {
	if v := strings.TrimSpace(row[FieldIDFirstName]); v != "" {
		worker.FirstName = v
	}
	if v := strings.TrimSpace(row[FieldIDMiddleName]); v != "" {
		worker.MiddleName = &v
	}
	if v := strings.TrimSpace(row[FieldIDLastName]); v != "" {
		worker.LastName = v
	}
	if v := strings.TrimSpace(row[FieldIDSuffix]); v != "" {
		worker.Suffix = &v
	}
	if birthDate != nil {
		worker.BirthDate = birthDate
	}
}

// exportResults re-serializes the original file with appended Status and
// Message columns and uploads it as a downloadable artifact.
func (p *FeedProcessor) exportResults(ctx context.Context, wizard *gormModels.Wizard, raw [][]string, result *dtos.ProcessResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	dataStart := 0
	if wizard.State.HasHeaderRow && len(raw) > 0 {
		header := append(append([]string{}, raw[0]...), "Status", "Message")
		if err := w.Write(header); err != nil {
			return "", fmt.Errorf("failed to write results header: %w", err)
		}
		dataStart = 1
	}

	for i := dataStart; i < len(raw); i++ {
		rowIdx := i - dataStart
		status, message := "", ""
		if rowIdx < len(result.Rows) {
			status = result.Rows[rowIdx].Status
			message = result.Rows[rowIdx].Message
		}
		record := append(append([]string{}, raw[i]...), status, message)
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write results row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush results file: %w", err)
	}

	name := fmt.Sprintf("feed-results-%s.csv", time.Now().Format("20060102-150405"))
	path := fmt.Sprintf("wizards/%s/%s-%s", wizard.ID, uuid.NewString(), name)

	if err := p.blobs.Upload(ctx, path, MimeCSV, bytes.NewReader(buf.Bytes())); err != nil {
		return "", fmt.Errorf("failed to upload results file: %w", err)
	}

	file := &gormModels.StoredFile{
		WizardID:    &wizard.ID,
		Name:        name,
		ContentType: MimeCSV,
		Size:        int64(buf.Len()),
		StoragePath: path,
	}
	if err := p.files.Create(ctx, file); err != nil {
		return "", fmt.Errorf("failed to record results file: %w", err)
	}

	return file.ID, nil
}
