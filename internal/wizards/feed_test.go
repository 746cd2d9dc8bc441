package wizards

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/db/repositories"
	gormModels "unionhall/backoffice/internal/models/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&gormModels.Wizard{},
		&gormModels.StoredFile{},
		&gormModels.Worker{},
		&gormModels.ReportRow{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// In-memory object storage
type memStorage struct {
	blobs map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (m *memStorage) Upload(ctx context.Context, path string, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.blobs[path] = data
	return nil
}

func (m *memStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.blobs[path]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	delete(m.blobs, path)
	return nil
}

func (m *memStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.blobs[path]
	return ok, nil
}

// Hooks that fail on demand
type failingHooks struct {
	hoursErr   error
	contactErr error
}

func (h *failingHooks) ProcessHours(ctx context.Context, w *gormModels.Worker, row map[string]string) error {
	return h.hoursErr
}

func (h *failingHooks) ProcessContactInfo(ctx context.Context, w *gormModels.Worker, row map[string]string) error {
	return h.contactErr
}

type feedFixture struct {
	db      *gorm.DB
	blobs   *memStorage
	wizards *repositories.WizardRepo
	files   *repositories.FileRepo
	workers *repositories.WorkerRepo
}

func newFeedFixture(t *testing.T) *feedFixture {
	db := setupTestDB(t)
	return &feedFixture{
		db:      db,
		blobs:   newMemStorage(),
		wizards: repositories.NewWizardRepo(db),
		files:   repositories.NewFileRepo(db),
		workers: repositories.NewWorkerRepo(db),
	}
}

func (f *feedFixture) processor(hooks WorkerHooks) *FeedProcessor {
	return NewFeedProcessor(f.wizards, f.files, f.workers, f.blobs, hooks)
}

// seedFeedWizard uploads csvData, attaches it to a new wizard, and stores
// the standard First/Last/SSN/BirthDate mapping.
func (f *feedFixture) seedFeedWizard(t *testing.T, csvData string, mode string) string {
	ctx := context.Background()

	wizard := &gormModels.Wizard{
		Type:     constants.WizardTypeWorkerFeed,
		Status:   constants.WizardStatusDraft,
		EntityID: "local-99",
	}
	if err := f.wizards.Create(ctx, wizard); err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}

	path := "wizards/" + wizard.ID + "/upload.csv"
	if err := f.blobs.Upload(ctx, path, MimeCSV, strings.NewReader(csvData)); err != nil {
		t.Fatalf("Failed to upload blob: %v", err)
	}

	file := &gormModels.StoredFile{
		WizardID:    &wizard.ID,
		Name:        "upload.csv",
		ContentType: MimeCSV,
		Size:        int64(len(csvData)),
		StoragePath: path,
	}
	if err := f.files.Create(ctx, file); err != nil {
		t.Fatalf("Failed to create file record: %v", err)
	}

	wizard.State.AttachFile(file.ID)
	wizard.State.SetColumnMapping(map[int]string{
		0: FieldIDFirstName,
		1: FieldIDLastName,
		2: FieldIDSSN,
		3: FieldIDBirthDate,
	}, true, mode)
	if err := f.wizards.Save(ctx, wizard); err != nil {
		t.Fatalf("Failed to save wizard: %v", err)
	}

	return wizard.ID
}

const feedHeader = "First,Last,SSN,BirthDate\n"

func TestValidateFeedData_StoresResults(t *testing.T) {
	f := newFeedFixture(t)
	csvData := feedHeader +
		"Jane,Doe,123-45-6789,6/8/1955\n" +
		"John,Smith,not-an-ssn,1960-01-02\n"
	wizardID := f.seedFeedWizard(t, csvData, "create")

	proc := f.processor(nil)
	result, err := proc.ValidateFeedData(context.Background(), wizardID)
	if err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	if result.TotalRows != 2 || result.ValidRows != 1 || result.InvalidRows != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			result.TotalRows, result.ValidRows, result.InvalidRows)
	}

	wizard, _ := f.wizards.GetByID(context.Background(), wizardID)
	if wizard.State.ValidationResults == nil {
		t.Error("validation results not persisted on wizard")
	}
	if wizard.Status != constants.WizardStatusInProgress {
		t.Errorf("status = %q, want in_progress", wizard.Status)
	}
}

func TestValidateFeedData_DuplicateMappingAborts(t *testing.T) {
	f := newFeedFixture(t)
	wizardID := f.seedFeedWizard(t, feedHeader+"Jane,Doe,123-45-6789,\n", "create")

	ctx := context.Background()
	wizard, _ := f.wizards.GetByID(ctx, wizardID)
	wizard.State.SetColumnMapping(map[int]string{0: FieldIDSSN, 2: FieldIDSSN}, true, "create")
	if err := f.wizards.Save(ctx, wizard); err != nil {
		t.Fatalf("Failed to save wizard: %v", err)
	}

	_, err := f.processor(nil).ValidateFeedData(ctx, wizardID)
	if !errors.Is(err, ErrDuplicateMapping) {
		t.Errorf("expected ErrDuplicateMapping, got %v", err)
	}
}

func TestValidateFeedData_MissingWizard(t *testing.T) {
	f := newFeedFixture(t)
	_, err := f.processor(nil).ValidateFeedData(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrWizardNotFound) {
		t.Errorf("expected ErrWizardNotFound, got %v", err)
	}
}

func TestProcessFeedData_RequiresValidation(t *testing.T) {
	f := newFeedFixture(t)
	wizardID := f.seedFeedWizard(t, feedHeader+"Jane,Doe,123-45-6789,\n", "create")

	_, err := f.processor(nil).ProcessFeedData(context.Background(), wizardID, 0, nil)
	if !errors.Is(err, ErrValidationRequired) {
		t.Errorf("expected ErrValidationRequired, got %v", err)
	}
}

func TestProcessFeedData_CreateMode(t *testing.T) {
	f := newFeedFixture(t)
	csvData := feedHeader +
		"Jane,Doe,123-45-6789,6/8/1955\n" +
		"John,Smith,234-56-7890,06-08-1955\n"
	wizardID := f.seedFeedWizard(t, csvData, "create")

	ctx := context.Background()
	proc := f.processor(nil)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	result, err := proc.ProcessFeedData(ctx, wizardID, 0, nil)
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	if result.CreatedCount != 2 || result.SuccessCount != 2 || result.FailureCount != 0 {
		t.Errorf("result = created %d success %d failure %d, want 2/2/0",
			result.CreatedCount, result.SuccessCount, result.FailureCount)
	}

	worker, err := f.workers.GetBySSN(ctx, "123456789")
	if err != nil || worker == nil {
		t.Fatalf("worker not created: %v", err)
	}
	if worker.FirstName != "Jane" || worker.LastName != "Doe" {
		t.Errorf("worker = %s %s, want Jane Doe", worker.FirstName, worker.LastName)
	}
	if worker.BirthDate == nil || *worker.BirthDate != "1955-06-08" {
		t.Errorf("birth date not normalized: %v", worker.BirthDate)
	}
}

func TestProcessFeedData_CreateModeUpsertsExisting(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	existing := &gormModels.Worker{SSN: "123456789", FirstName: "J", LastName: "D", EntityID: "local-99"}
	if err := f.workers.Create(ctx, existing); err != nil {
		t.Fatalf("Failed to seed worker: %v", err)
	}

	wizardID := f.seedFeedWizard(t, feedHeader+"Jane,Doe,123-45-6789,\n", "create")
	proc := f.processor(nil)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	result, err := proc.ProcessFeedData(ctx, wizardID, 0, nil)
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	if result.CreatedCount != 0 || result.UpdatedCount != 1 {
		t.Errorf("created %d updated %d, want 0/1", result.CreatedCount, result.UpdatedCount)
	}

	worker, _ := f.workers.GetBySSN(ctx, "123456789")
	if worker.FirstName != "Jane" {
		t.Errorf("existing worker not updated, first name = %q", worker.FirstName)
	}
}

func TestProcessFeedData_UpdateModeMissingWorkerFailsRow(t *testing.T) {
	f := newFeedFixture(t)
	wizardID := f.seedFeedWizard(t, feedHeader+"Jane,Doe,123-45-6789,\n", "update")

	ctx := context.Background()
	proc := f.processor(nil)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	result, err := proc.ProcessFeedData(ctx, wizardID, 0, nil)
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	if result.FailureCount != 1 || result.SuccessCount != 0 {
		t.Errorf("failure %d success %d, want 1/0", result.FailureCount, result.SuccessCount)
	}
	if !strings.Contains(result.Rows[0].Message, "no worker found") {
		t.Errorf("unexpected failure message: %q", result.Rows[0].Message)
	}
}

func TestProcessFeedData_RowFailureDoesNotAbortBatch(t *testing.T) {
	f := newFeedFixture(t)

	var sb strings.Builder
	sb.WriteString(feedHeader)
	for i := 0; i < 10; i++ {
		if i == 4 {
			// Row 5 carries a bad SSN
			sb.WriteString("Bad,Row,999-99-9999,\n")
			continue
		}
		sb.WriteString(fmt.Sprintf("First%d,Last%d,%03d-45-6789,\n", i, i, i+100))
	}

	wizardID := f.seedFeedWizard(t, sb.String(), "create")
	ctx := context.Background()
	proc := f.processor(nil)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	result, err := proc.ProcessFeedData(ctx, wizardID, 0, nil)
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	if result.FailureCount != 1 || result.SuccessCount != 9 {
		t.Fatalf("failure %d success %d, want 1/9", result.FailureCount, result.SuccessCount)
	}

	var failures []int
	for _, row := range result.Rows {
		if row.Status == "failure" {
			failures = append(failures, row.RowIndex)
		}
	}
	if len(failures) != 1 || failures[0] != 4 {
		t.Errorf("failure indexes = %v, want [4]", failures)
	}
}

func TestProcessFeedData_HookFailureIsNonFatal(t *testing.T) {
	f := newFeedFixture(t)
	wizardID := f.seedFeedWizard(t, feedHeader+"Jane,Doe,123-45-6789,\n", "create")

	ctx := context.Background()
	hooks := &failingHooks{hoursErr: errors.New("ledger offline")}
	proc := f.processor(hooks)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	result, err := proc.ProcessFeedData(ctx, wizardID, 0, nil)
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	// The row still counts as a success; the hook failure is only a note
	if result.SuccessCount != 1 || result.FailureCount != 0 {
		t.Fatalf("success %d failure %d, want 1/0", result.SuccessCount, result.FailureCount)
	}
	if !strings.Contains(result.Rows[0].Message, "ledger offline") {
		t.Errorf("hook failure not noted in message: %q", result.Rows[0].Message)
	}
	if result.Rows[0].Status != "success" {
		t.Errorf("row status = %q, want success", result.Rows[0].Status)
	}
}

func TestProcessFeedData_ProgressCallback(t *testing.T) {
	f := newFeedFixture(t)

	var sb strings.Builder
	sb.WriteString(feedHeader)
	for i := 0; i < 5; i++ {
		sb.WriteString(fmt.Sprintf("First%d,Last%d,%03d-45-6789,\n", i, i, i+100))
	}
	wizardID := f.seedFeedWizard(t, sb.String(), "create")

	ctx := context.Background()
	proc := f.processor(nil)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	var calls [][2]int
	_, err := proc.ProcessFeedData(ctx, wizardID, 2, func(processed, total int) {
		calls = append(calls, [2]int{processed, total})
	})
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	want := [][2]int{{2, 5}, {4, 5}, {5, 5}}
	if len(calls) != len(want) {
		t.Fatalf("progress calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestProcessFeedData_WritesResultsFile(t *testing.T) {
	f := newFeedFixture(t)
	csvData := feedHeader +
		"Jane,Doe,123-45-6789,\n" +
		"Bad,Row,999-99-9999,\n"
	wizardID := f.seedFeedWizard(t, csvData, "create")

	ctx := context.Background()
	proc := f.processor(nil)
	if _, err := proc.ValidateFeedData(ctx, wizardID); err != nil {
		t.Fatalf("ValidateFeedData returned error: %v", err)
	}

	result, err := proc.ProcessFeedData(ctx, wizardID, 0, nil)
	if err != nil {
		t.Fatalf("ProcessFeedData returned error: %v", err)
	}

	if result.ResultFileID == "" {
		t.Fatal("no results file recorded")
	}

	file, err := f.files.GetByID(ctx, result.ResultFileID)
	if err != nil || file == nil {
		t.Fatalf("results file record missing: %v", err)
	}

	blob, err := f.blobs.Download(ctx, file.StoragePath)
	if err != nil {
		t.Fatalf("results blob missing: %v", err)
	}
	defer blob.Close()

	data, _ := io.ReadAll(blob)
	content := string(data)
	if !strings.Contains(content, "Status,Message") {
		t.Errorf("results header missing appended columns:\n%s", content)
	}
	if !strings.Contains(content, "success") || !strings.Contains(content, "failure") {
		t.Errorf("results rows missing outcomes:\n%s", content)
	}
}
