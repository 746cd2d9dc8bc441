package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/db/repositories"
	"unionhall/backoffice/internal/metrics"
	"unionhall/backoffice/internal/models/dtos"
	"unionhall/backoffice/internal/models/dtos/requests"
	"unionhall/backoffice/internal/models/dtos/responses"
	gormModels "unionhall/backoffice/internal/models/gorm"
	"unionhall/backoffice/internal/wizards"
)

var (
	metricsOnce sync.Once
	metricsReg  *metrics.MetricsRegistry
)

// Prometheus collectors register globally, so the registry is shared
// across tests
func testMetrics() *metrics.MetricsRegistry {
	metricsOnce.Do(func() {
		metricsReg = metrics.NewMetricsRegistry()
	})
	return metricsReg
}

func setupHandlers(t *testing.T) (*Handlers, *gorm.DB) {
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

	wizardRepo := repositories.NewWizardRepo(db)
	fileRepo := repositories.NewFileRepo(db)
	workerRepo := repositories.NewWorkerRepo(db)
	rowRepo := repositories.NewReportRowRepo(db)

	blobs := newBlobStore()

	deps := &Dependencies{
		Repo: &Repositories{
			Wizards:    wizardRepo,
			ReportRows: rowRepo,
			Files:      fileRepo,
			Workers:    workerRepo,
		},
		Services: &Services{
			Cache:   common.NewCacheService(60000, 600),
			Storage: blobs,
			Feed:    wizards.NewFeedProcessor(wizardRepo, fileRepo, workerRepo, blobs, nil),
			Report:  wizards.NewReportGenerator(wizardRepo, rowRepo, wizards.NewWorkerRosterSource(workerRepo)),
			Metrics: testMetrics(),
		},
	}

	return NewHandlers(deps), db
}

type blobStore struct {
	blobs map[string][]byte
}

func newBlobStore() *blobStore {
	return &blobStore{blobs: map[string][]byte{}}
}

func (b *blobStore) Upload(ctx context.Context, path string, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.blobs[path] = data
	return nil
}

func (b *blobStore) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := b.blobs[path]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *blobStore) Delete(ctx context.Context, path string) error {
	delete(b.blobs, path)
	return nil
}

func (b *blobStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := b.blobs[path]
	return ok, nil
}

func testRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()
	r.Post("/wizards", h.CreateWizard())
	r.Route("/wizards/{wizard_id}", func(wiz chi.Router) {
		wiz.Get("/", h.GetWizard())
		wiz.Post("/file", h.UploadFeedFile())
		wiz.Put("/mapping", h.SetColumnMapping())
	})
	return r
}

func TestCreateWizard_Success(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	body, _ := json.Marshal(requests.CreateWizardRequest{
		Type:     constants.WizardTypeWorkerFeed,
		EntityID: "local-99",
	})
	req := httptest.NewRequest("POST", "/wizards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}

	var resp responses.APIResponse[dtos.WizardView]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("Expected status success, got %s", resp.Status)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		t.Fatal("Expected wizard id in response")
	}
	if resp.Data.Status != constants.WizardStatusDraft {
		t.Errorf("Expected draft status, got %s", resp.Data.Status)
	}
}

func TestCreateWizard_UnknownType(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	body, _ := json.Marshal(requests.CreateWizardRequest{Type: "payroll_feed"})
	req := httptest.NewRequest("POST", "/wizards", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestGetWizard_NotFound(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	req := httptest.NewRequest("GET", "/wizards/no-such-id/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func createTestWizard(t *testing.T, h *Handlers, wizardType string) *gormModels.Wizard {
	wizard := &gormModels.Wizard{
		Type:     wizardType,
		Status:   constants.WizardStatusDraft,
		EntityID: "local-99",
	}
	if err := h.deps.Repo.Wizards.Create(context.Background(), wizard); err != nil {
		t.Fatalf("Failed to create wizard: %v", err)
	}
	return wizard
}

func TestSetColumnMapping_DuplicateField(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)
	wizard := createTestWizard(t, h, constants.WizardTypeWorkerFeed)

	body, _ := json.Marshal(requests.SetColumnMappingRequest{
		ColumnMapping: map[int]string{0: "ssn", 1: "ssn"},
		HasHeaderRow:  true,
		Mode:          "create",
	})
	req := httptest.NewRequest("PUT", "/wizards/"+wizard.ID+"/mapping", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate mapping, got %d", rr.Code)
	}
}

func TestSetColumnMapping_InvalidatesValidation(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	wizard := createTestWizard(t, h, constants.WizardTypeWorkerFeed)
	wizard.State.AttachFile("file-1")
	wizard.State.SetColumnMapping(map[int]string{0: "ssn"}, true, "create")
	wizard.State.SetValidationResults(&dtos.ValidationResult{TotalRows: 3, ValidRows: 3})
	if err := h.deps.Repo.Wizards.Save(context.Background(), wizard); err != nil {
		t.Fatalf("Failed to save wizard: %v", err)
	}

	body, _ := json.Marshal(requests.SetColumnMappingRequest{
		ColumnMapping: map[int]string{0: "ssn", 1: "firstName"},
		HasHeaderRow:  true,
		Mode:          "create",
	})
	req := httptest.NewRequest("PUT", "/wizards/"+wizard.ID+"/mapping", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	stored, err := h.deps.Repo.Wizards.GetByID(context.Background(), wizard.ID)
	if err != nil || stored == nil {
		t.Fatalf("Failed to reload wizard: %v", err)
	}
	if stored.State.ValidationResults != nil {
		t.Error("Expected remapping to clear validation results")
	}
	if stored.State.StepCompleted(constants.StepValidate) {
		t.Error("Expected validate step to be unmarked after remapping")
	}
}

func TestUploadFeedFile_AttachesAndResets(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	wizard := createTestWizard(t, h, constants.WizardTypeWorkerFeed)
	wizard.State.AttachFile("old-file")
	wizard.State.SetColumnMapping(map[int]string{0: "ssn"}, true, "create")
	if err := h.deps.Repo.Wizards.Save(context.Background(), wizard); err != nil {
		t.Fatalf("Failed to save wizard: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "roster.csv")
	fw.Write([]byte("ssn\n123-45-6789\n"))
	mw.Close()

	req := httptest.NewRequest("POST", "/wizards/"+wizard.ID+"/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp responses.APIResponse[dtos.WizardView]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data.UploadedFileID == "" || resp.Data.UploadedFileID == "old-file" {
		t.Errorf("Expected new file id, got %q", resp.Data.UploadedFileID)
	}
	if resp.Data.ColumnMapping != nil {
		t.Error("Expected re-upload to clear column mapping")
	}
	if resp.Data.Status != constants.WizardStatusInProgress {
		t.Errorf("Expected in_progress status, got %s", resp.Data.Status)
	}
}

func TestUploadFeedFile_RejectsUnknownType(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)
	wizard := createTestWizard(t, h, constants.WizardTypeWorkerFeed)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "roster.pdf")
	fw.Write([]byte("%PDF-1.4"))
	mw.Close()

	req := httptest.NewRequest("POST", "/wizards/"+wizard.ID+"/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", rr.Code)
	}
}
