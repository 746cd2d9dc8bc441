package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"unionhall/backoffice/internal/auth"
	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/models/dtos"
	"unionhall/backoffice/internal/models/dtos/requests"
	gormModels "unionhall/backoffice/internal/models/gorm"
	"unionhall/backoffice/internal/wizards"
)

const maxUploadBytes = 32 << 20

func wizardToView(w *gormModels.Wizard) *dtos.WizardView {
	return &dtos.WizardView{
		ID:             w.ID,
		Type:           w.Type,
		Status:         w.Status,
		EntityID:       w.EntityID,
		Date:           w.Date,
		UploadedFileID: w.State.UploadedFileID,
		Mode:           w.State.Mode,
		HasHeaderRow:   w.State.HasHeaderRow,
		ColumnMapping:  w.State.ColumnMapping,
		StepsCompleted: w.State.StepsCompleted,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

// loadWizard resolves the {wizard_id} path param into a wizard record,
// writing the error response itself when the lookup fails.
func (h *Handlers) loadWizard(w http.ResponseWriter, r *http.Request) *gormModels.Wizard {
	wizardID := chi.URLParam(r, "wizard_id")
	wizard, err := h.deps.Repo.Wizards.GetByID(r.Context(), wizardID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load wizard")
		return nil
	}
	if wizard == nil {
		respondWithError(w, http.StatusNotFound, "Wizard not found")
		return nil
	}
	return wizard
}

// CreateWizard handles POST /api/v1/wizards
func (h *Handlers) CreateWizard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateWizardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if _, ok := wizards.Lookup(req.Type); !ok {
			respondWithError(w, http.StatusBadRequest, "Unknown wizard type: "+req.Type)
			return
		}

		entityID := req.EntityID
		if entityID == "" {
			if claims := auth.GetClientClaims(r.Context()); claims != nil {
				entityID = claims.EntityID()
			}
		}

		wizard := &gormModels.Wizard{
			Type:     req.Type,
			Status:   constants.WizardStatusDraft,
			EntityID: entityID,
			Date:     time.Now().UTC(),
		}
		if err := h.deps.Repo.Wizards.Create(r.Context(), wizard); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create wizard")
			return
		}

		logging.WithWizard(wizard.ID, wizard.Type).Infow("Wizard created", "entity_id", entityID)
		respondWithSuccess(w, http.StatusCreated, wizardToView(wizard))
	}
}

// GetWizard handles GET /api/v1/wizards/{wizard_id}
func (h *Handlers) GetWizard() http.HandlerFunc {
	type wizardDetails struct {
		Wizard            *dtos.WizardView       `json:"wizard"`
		Definition        wizards.Definition     `json:"definition"`
		ValidationResults *dtos.ValidationResult `json:"validationResults,omitempty"`
		ProcessResults    *dtos.ProcessResult    `json:"processResults,omitempty"`
		ReportMeta        *dtos.ReportMeta       `json:"reportMeta,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		wizard := h.loadWizard(w, r)
		if wizard == nil {
			return
		}

		def, _ := wizards.Lookup(wizard.Type)
		details := &wizardDetails{
			Wizard:            wizardToView(wizard),
			Definition:        def,
			ValidationResults: wizard.State.ValidationResults,
			ProcessResults:    wizard.State.ProcessResults,
			ReportMeta:        wizard.State.ReportMeta,
		}
		respondWithSuccess(w, http.StatusOK, details)
	}
}

// ListWizards handles GET /api/v1/wizards
func (h *Handlers) ListWizards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClientClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized: missing claims")
			return
		}

		list, err := h.deps.Repo.Wizards.ListByEntity(r.Context(), claims.EntityID(), 50)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list wizards")
			return
		}

		views := make([]dtos.WizardView, 0, len(list))
		for i := range list {
			views = append(views, *wizardToView(&list[i]))
		}
		respondWithSuccess(w, http.StatusOK, &views)
	}
}

// ListWizardTypes handles GET /api/v1/wizards/types
func (h *Handlers) ListWizardTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := wizards.Definitions()
		respondWithSuccess(w, http.StatusOK, &defs)
	}
}

// UploadFeedFile handles POST /api/v1/wizards/{wizard_id}/file
// Accepts a multipart upload, stores the blob, and attaches it to the
// wizard. Re-uploading resets every downstream step.
func (h *Handlers) UploadFeedFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard := h.loadWizard(w, r)
		if wizard == nil {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid multipart upload")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()

		contentType := contentTypeForUpload(header.Filename, header.Header.Get("Content-Type"))
		if contentType == "" {
			respondWithError(w, http.StatusUnsupportedMediaType, "Only CSV and Excel files are accepted")
			return
		}

		storagePath := fmt.Sprintf("wizards/%s/%s%s", wizard.ID, uuid.NewString(), filepath.Ext(header.Filename))
		if err := h.deps.Services.Storage.Upload(r.Context(), storagePath, contentType, file); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to store file")
			return
		}

		stored := &gormModels.StoredFile{
			WizardID:    &wizard.ID,
			Name:        header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			StoragePath: storagePath,
		}
		if err := h.deps.Repo.Files.Create(r.Context(), stored); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to record file")
			return
		}

		wizard.State.AttachFile(stored.ID)
		wizard.Status = constants.WizardStatusInProgress
		if err := h.deps.Repo.Wizards.Save(r.Context(), wizard); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update wizard")
			return
		}

		logging.WithWizard(wizard.ID, wizard.Type).Infow("Feed file uploaded",
			"file_id", stored.ID,
			"file_name", stored.Name,
			"size", stored.Size,
		)
		respondWithSuccess(w, http.StatusOK, wizardToView(wizard))
	}
}

// SetColumnMapping handles PUT /api/v1/wizards/{wizard_id}/mapping
func (h *Handlers) SetColumnMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard := h.loadWizard(w, r)
		if wizard == nil {
			return
		}

		var req requests.SetColumnMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if len(req.ColumnMapping) == 0 {
			respondWithError(w, http.StatusBadRequest, "Column mapping is required")
			return
		}

		// Two source columns feeding one field is a configuration error,
		// rejected before anything is stored.
		seen := make(map[string]bool, len(req.ColumnMapping))
		for _, field := range req.ColumnMapping {
			if seen[field] {
				respondWithError(w, http.StatusBadRequest, "Field mapped from more than one column: "+field)
				return
			}
			seen[field] = true
		}

		mode := req.Mode
		if mode == "" {
			mode = string(wizards.ModeCreate)
		}
		if mode != string(wizards.ModeCreate) && mode != string(wizards.ModeUpdate) {
			respondWithError(w, http.StatusBadRequest, "Unknown mode: "+req.Mode)
			return
		}

		wizard.State.SetColumnMapping(req.ColumnMapping, req.HasHeaderRow, mode)
		if err := h.deps.Repo.Wizards.Save(r.Context(), wizard); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update wizard")
			return
		}

		respondWithSuccess(w, http.StatusOK, wizardToView(wizard))
	}
}

// DownloadFile handles GET /api/v1/files/{file_id}
// Streams a stored blob, used for the processing results export.
func (h *Handlers) DownloadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := chi.URLParam(r, "file_id")
		stored, err := h.deps.Repo.Files.GetByID(r.Context(), fileID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load file")
			return
		}
		if stored == nil {
			respondWithError(w, http.StatusNotFound, "File not found")
			return
		}

		blob, err := h.deps.Services.Storage.Download(r.Context(), stored.StoragePath)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}
		defer blob.Close()

		w.Header().Set("Content-Type", stored.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+stored.Name+`"`)
		if _, err := io.Copy(w, blob); err != nil {
			logging.Error("File download interrupted", "file_id", fileID, "error", err)
		}
	}
}

func contentTypeForUpload(filename, declared string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return wizards.MimeCSV
	case ".xlsx":
		return wizards.MimeXLSX
	case ".xls":
		return wizards.MimeXLS
	}
	switch declared {
	case wizards.MimeCSV, wizards.MimeXLSX, wizards.MimeXLS:
		return declared
	}
	return ""
}
