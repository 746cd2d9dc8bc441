package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/models/dtos/requests"
	"unionhall/backoffice/internal/wizards"
)

func reportStatusCode(err error) int {
	switch {
	case errors.Is(err, wizards.ErrWizardNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizards.ErrMissingPrimaryKey), errors.Is(err, wizards.ErrUnknownWizardType):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GenerateReport handles POST /api/v1/wizards/{wizard_id}/generate
// Reruns replace the previous run's rows entirely.
func (h *Handlers) GenerateReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizardID := chi.URLParam(r, "wizard_id")

		var req requests.GenerateReportRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		batchSize := req.BatchSize
		if batchSize <= 0 {
			batchSize = wizards.DefaultBatchSize
		}

		start := time.Now()
		results, err := h.deps.Services.Report.GenerateReport(r.Context(), wizardID, batchSize, func(processed, total int) {
			h.recordProgress(wizardID, "generating", processed, total)
		})
		if err != nil {
			respondWithError(w, reportStatusCode(err), err.Error())
			return
		}

		h.deps.Services.Metrics.ReportDuration.WithLabelValues(constants.WizardTypeWorkerReport).Observe(time.Since(start).Seconds())
		h.deps.Services.Metrics.ReportRowsPersisted.Add(float64(results.Meta.RecordCount))

		h.recordProgress(wizardID, "done", results.Meta.RecordCount, results.Meta.RecordCount)
		respondWithSuccess(w, http.StatusOK, results)
	}
}

// GetReportResults handles GET /api/v1/wizards/{wizard_id}/results
// Returns 404 until the report has been generated at least once.
func (h *Handlers) GetReportResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizardID := chi.URLParam(r, "wizard_id")

		results, err := h.deps.Services.Report.GetReportResults(r.Context(), wizardID)
		if err != nil {
			respondWithError(w, reportStatusCode(err), err.Error())
			return
		}
		if results == nil {
			respondWithError(w, http.StatusNotFound, "Report has not been generated yet")
			return
		}

		respondWithSuccess(w, http.StatusOK, results)
	}
}
