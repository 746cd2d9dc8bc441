package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"unionhall/backoffice/internal/auth"
	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/models/dtos"
	"unionhall/backoffice/internal/models/dtos/requests"
	"unionhall/backoffice/internal/wizards"
)

const progressTTL = 30 * time.Minute

// recordProgress stores a polling snapshot for the UI while a long run is
// in flight
func (h *Handlers) recordProgress(wizardID, phase string, processed, total int) {
	snapshot := dtos.ProgressSnapshot{
		WizardID:  wizardID,
		Phase:     phase,
		Processed: processed,
		Total:     total,
		UpdatedAt: time.Now().UTC(),
	}
	h.deps.Services.Cache.Set(string(constants.CachePrefixWizardProgress)+wizardID, snapshot, progressTTL)
}

func feedStatusCode(err error) int {
	switch {
	case errors.Is(err, wizards.ErrWizardNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizards.ErrNoUploadedFile),
		errors.Is(err, wizards.ErrNoColumnMapping),
		errors.Is(err, wizards.ErrDuplicateMapping),
		errors.Is(err, wizards.ErrUnsupportedFileType),
		errors.Is(err, wizards.ErrValidationRequired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ValidateFeed handles POST /api/v1/wizards/{wizard_id}/validate
func (h *Handlers) ValidateFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizardID := chi.URLParam(r, "wizard_id")

		result, err := h.deps.Services.Feed.ValidateFeedData(r.Context(), wizardID)
		if err != nil {
			respondWithError(w, feedStatusCode(err), err.Error())
			return
		}

		for _, entry := range result.ErrorSummary {
			h.deps.Services.Metrics.ValidationErrorsTotal.WithLabelValues(entry.Field).Add(float64(entry.Count))
		}

		respondWithSuccess(w, http.StatusOK, result)
	}
}

// ProcessFeed handles POST /api/v1/wizards/{wizard_id}/process
// Runs the feed inline, or queues it for the background worker when the
// request asks for async processing.
func (h *Handlers) ProcessFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizardID := chi.URLParam(r, "wizard_id")

		var req requests.ProcessFeedRequest
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

		if req.Async {
			if h.deps.Services.Queue == nil {
				respondWithError(w, http.StatusServiceUnavailable, "Background processing requires Redis")
				return
			}

			queuedBy := ""
			if claims := auth.GetClientClaims(r.Context()); claims != nil {
				queuedBy = claims.ClientID()
			}

			item := &common.FeedQueueItem{
				WizardID:  wizardID,
				BatchSize: batchSize,
				QueuedBy:  queuedBy,
			}
			if err := h.deps.Services.Queue.EnqueueFeed(r.Context(), constants.FeedStreamName, item); err != nil {
				respondWithError(w, http.StatusInternalServerError, "Failed to queue feed")
				return
			}

			h.recordProgress(wizardID, "queued", 0, 0)
			snapshot := dtos.ProgressSnapshot{WizardID: wizardID, Phase: "queued", UpdatedAt: time.Now().UTC()}
			respondWithSuccess(w, http.StatusAccepted, &snapshot)
			return
		}

		start := time.Now()
		result, err := h.deps.Services.Feed.ProcessFeedData(r.Context(), wizardID, batchSize, func(processed, total int) {
			h.recordProgress(wizardID, "processing", processed, total)
		})
		if err != nil {
			respondWithError(w, feedStatusCode(err), err.Error())
			return
		}

		h.deps.Services.Metrics.FeedDuration.WithLabelValues(constants.WizardTypeWorkerFeed).Observe(time.Since(start).Seconds())
		h.deps.Services.Metrics.FeedRowsProcessedTotal.WithLabelValues(constants.WizardTypeWorkerFeed, dtos.RowStatusSuccess).Add(float64(result.SuccessCount))
		h.deps.Services.Metrics.FeedRowsProcessedTotal.WithLabelValues(constants.WizardTypeWorkerFeed, dtos.RowStatusFailure).Add(float64(result.FailureCount))

		h.recordProgress(wizardID, "done", result.TotalRows, result.TotalRows)
		respondWithSuccess(w, http.StatusOK, result)
	}
}

// GetProgress handles GET /api/v1/wizards/{wizard_id}/progress
func (h *Handlers) GetProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizardID := chi.URLParam(r, "wizard_id")

		cached, found := h.deps.Services.Cache.Get(string(constants.CachePrefixWizardProgress) + wizardID)
		if !found {
			h.deps.Services.Metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixWizardProgress)).Inc()
			respondWithError(w, http.StatusNotFound, "No progress recorded for wizard")
			return
		}
		h.deps.Services.Metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixWizardProgress)).Inc()

		snapshot, ok := cached.(dtos.ProgressSnapshot)
		if !ok {
			// Redis round-trips the snapshot as JSON
			raw, err := json.Marshal(cached)
			if err != nil || json.Unmarshal(raw, &snapshot) != nil {
				logging.Error("Unreadable progress snapshot in cache", "wizard_id", wizardID)
				respondWithError(w, http.StatusInternalServerError, "Failed to read progress")
				return
			}
		}

		respondWithSuccess(w, http.StatusOK, &snapshot)
	}
}
