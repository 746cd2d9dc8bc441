package jobs

import (
	"context"
	"time"

	"unionhall/backoffice/internal/db/repositories"
	"unionhall/backoffice/internal/logging"
)

const staleDraftAgeDays = 30

// CleanupJob prunes abandoned draft wizards. Report rows cascade through
// the repository so a deleted wizard leaves no orphaned rows behind.
type CleanupJob struct {
	wizards    *repositories.WizardRepo
	reportRows *repositories.ReportRowRepo
}

// NewCleanupJob creates a new cleanup job instance
func NewCleanupJob(
	wizards *repositories.WizardRepo,
	reportRows *repositories.ReportRowRepo,
) *CleanupJob {
	return &CleanupJob{
		wizards:    wizards,
		reportRows: reportRows,
	}
}

// Run executes one cleanup pass
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()
	logging.Info("Cleanup job: starting", "stale_after_days", staleDraftAgeDays)

	stale, err := j.wizards.ListStaleDrafts(ctx, staleDraftAgeDays)
	if err != nil {
		logging.Error("Cleanup job: failed to list stale drafts", "error", err.Error())
		return err
	}

	for _, wizard := range stale {
		if err := j.reportRows.DeleteForWizard(ctx, wizard.ID); err != nil {
			logging.Error("Cleanup job: failed to delete report rows",
				"wizard_id", wizard.ID,
				"error", err.Error(),
			)
			continue
		}
	}

	deleted, err := j.wizards.DeleteStaleDrafts(ctx, staleDraftAgeDays)
	if err != nil {
		logging.Error("Cleanup job: failed to delete stale drafts", "error", err.Error())
		return err
	}

	logging.Info("Cleanup job: completed",
		"deleted", deleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// RunScheduled runs the job on a fixed interval until the context is
// cancelled
func (j *CleanupJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Cleanup job: stopped")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("Cleanup job: run failed", "error", err.Error())
			}
		}
	}
}
