package jobs

import (
	"context"
	"time"

	"unionhall/backoffice/internal/db/repositories"
)

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(
	wizards *repositories.WizardRepo,
	reportRows *repositories.ReportRowRepo,
) *CleanupJob {
	cleanupJob := NewCleanupJob(wizards, reportRows)

	// Prune stale drafts once a day
	go cleanupJob.RunScheduled(context.Background(), 24*time.Hour)

	return cleanupJob
}
