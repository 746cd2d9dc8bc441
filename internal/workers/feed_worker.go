package workers

import (
	"context"
	"time"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/metrics"
	"unionhall/backoffice/internal/models/dtos"
	"unionhall/backoffice/internal/wizards"
)

const progressTTL = 30 * time.Minute

// FeedWorker drains queued feed runs from the Redis stream and executes
// them with the same processor the synchronous API path uses
type FeedWorker struct {
	queue      *common.RedisQueueService
	cache      common.CacheInterface
	processor  *wizards.FeedProcessor
	metricsReg *metrics.MetricsRegistry
}

// NewFeedWorker creates a new background feed worker
func NewFeedWorker(
	queue *common.RedisQueueService,
	cache common.CacheInterface,
	processor *wizards.FeedProcessor,
	metricsReg *metrics.MetricsRegistry,
) *FeedWorker {
	return &FeedWorker{
		queue:      queue,
		cache:      cache,
		processor:  processor,
		metricsReg: metricsReg,
	}
}

// Start blocks on the feed stream until the context is cancelled
func (w *FeedWorker) Start(ctx context.Context) {
	logging.Info("Feed worker started", "stream", constants.FeedStreamName)

	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			logging.Info("Feed worker stopped")
			return
		default:
		}

		nextID, item, err := w.queue.ReadFeed(ctx, constants.FeedStreamName, lastID, 5000)
		if err != nil {
			logging.Error("Feed worker: stream read failed", "error", err.Error())
			time.Sleep(5 * time.Second)
			continue
		}
		lastID = nextID
		if item == nil {
			continue
		}

		w.run(ctx, item)
	}
}

func (w *FeedWorker) run(ctx context.Context, item *common.FeedQueueItem) {
	logging.Info("Feed worker: processing queued feed",
		"wizard_id", item.WizardID,
		"batch_size", item.BatchSize,
		"queued_by", item.QueuedBy,
	)

	batchSize := item.BatchSize
	if batchSize <= 0 {
		batchSize = wizards.DefaultBatchSize
	}

	start := time.Now()
	result, err := w.processor.ProcessFeedData(ctx, item.WizardID, batchSize, func(processed, total int) {
		w.snapshot(item.WizardID, "processing", processed, total)
	})
	if err != nil {
		logging.Error("Feed worker: processing failed",
			"wizard_id", item.WizardID,
			"error", err.Error(),
		)
		w.snapshot(item.WizardID, "failed", 0, 0)
		return
	}

	w.metricsReg.FeedDuration.WithLabelValues(constants.WizardTypeWorkerFeed).Observe(time.Since(start).Seconds())
	w.metricsReg.FeedRowsProcessedTotal.WithLabelValues(constants.WizardTypeWorkerFeed, dtos.RowStatusSuccess).Add(float64(result.SuccessCount))
	w.metricsReg.FeedRowsProcessedTotal.WithLabelValues(constants.WizardTypeWorkerFeed, dtos.RowStatusFailure).Add(float64(result.FailureCount))

	w.snapshot(item.WizardID, "done", result.TotalRows, result.TotalRows)
	logging.Info("Feed worker: feed completed",
		"wizard_id", item.WizardID,
		"total_rows", result.TotalRows,
		"failures", result.FailureCount,
	)
}

func (w *FeedWorker) snapshot(wizardID, phase string, processed, total int) {
	w.cache.Set(string(constants.CachePrefixWizardProgress)+wizardID, dtos.ProgressSnapshot{
		WizardID:  wizardID,
		Phase:     phase,
		Processed: processed,
		Total:     total,
		UpdatedAt: time.Now().UTC(),
	}, progressTTL)
}
