package workers

import (
	"context"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/metrics"
	"unionhall/backoffice/internal/wizards"
)

type WorkersContainer struct {
	Feed *FeedWorker
}

// InitWorkers starts the background workers. Without Redis there is no
// queue to drain, so nothing is started.
func InitWorkers(
	queue *common.RedisQueueService,
	cache common.CacheInterface,
	processor *wizards.FeedProcessor,
	metricsReg *metrics.MetricsRegistry,
) *WorkersContainer {
	if queue == nil {
		logging.Info("Feed worker disabled: Redis not configured")
		return &WorkersContainer{}
	}

	feedWorker := NewFeedWorker(queue, cache, processor, metricsReg)
	go feedWorker.Start(context.Background())

	return &WorkersContainer{
		Feed: feedWorker,
	}
}
