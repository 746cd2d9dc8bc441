package api

import (
	"context"
	"os"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/db"
	"unionhall/backoffice/internal/db/repositories"
	"unionhall/backoffice/internal/metrics"
	"unionhall/backoffice/internal/storage"
	"unionhall/backoffice/internal/wizards"
)

type Repositories struct {
	Wizards    *repositories.WizardRepo
	ReportRows *repositories.ReportRowRepo
	Files      *repositories.FileRepo
	Workers    *repositories.WorkerRepo
	ApiClients *repositories.ApiClientRepo
}

type Services struct {
	Cache   common.CacheInterface
	Queue   *common.RedisQueueService
	Storage storage.Interface
	Feed    *wizards.FeedProcessor
	Report  *wizards.ReportGenerator
	Metrics *metrics.MetricsRegistry
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Wizards:    repositories.NewWizardRepo(db.PgDB),
		ReportRows: repositories.NewReportRowRepo(db.PgDB),
		Files:      repositories.NewFileRepo(db.PgDB),
		Workers:    repositories.NewWorkerRepo(db.PgDB),
		ApiClients: repositories.NewApiClientRepo(db.DB),
	}

	blobs, err := storage.NewFromEnv(context.Background())
	if err != nil {
		return nil, err
	}

	// Redis cache when configured, in-memory otherwise
	var cacheSvc common.CacheInterface
	var queueSvc *common.RedisQueueService
	if os.Getenv("REDIS_HOST") != "" {
		client := common.NewRedisClient()
		cacheSvc = common.NewRedisCacheService(client)
		queueSvc = common.NewRedisQueueService(client)
	} else {
		cacheSvc = common.NewCacheService(60000, 600)
	}

	rosterSource := wizards.NewWorkerRosterSource(repos.Workers)

	services := &Services{
		Cache:   cacheSvc,
		Queue:   queueSvc,
		Storage: blobs,
		Feed:    wizards.NewFeedProcessor(repos.Wizards, repos.Files, repos.Workers, blobs, nil),
		Report:  wizards.NewReportGenerator(repos.Wizards, repos.ReportRows, rosterSource),
		Metrics: metricsReg,
	}

	return &Dependencies{
		Repo:     repos,
		Services: services,
	}, nil
}
