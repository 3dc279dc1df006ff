package bootstrap

import (
	"context"
	"log"

	"erp-featurestore-be/internal/config"
	"erp-featurestore-be/internal/controller"
	"erp-featurestore-be/internal/metrics"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/repository/memory"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/internal/service"

	pktNats "erp-featurestore-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FeatureStoreController controller.IFeatureStoreController

	// Services (also driven directly by featurectl)
	FeatureStoreService     service.IFeatureStoreService
	CapacitySyncService     service.ICapacitySyncService
	CapacityForecastService service.ICapacityForecastService

	// Background Services (Exposed for main.go to run)
	ForecastConsumer service.ICapacityForecastConsumer
	IngestService    service.ISnapshotIngestService

	RepositoryFactory unitofwork.RepositoryFactory
	Logger            logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	pipelineMetrics := metrics.Pipeline()

	c := &Container{
		RepositoryFactory: uowFactory,
		Logger:            sysLogger,
	}

	// 2. Event Bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. NATS (optional)
	var (
		natsPub *pktNats.Publisher
		natsSub *pktNats.Subscriber
	)
	if cfg.Nats.Enabled {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.Nats.URL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.Nats.URL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 4. Services
	definitionCache := memory.NewDefinitionCache(cfg.FeatureStore.DefinitionCacheTTL)
	registry := service.NewFeatureRegistryService(uowFactory, definitionCache, sysLogger)
	store := service.NewSnapshotStoreService(uowFactory, cfg.FeatureStore)
	eventPublisher := service.NewFeatureEventPublisher(natsPub, sysLogger)
	writer := service.NewSnapshotWriter(store, eventPublisher, pipelineMetrics)

	c.FeatureStoreService = service.NewFeatureStoreService(registry, store, writer)
	c.CapacitySyncService = service.NewCapacitySyncService(
		uowFactory,
		registry,
		writer,
		pubSub,
		nil, // wall clock
		pipelineMetrics,
		sysLogger,
	)
	c.CapacityForecastService = service.NewCapacityForecastService(
		uowFactory,
		registry,
		store,
		writer,
		nil, // wall clock
		cfg.FeatureStore.ForecastHistory,
		pipelineMetrics,
		sysLogger,
	)

	if cfg.FeatureStore.AutoForecast {
		c.ForecastConsumer = service.NewCapacityForecastConsumer(pubSub, c.CapacityForecastService, sysLogger)
	}

	ingestLogger := logger.NewIsolatedLogger(cfg.App.IngestLogFilePath)
	c.IngestService = service.NewSnapshotIngestService(natsSub, c.FeatureStoreService, ingestLogger)

	// 5. Controllers
	c.FeatureStoreController = controller.NewFeatureStoreController(
		c.FeatureStoreService,
		c.CapacitySyncService,
		c.CapacityForecastService,
	)

	return c
}

// StartBackground starts the consumers that are configured. Both return immediately.
func (c *Container) StartBackground(ctx context.Context) {
	if c.ForecastConsumer != nil {
		if err := c.ForecastConsumer.Consume(ctx); err != nil {
			log.Printf("[WARN] Forecast consumer not started: %v", err)
		}
	}
	if err := c.IngestService.Start(ctx); err != nil {
		log.Printf("[WARN] Snapshot ingest not started: %v", err)
	}
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
