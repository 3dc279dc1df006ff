package service

import (
	"context"
	"testing"
	"time"

	"erp-featurestore-be/internal/config"
	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/metrics"
	"erp-featurestore-be/internal/model"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/repository/memory"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/pkg/database"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	db         *gorm.DB
	uowFactory unitofwork.RepositoryFactory
	cfg        config.FeatureStoreConfig
	logger     logger.ILogger
	metrics    *metrics.PipelineMetrics
	registry   IFeatureRegistryService
	store      ISnapshotStoreService
	writer     *SnapshotWriter
	now        time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithConfig(t, config.DefaultFeatureStore())
}

func newHarnessWithConfig(t *testing.T, cfg config.FeatureStoreConfig) *harness {
	t.Helper()

	db, err := database.NewSqliteDB(":memory:", true)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.FeatureDefinition{},
		&model.FeatureSnapshot{},
		&model.Project{},
		&model.ProjectMember{},
		&model.TimeEntry{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	h := &harness{
		db:         db,
		uowFactory: unitofwork.NewRepositoryFactory(db),
		cfg:        cfg,
		logger:     logger.NewNopLogger(),
		metrics:    metrics.NewPipelineMetrics(prometheus.NewRegistry()),
		now:        testNow,
	}
	h.registry = NewFeatureRegistryService(h.uowFactory, memory.NewDefinitionCache(time.Minute), h.logger)
	h.store = NewSnapshotStoreService(h.uowFactory, cfg)
	h.writer = NewSnapshotWriter(h.store, NewFeatureEventPublisher(nil, h.logger), h.metrics)
	return h
}

func (h *harness) clock() time.Time {
	return h.now
}

func (h *harness) capacitySync() ICapacitySyncService {
	return NewCapacitySyncService(h.uowFactory, h.registry, h.writer, nil, h.clock, h.metrics, h.logger)
}

func (h *harness) capacityForecast() ICapacityForecastService {
	return NewCapacityForecastService(h.uowFactory, h.registry, h.store, h.writer, h.clock, 30, h.metrics, h.logger)
}

func (h *harness) addProject(t *testing.T, name string, members int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, h.db.Create(&model.Project{
		Id:            id,
		Name:          name,
		Status:        "active",
		PipelineStage: "delivery",
		Type:          "client",
	}).Error)

	for i := 0; i < members; i++ {
		require.NoError(t, h.db.Create(&model.ProjectMember{Id: uuid.New(), ProjectId: id, UserId: uuid.New()}).Error)
	}
	return id
}

// addEntry logs a closed interval of the given length starting at start.
func (h *harness) addEntry(t *testing.T, projectId *uuid.UUID, start time.Time, length time.Duration, breakMinutes int) {
	t.Helper()

	end := start.Add(length)
	require.NoError(t, h.db.Create(&model.TimeEntry{
		Id:           uuid.New(),
		ProjectId:    projectId,
		UserId:       uuid.New(),
		StartTime:    start,
		EndTime:      &end,
		BreakMinutes: breakMinutes,
	}).Error)
}

func (h *harness) addOpenEntry(t *testing.T, projectId *uuid.UUID, start time.Time) {
	t.Helper()
	require.NoError(t, h.db.Create(&model.TimeEntry{
		Id:        uuid.New(),
		ProjectId: projectId,
		UserId:    uuid.New(),
		StartTime: start,
	}).Error)
}

func (h *harness) snapshotCount(t *testing.T, featureId uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, h.db.Model(&model.FeatureSnapshot{}).Where("feature_id = ?", featureId).Count(&count).Error)
	return count
}

func (h *harness) mustDefinition(t *testing.T, name string) *entity.FeatureDefinition {
	t.Helper()
	def, err := h.registry.FindByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, def, "definition %s", name)
	return def
}
