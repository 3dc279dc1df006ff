package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/metrics"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/internal/tracer"
	"erp-featurestore-be/pkg/forecast"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	ForecastModel       = "simple linear regression"
	ForecastHorizonDays = 7

	moduleCapacityForecast = "CAPACITY_FORECAST"
)

// ErrPrerequisiteMissing is returned when the forecast runs before any capacity window sync.
var ErrPrerequisiteMissing = &apperror.Error{
	Kind:    apperror.KindNotFound,
	Message: "feature " + CapacityWindowFeature + " is not registered, run the capacity sync first",
}

type ICapacityForecastService interface {
	// SyncForecast writes one project_capacity_forecast snapshot per project with usable history.
	SyncForecast(ctx context.Context) (int, error)
}

type capacityForecastService struct {
	uowFactory   unitofwork.RepositoryFactory
	registry     IFeatureRegistryService
	store        ISnapshotStoreService
	writer       *SnapshotWriter
	clock        Clock
	historyLimit int
	metrics      *metrics.PipelineMetrics
	logger       logger.ILogger
}

func NewCapacityForecastService(
	uowFactory unitofwork.RepositoryFactory,
	registry IFeatureRegistryService,
	store ISnapshotStoreService,
	writer *SnapshotWriter,
	clock Clock,
	historyLimit int,
	metrics *metrics.PipelineMetrics,
	logger logger.ILogger,
) ICapacityForecastService {
	if clock == nil {
		clock = time.Now
	}
	if historyLimit <= 0 {
		historyLimit = 30
	}
	return &capacityForecastService{
		uowFactory:   uowFactory,
		registry:     registry,
		store:        store,
		writer:       writer,
		clock:        clock,
		historyLimit: historyLimit,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *capacityForecastService) SyncForecast(ctx context.Context) (processed int, err error) {
	started := time.Now()
	ctx, span := tracer.Tracer().Start(ctx, "capacity_forecast.run")
	defer func() {
		s.metrics.ObserveRun(PipelineCapacityForecast, started, err)
		span.SetAttributes(attribute.Int("snapshots.processed", processed))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error(moduleCapacityForecast, "Capacity forecast failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		span.End()
	}()

	source, err := s.registry.FindByName(ctx, CapacityWindowFeature)
	if err != nil {
		return 0, err
	}
	if source == nil {
		return 0, ErrPrerequisiteMissing
	}

	description := "Next-horizon projection of 7d logged hours per project"
	def, err := s.registry.Register(ctx, RegisterDefinitionParams{
		Name:        CapacityForecastFeature,
		Entity:      EntityProject,
		Description: &description,
		Config: entity.Document{
			"model":             ForecastModel,
			"horizon_days":      ForecastHorizonDays,
			"source_feature_id": source.Id.String(),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("ensure %s definition: %w", CapacityForecastFeature, err)
	}

	now := s.clock().UTC().Truncate(time.Millisecond)
	generatedAt := now.Format(isoMillis)

	projects, err := s.uowFactory.NewUnitOfWork(ctx).ProjectDirectory().ListTrackedProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("list projects: %w", err)
	}

	items := make([]entity.SnapshotInput, 0, len(projects))
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		history, err := s.store.Timeseries(ctx, source.Id, p.Id.String(), s.historyLimit)
		if err != nil {
			return 0, fmt.Errorf("load history for project %s: %w", p.Id, err)
		}

		projection, ok := forecast.ProjectNext(hoursSeries(history))
		if !ok {
			continue
		}

		items = append(items, entity.SnapshotInput{
			FeatureId: def.Id,
			EntityId:  p.Id.String(),
			Ts:        now,
			Value: entity.Document{
				"horizon_days":          ForecastHorizonDays,
				"last_observation":      projection.LastObservation,
				"forecast_next_horizon": forecast.Round2(projection.Forecast),
				"trend_per_snapshot":    forecast.Round2(projection.Trend),
				"sample_size":           projection.SampleSize,
				"source_feature_id":     source.Id.String(),
				"generated_at":          generatedAt,
			},
		})
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	processed, err = s.writer.Write(ctx, def, items)
	if err != nil {
		return 0, fmt.Errorf("write %s snapshots: %w", CapacityForecastFeature, err)
	}

	s.logger.Info(moduleCapacityForecast, "Capacity forecast completed", map[string]interface{}{
		"processed": processed,
		"projects":  len(projects),
		"ts":        generatedAt,
	})

	return processed, nil
}

// hoursSeries orders history oldest first and extracts hours_7d. Unusable
// values become NaN so they keep their position on the x axis.
func hoursSeries(history []*entity.FeatureSnapshot) []float64 {
	sorted := make([]*entity.FeatureSnapshot, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ts.Before(sorted[j].Ts)
	})

	series := make([]float64, len(sorted))
	for i, snap := range sorted {
		series[i] = numericValue(snap.Value["hours_7d"])
	}
	return series
}

func numericValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
