package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/metrics"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/internal/tracer"
	"erp-featurestore-be/pkg/capacity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	CapacityWindowFeature   = "project_capacity_window"
	CapacityForecastFeature = "project_capacity_forecast"
	EntityProject           = "project"

	PipelineCapacitySync     = "capacity_sync"
	PipelineCapacityForecast = "capacity_forecast"

	// Watermill topic fired after a successful capacity window run
	TopicCapacityWindowSynced = "capacity_window_synced"

	moduleCapacitySync = "CAPACITY_SYNC"
)

type CapacityWindowSyncedMessage struct {
	FeatureId uuid.UUID `json:"feature_id"`
	Processed int       `json:"processed"`
	Ts        time.Time `json:"ts"`
}

type ICapacitySyncService interface {
	// SyncCapacity writes one project_capacity_window snapshot per tracked project.
	SyncCapacity(ctx context.Context) (int, error)
}

type capacitySyncService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   IFeatureRegistryService
	writer     *SnapshotWriter
	bus        message.Publisher
	clock      Clock
	metrics    *metrics.PipelineMetrics
	logger     logger.ILogger
}

func NewCapacitySyncService(
	uowFactory unitofwork.RepositoryFactory,
	registry IFeatureRegistryService,
	writer *SnapshotWriter,
	bus message.Publisher,
	clock Clock,
	metrics *metrics.PipelineMetrics,
	logger logger.ILogger,
) ICapacitySyncService {
	if clock == nil {
		clock = time.Now
	}
	return &capacitySyncService{
		uowFactory: uowFactory,
		registry:   registry,
		writer:     writer,
		bus:        bus,
		clock:      clock,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *capacitySyncService) SyncCapacity(ctx context.Context) (processed int, err error) {
	started := time.Now()
	ctx, span := tracer.Tracer().Start(ctx, "capacity_sync.run")
	defer func() {
		s.metrics.ObserveRun(PipelineCapacitySync, started, err)
		span.SetAttributes(attribute.Int("snapshots.processed", processed))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error(moduleCapacitySync, "Capacity sync failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		span.End()
	}()

	description := "Rolling 7d/30d logged hours and membership per project"
	def, err := s.registry.Register(ctx, RegisterDefinitionParams{
		Name:        CapacityWindowFeature,
		Entity:      EntityProject,
		Description: &description,
		Config: entity.Document{
			"windows_days": []int{capacity.ShortWindowDays, capacity.LongWindowDays},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("ensure %s definition: %w", CapacityWindowFeature, err)
	}

	now := s.clock().UTC().Truncate(time.Millisecond)
	windows := capacity.NewWindows(now)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var (
		projects []*entity.TrackedProject
		members  map[uuid.UUID]int
		facts    []*entity.TimeFact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = uow.ProjectDirectory().ListTrackedProjects(gctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = uow.MembershipCounter().CountMembersByProject(gctx)
		if err != nil {
			return fmt.Errorf("count project members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		facts, err = uow.TimeFactSource().ListTimeFacts(gctx, windows.LongStart)
		if err != nil {
			return fmt.Errorf("list time entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	tracked := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		tracked = append(tracked, p.Id)
	}
	buckets := capacity.Aggregate(facts, tracked, windows)

	generatedAt := now.Format(isoMillis)
	items := make([]entity.SnapshotInput, 0, len(projects))
	for _, p := range projects {
		b := buckets[p.Id]
		if b == nil {
			b = &capacity.Bucket{}
		}
		items = append(items, entity.SnapshotInput{
			FeatureId: def.Id,
			EntityId:  p.Id.String(),
			Ts:        now,
			Value: entity.Document{
				"project_id":     p.Id.String(),
				"name":           p.Name,
				"status":         p.Status,
				"pipeline_stage": p.PipelineStage,
				"type":           p.Type,
				"member_count":   members[p.Id],
				"hours_7d":       b.Hours7d(),
				"hours_30d":      b.Hours30d(),
				"entries_7d":     b.Entries7d,
				"entries_30d":    b.Entries30d,
				"generated_at":   generatedAt,
			},
		})
	}

	// Nothing has been written yet, a cancelled run leaves no trace
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	processed, err = s.writer.Write(ctx, def, items)
	if err != nil {
		return 0, fmt.Errorf("write %s snapshots: %w", CapacityWindowFeature, err)
	}

	s.logger.Info(moduleCapacitySync, "Capacity sync completed", map[string]interface{}{
		"processed": processed,
		"ts":        generatedAt,
	})

	if processed > 0 {
		s.announce(def.Id, processed, now)
	}

	return processed, nil
}

func (s *capacitySyncService) announce(featureId uuid.UUID, processed int, ts time.Time) {
	if s.bus == nil {
		return
	}

	payload, err := json.Marshal(CapacityWindowSyncedMessage{
		FeatureId: featureId,
		Processed: processed,
		Ts:        ts,
	})
	if err != nil {
		return
	}

	if err := s.bus.Publish(TopicCapacityWindowSynced, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn(moduleCapacitySync, "Failed to announce capacity window sync", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
