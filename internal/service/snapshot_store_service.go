package service

import (
	"context"
	"time"

	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/config"
	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/internal/tracer"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type ISnapshotStoreService interface {
	InsertBatch(ctx context.Context, items []entity.SnapshotInput) (int, error)
	Latest(ctx context.Context, featureId uuid.UUID, entityId string) (*entity.FeatureSnapshot, error)
	Timeseries(ctx context.Context, featureId uuid.UUID, entityId string, limit int) ([]*entity.FeatureSnapshot, error)
}

type snapshotStoreService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        config.FeatureStoreConfig
}

func NewSnapshotStoreService(uowFactory unitofwork.RepositoryFactory, cfg config.FeatureStoreConfig) ISnapshotStoreService {
	return &snapshotStoreService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// InsertBatch upserts all items in one transaction. Items repeating a
// (feature, entity, ts) key collapse to the last one before the write.
func (s *snapshotStoreService) InsertBatch(ctx context.Context, items []entity.SnapshotInput) (written int, err error) {
	if len(items) == 0 {
		return 0, nil
	}

	ctx, span := tracer.Tracer().Start(ctx, "snapshot_store.insert_batch")
	defer func() {
		span.SetAttributes(attribute.Int("snapshots.written", written))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	batch, err := normalizeBatch(items)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("snapshots.requested", len(items)))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	written, err = uow.FeatureSnapshotRepository().UpsertBatch(ctx, batch, s.cfg.UpsertChunkSize)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	return written, nil
}

func (s *snapshotStoreService) Latest(ctx context.Context, featureId uuid.UUID, entityId string) (*entity.FeatureSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FeatureSnapshotRepository().Latest(ctx, featureId, entityId)
}

func (s *snapshotStoreService) Timeseries(ctx context.Context, featureId uuid.UUID, entityId string, limit int) ([]*entity.FeatureSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FeatureSnapshotRepository().Timeseries(ctx, featureId, entityId, s.clampLimit(limit))
}

func (s *snapshotStoreService) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.TimeseriesDefaultLimit
	}
	if s.cfg.TimeseriesMaxLimit > 0 && limit > s.cfg.TimeseriesMaxLimit {
		limit = s.cfg.TimeseriesMaxLimit
	}
	return limit
}

type snapshotKey struct {
	featureId uuid.UUID
	entityId  string
	ts        time.Time
}

// normalizeBatch validates items, moves ts to UTC at microsecond precision
// (what postgres keeps) and collapses duplicate keys, last one wins.
func normalizeBatch(items []entity.SnapshotInput) ([]entity.SnapshotInput, error) {
	out := make([]entity.SnapshotInput, 0, len(items))
	index := make(map[snapshotKey]int, len(items))

	for i, item := range items {
		if item.FeatureId == uuid.Nil {
			return nil, apperror.Invalid("snapshot %d: feature id is required", i)
		}
		if item.EntityId == "" {
			return nil, apperror.Invalid("snapshot %d: entity id is required", i)
		}
		if item.Ts.IsZero() {
			return nil, apperror.Invalid("snapshot %d: ts is required", i)
		}

		item.Ts = item.Ts.UTC().Truncate(time.Microsecond)
		if item.Value == nil {
			item.Value = entity.Document{}
		}

		key := snapshotKey{featureId: item.FeatureId, entityId: item.EntityId, ts: item.Ts}
		if pos, ok := index[key]; ok {
			out[pos] = item
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out, nil
}
