// FILE: internal/repository/implementation/feature_snapshot_repository_impl.go
// Implementation of FeatureSnapshotRepository
package implementation

import (
	"context"
	"errors"

	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/mapper"
	"erp-featurestore-be/internal/model"
	"erp-featurestore-be/internal/repository/contract"
	"erp-featurestore-be/internal/repository/scope"
	"erp-featurestore-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureSnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureSnapshotMapper
}

func NewFeatureSnapshotRepository(db *gorm.DB) contract.FeatureSnapshotRepository {
	return &FeatureSnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureSnapshotMapper(),
	}
}

var snapshotConflictTarget = clause.OnConflict{
	Columns:   []clause.Column{{Name: "feature_id"}, {Name: "entity_id"}, {Name: "ts"}},
	DoUpdates: clause.AssignmentColumns([]string{"value"}),
}

func (r *FeatureSnapshotRepositoryImpl) UpsertBatch(ctx context.Context, items []entity.SnapshotInput, chunkSize int) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]*model.FeatureSnapshot, 0, len(items))
	for _, item := range items {
		m, err := r.mapper.FromInput(item)
		if err != nil {
			return 0, err
		}
		rows = append(rows, m)
	}

	if chunkSize <= 0 || chunkSize > len(rows) {
		chunkSize = len(rows)
	}

	if err := r.db.WithContext(ctx).Clauses(snapshotConflictTarget).CreateInBatches(&rows, chunkSize).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *FeatureSnapshotRepositoryImpl) Latest(ctx context.Context, featureId uuid.UUID, entityId string) (*entity.FeatureSnapshot, error) {
	var m model.FeatureSnapshot
	err := specification.ForFeatureEntity{FeatureId: featureId, EntityId: entityId}.
		Apply(r.db.WithContext(ctx)).
		Scopes(scope.NewestFirst).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureSnapshotRepositoryImpl) Timeseries(ctx context.Context, featureId uuid.UUID, entityId string, limit int) ([]*entity.FeatureSnapshot, error) {
	var models []*model.FeatureSnapshot
	query := r.db.WithContext(ctx).Scopes(scope.NewestFirst)
	query = specification.ForFeatureEntity{FeatureId: featureId, EntityId: entityId}.Apply(query)
	err := specification.Limit{N: limit}.Apply(query).Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
