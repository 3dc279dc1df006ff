// FILE: internal/repository/contract/feature_repository.go
// Repository interfaces for the feature store (definitions + snapshots)
package contract

import (
	"context"

	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FeatureDefinitionRepository interface {
	Create(ctx context.Context, def *entity.FeatureDefinition) error
	Update(ctx context.Context, def *entity.FeatureDefinition) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureDefinition, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureDefinition, error)
	FindByName(ctx context.Context, name string) (*entity.FeatureDefinition, error)
}

type FeatureSnapshotRepository interface {
	// UpsertBatch writes rows in chunks of chunkSize; each chunk is one multi-row
	// INSERT .. ON CONFLICT statement. Callers provide the transaction.
	UpsertBatch(ctx context.Context, items []entity.SnapshotInput, chunkSize int) (int, error)
	Latest(ctx context.Context, featureId uuid.UUID, entityId string) (*entity.FeatureSnapshot, error)
	Timeseries(ctx context.Context, featureId uuid.UUID, entityId string, limit int) ([]*entity.FeatureSnapshot, error)
}
