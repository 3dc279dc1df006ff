// FILE: internal/repository/implementation/feature_repository_impl.go
// Implementation of FeatureDefinitionRepository
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

	"gorm.io/gorm"
)

type FeatureDefinitionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureDefinitionMapper
}

func NewFeatureDefinitionRepository(db *gorm.DB) contract.FeatureDefinitionRepository {
	return &FeatureDefinitionRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureDefinitionMapper(),
	}
}

func (r *FeatureDefinitionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureDefinitionRepositoryImpl) Create(ctx context.Context, def *entity.FeatureDefinition) error {
	m, err := r.mapper.ToModel(def)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*def = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureDefinitionRepositoryImpl) Update(ctx context.Context, def *entity.FeatureDefinition) error {
	m, err := r.mapper.ToModel(def)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*def = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureDefinitionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureDefinition, error) {
	var m model.FeatureDefinition
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureDefinitionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureDefinition, error) {
	var models []*model.FeatureDefinition
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByNameAsc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureDefinitionRepositoryImpl) FindByName(ctx context.Context, name string) (*entity.FeatureDefinition, error) {
	return r.FindOne(ctx, specification.ByName{Name: name})
}
