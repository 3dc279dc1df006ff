package service

import (
	"context"
	"fmt"

	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/repository/memory"
	"erp-featurestore-be/internal/repository/specification"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/pkg/database"
)

const moduleRegistry = "FEATURE_REGISTRY"

type RegisterDefinitionParams struct {
	Name        string
	Entity      string
	Description *string
	// nil keeps the stored version (1 on first registration)
	Version *int
	Config  entity.Document
}

type IFeatureRegistryService interface {
	Register(ctx context.Context, params RegisterDefinitionParams) (*entity.FeatureDefinition, error)
	FindByName(ctx context.Context, name string) (*entity.FeatureDefinition, error)
	// Resolve is FindByName through the definition cache.
	Resolve(ctx context.Context, name string) (*entity.FeatureDefinition, error)
	// List returns every definition, or only those of entityType when it is set.
	List(ctx context.Context, entityType string) ([]*entity.FeatureDefinition, error)
}

type featureRegistryService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.DefinitionCache
	logger     logger.ILogger
}

func NewFeatureRegistryService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.DefinitionCache,
	logger logger.ILogger,
) IFeatureRegistryService {
	return &featureRegistryService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
	}
}

func (s *featureRegistryService) Register(ctx context.Context, params RegisterDefinitionParams) (*entity.FeatureDefinition, error) {
	if params.Name == "" {
		return nil, apperror.Invalid("feature name is required")
	}
	if params.Entity == "" {
		return nil, apperror.Invalid("feature entity is required")
	}
	if params.Version != nil && *params.Version < 1 {
		return nil, apperror.Invalid("feature version must be >= 1, got %d", *params.Version)
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).FeatureDefinitionRepository()

	existing, err := repo.FindByName(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		def := &entity.FeatureDefinition{
			Name:        params.Name,
			Entity:      params.Entity,
			Description: params.Description,
			Version:     1,
			Config:      configOrEmpty(params.Config),
		}
		if params.Version != nil {
			def.Version = *params.Version
		}

		createErr := repo.Create(ctx, def)
		if createErr == nil {
			s.cacheSave(def)
			s.logger.Info(moduleRegistry, "Feature definition created", map[string]interface{}{
				"name":    def.Name,
				"id":      def.Id.String(),
				"version": def.Version,
			})
			return def, nil
		}
		if !database.IsUniqueViolation(createErr) {
			return nil, createErr
		}

		// Another writer registered the name first, update theirs
		existing, err = repo.FindByName(ctx, params.Name)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperror.Wrap(apperror.KindConflict, createErr, fmt.Sprintf("feature %q conflicted but could not be re-read", params.Name))
		}
	}

	existing.Entity = params.Entity
	existing.Description = params.Description
	existing.Config = configOrEmpty(params.Config)
	if params.Version != nil {
		existing.Version = *params.Version
	}

	if err := repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.cacheSave(existing)

	return existing, nil
}

func (s *featureRegistryService) FindByName(ctx context.Context, name string) (*entity.FeatureDefinition, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FeatureDefinitionRepository().FindByName(ctx, name)
}

func (s *featureRegistryService) Resolve(ctx context.Context, name string) (*entity.FeatureDefinition, error) {
	if s.cache != nil {
		if def, ok := s.cache.Get(name); ok {
			return def, nil
		}
	}

	def, err := s.FindByName(ctx, name)
	if err != nil || def == nil {
		return def, err
	}
	s.cacheSave(def)
	return def, nil
}

func (s *featureRegistryService) List(ctx context.Context, entityType string) ([]*entity.FeatureDefinition, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if entityType != "" {
		specs = append(specs, specification.ByEntityType{Entity: entityType})
	}
	return uow.FeatureDefinitionRepository().FindAll(ctx, specs...)
}

func (s *featureRegistryService) cacheSave(def *entity.FeatureDefinition) {
	if s.cache != nil {
		s.cache.Save(def)
	}
}

func configOrEmpty(config entity.Document) entity.Document {
	if config == nil {
		return entity.Document{}
	}
	return config
}
