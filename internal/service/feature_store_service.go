package service

import (
	"context"

	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/dto"
	"erp-featurestore-be/internal/entity"
)

type IFeatureStoreService interface {
	ListDefinitions(ctx context.Context, entityType string) ([]*dto.FeatureDefinitionResponse, error)
	GetDefinition(ctx context.Context, name string) (*dto.FeatureDefinitionResponse, error)
	RegisterDefinition(ctx context.Context, req *dto.RegisterFeatureDefinitionRequest) (*dto.FeatureDefinitionResponse, error)
	RecordSnapshots(ctx context.Context, featureName string, req *dto.RecordSnapshotsRequest) (*dto.RecordSnapshotsResponse, error)
	Latest(ctx context.Context, featureName string, entityId string) (*dto.FeatureSnapshotResponse, error)
	Timeseries(ctx context.Context, featureName string, entityId string, limit int) (*dto.TimeseriesResponse, error)
}

type featureStoreService struct {
	registry IFeatureRegistryService
	store    ISnapshotStoreService
	writer   *SnapshotWriter
}

func NewFeatureStoreService(
	registry IFeatureRegistryService,
	store ISnapshotStoreService,
	writer *SnapshotWriter,
) IFeatureStoreService {
	return &featureStoreService{
		registry: registry,
		store:    store,
		writer:   writer,
	}
}

func (s *featureStoreService) ListDefinitions(ctx context.Context, entityType string) ([]*dto.FeatureDefinitionResponse, error) {
	defs, err := s.registry.List(ctx, entityType)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FeatureDefinitionResponse, 0, len(defs))
	for _, def := range defs {
		res = append(res, toDefinitionResponse(def))
	}
	return res, nil
}

// GetDefinition reads the stored row so version and config reflect registrations made
// by other instances.
func (s *featureStoreService) GetDefinition(ctx context.Context, name string) (*dto.FeatureDefinitionResponse, error) {
	def, err := s.registry.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, apperror.NotFound("feature %q is not registered", name)
	}
	return toDefinitionResponse(def), nil
}

func (s *featureStoreService) RegisterDefinition(ctx context.Context, req *dto.RegisterFeatureDefinitionRequest) (*dto.FeatureDefinitionResponse, error) {
	def, err := s.registry.Register(ctx, RegisterDefinitionParams{
		Name:        req.Name,
		Entity:      req.Entity,
		Description: req.Description,
		Version:     req.Version,
		Config:      req.Config,
	})
	if err != nil {
		return nil, err
	}
	return toDefinitionResponse(def), nil
}

func (s *featureStoreService) RecordSnapshots(ctx context.Context, featureName string, req *dto.RecordSnapshotsRequest) (*dto.RecordSnapshotsResponse, error) {
	def, err := s.resolve(ctx, featureName)
	if err != nil {
		return nil, err
	}

	items := make([]entity.SnapshotInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.SnapshotInput{
			FeatureId: def.Id,
			EntityId:  item.EntityId,
			Ts:        item.Ts,
			Value:     item.Value,
		})
	}

	written, err := s.writer.Write(ctx, def, items)
	if err != nil {
		return nil, err
	}

	return &dto.RecordSnapshotsResponse{
		Feature: def.Name,
		Written: written,
	}, nil
}

func (s *featureStoreService) Latest(ctx context.Context, featureName string, entityId string) (*dto.FeatureSnapshotResponse, error) {
	def, err := s.resolve(ctx, featureName)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.Latest(ctx, def.Id, entityId)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, apperror.NotFound("no %s snapshot for entity %q", def.Name, entityId)
	}
	return toSnapshotResponse(def, snap), nil
}

func (s *featureStoreService) Timeseries(ctx context.Context, featureName string, entityId string, limit int) (*dto.TimeseriesResponse, error) {
	def, err := s.resolve(ctx, featureName)
	if err != nil {
		return nil, err
	}

	snaps, err := s.store.Timeseries(ctx, def.Id, entityId, limit)
	if err != nil {
		return nil, err
	}

	res := &dto.TimeseriesResponse{
		Feature:  def.Name,
		EntityId: entityId,
		Items:    make([]*dto.FeatureSnapshotResponse, 0, len(snaps)),
	}
	for _, snap := range snaps {
		res.Items = append(res.Items, toSnapshotResponse(def, snap))
	}
	return res, nil
}

func (s *featureStoreService) resolve(ctx context.Context, name string) (*entity.FeatureDefinition, error) {
	def, err := s.registry.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, apperror.NotFound("feature %q is not registered", name)
	}
	return def, nil
}

func toDefinitionResponse(def *entity.FeatureDefinition) *dto.FeatureDefinitionResponse {
	return &dto.FeatureDefinitionResponse{
		Id:          def.Id,
		Name:        def.Name,
		Entity:      def.Entity,
		Description: def.Description,
		Version:     def.Version,
		Config:      def.Config,
		CreatedAt:   def.CreatedAt,
		UpdatedAt:   def.UpdatedAt,
	}
}

func toSnapshotResponse(def *entity.FeatureDefinition, snap *entity.FeatureSnapshot) *dto.FeatureSnapshotResponse {
	return &dto.FeatureSnapshotResponse{
		Id:        snap.Id,
		FeatureId: snap.FeatureId,
		Feature:   def.Name,
		EntityId:  snap.EntityId,
		Ts:        snap.Ts,
		Value:     snap.Value,
		CreatedAt: snap.CreatedAt,
	}
}
