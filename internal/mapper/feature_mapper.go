// FILE: internal/mapper/feature_mapper.go
// Mapper for FeatureDefinition / FeatureSnapshot entity <-> model conversion
package mapper

import (
	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/model"
)

type FeatureDefinitionMapper struct{}

func NewFeatureDefinitionMapper() *FeatureDefinitionMapper {
	return &FeatureDefinitionMapper{}
}

func (m *FeatureDefinitionMapper) ToEntity(model *model.FeatureDefinition) *entity.FeatureDefinition {
	if model == nil {
		return nil
	}
	return &entity.FeatureDefinition{
		Id:          model.Id,
		Name:        model.Name,
		Entity:      model.Entity,
		Description: model.Description,
		Version:     model.Version,
		Config:      DecodeDocument(model.Config),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (m *FeatureDefinitionMapper) ToModel(entity *entity.FeatureDefinition) (*model.FeatureDefinition, error) {
	if entity == nil {
		return nil, nil
	}
	config, err := EncodeDocument(entity.Config)
	if err != nil {
		return nil, err
	}
	return &model.FeatureDefinition{
		Id:          entity.Id,
		Name:        entity.Name,
		Entity:      entity.Entity,
		Description: entity.Description,
		Version:     entity.Version,
		Config:      config,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}, nil
}

func (m *FeatureDefinitionMapper) ToEntities(models []*model.FeatureDefinition) []*entity.FeatureDefinition {
	entities := make([]*entity.FeatureDefinition, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}

type FeatureSnapshotMapper struct{}

func NewFeatureSnapshotMapper() *FeatureSnapshotMapper {
	return &FeatureSnapshotMapper{}
}

func (m *FeatureSnapshotMapper) ToEntity(model *model.FeatureSnapshot) *entity.FeatureSnapshot {
	if model == nil {
		return nil
	}
	return &entity.FeatureSnapshot{
		Id:        model.Id,
		FeatureId: model.FeatureId,
		EntityId:  model.EntityId,
		Ts:        model.Ts,
		Value:     DecodeDocument(model.Value),
		CreatedAt: model.CreatedAt,
	}
}

func (m *FeatureSnapshotMapper) ToEntities(models []*model.FeatureSnapshot) []*entity.FeatureSnapshot {
	entities := make([]*entity.FeatureSnapshot, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}

// FromInput builds an insertable row; the id is assigned by the model hook.
func (m *FeatureSnapshotMapper) FromInput(in entity.SnapshotInput) (*model.FeatureSnapshot, error) {
	value, err := EncodeDocument(in.Value)
	if err != nil {
		return nil, err
	}
	return &model.FeatureSnapshot{
		FeatureId: in.FeatureId,
		EntityId:  in.EntityId,
		Ts:        in.Ts,
		Value:     value,
	}, nil
}
