// FILE: internal/mapper/project_mapper.go
package mapper

import (
	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/model"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntities(models []*model.Project) []*entity.TrackedProject {
	entities := make([]*entity.TrackedProject, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, &entity.TrackedProject{
			Id:            mdl.Id,
			Name:          mdl.Name,
			Status:        mdl.Status,
			PipelineStage: mdl.PipelineStage,
			Type:          mdl.Type,
		})
	}
	return entities
}

func (m *ProjectMapper) TimeFacts(models []*model.TimeEntry) []*entity.TimeFact {
	facts := make([]*entity.TimeFact, 0, len(models))
	for _, mdl := range models {
		facts = append(facts, &entity.TimeFact{
			ProjectId:    mdl.ProjectId,
			Start:        mdl.StartTime,
			End:          mdl.EndTime,
			BreakMinutes: mdl.BreakMinutes,
		})
	}
	return facts
}
