// FILE: internal/repository/implementation/project_repository_impl.go
// GORM readers over the ERP project, membership and time entry tables
package implementation

import (
	"context"
	"time"

	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/mapper"
	"erp-featurestore-be/internal/model"
	"erp-featurestore-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProjectMapper
}

func NewProjectRepository(db *gorm.DB) contract.ProjectDirectory {
	return &ProjectRepositoryImpl{
		db:     db,
		mapper: mapper.NewProjectMapper(),
	}
}

func (r *ProjectRepositoryImpl) ListTrackedProjects(ctx context.Context) ([]*entity.TrackedProject, error) {
	var models []*model.Project
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type ProjectMemberRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectMemberRepository(db *gorm.DB) contract.MembershipCounter {
	return &ProjectMemberRepositoryImpl{db: db}
}

func (r *ProjectMemberRepositoryImpl) CountMembersByProject(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		ProjectId uuid.UUID
		Total     int
	}
	err := r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Select("project_id, COUNT(*) AS total").
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.ProjectId] = row.Total
	}
	return counts, nil
}

// TimeEntryRepositoryImpl reads time entries. A non-zero since skips rows that start
// before it; the capacity windows never look further back than their longest window.
type TimeEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProjectMapper
}

func NewTimeEntryRepository(db *gorm.DB) contract.TimeFactSource {
	return &TimeEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewProjectMapper(),
	}
}

func (r *TimeEntryRepositoryImpl) ListTimeFacts(ctx context.Context, since time.Time) ([]*entity.TimeFact, error) {
	var models []*model.TimeEntry
	query := r.db.WithContext(ctx).Order("start_time ASC")
	if !since.IsZero() {
		query = query.Where("start_time >= ?", since)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TimeFacts(models), nil
}
