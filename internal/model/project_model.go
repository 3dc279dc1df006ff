// FILE: internal/model/project_model.go
// GORM models for the ERP tables read by the capacity pipelines.
// These tables are owned by the ERP CRUD modules; the feature store only reads them.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Status        string    `gorm:"type:varchar(50)"`
	PipelineStage string    `gorm:"type:varchar(50)"`
	Type          string    `gorm:"type:varchar(50)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}

type ProjectMember struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectId uuid.UUID `gorm:"type:uuid;index;not null"`
	UserId    uuid.UUID `gorm:"type:uuid;not null"`
	Role      string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time
}

func (ProjectMember) TableName() string {
	return "project_members"
}

type TimeEntry struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProjectId    *uuid.UUID `gorm:"type:uuid;index"`
	UserId       uuid.UUID  `gorm:"type:uuid"`
	StartTime    time.Time  `gorm:"not null"`
	EndTime      *time.Time
	BreakMinutes int `gorm:"not null;default:0"`
	Note         string
	CreatedAt    time.Time
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
