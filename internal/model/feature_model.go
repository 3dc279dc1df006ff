// FILE: internal/model/feature_model.go
// GORM models for the feature store tables
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeatureDefinition is a row of the feature_definitions catalog
type FeatureDefinition struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Entity      string         `gorm:"type:varchar(100);not null"`
	Description *string        `gorm:"type:text"`
	Version     int            `gorm:"not null;default:1"`
	Config      datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (FeatureDefinition) TableName() string {
	return "feature_definitions"
}

func (m *FeatureDefinition) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	return nil
}

// FeatureSnapshot is one (feature, entity, ts) value. The unique index is both the
// upsert conflict target and the access path for latest/timeseries reads.
type FeatureSnapshot struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FeatureId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_feature_snapshots_triple,priority:1"`
	EntityId  string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_feature_snapshots_triple,priority:2"`
	Ts        time.Time      `gorm:"not null;uniqueIndex:idx_feature_snapshots_triple,priority:3"`
	Value     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (FeatureSnapshot) TableName() string {
	return "feature_snapshots"
}

// BeforeCreate assigns a time-ordered id so the highest id is the latest insert.
func (m *FeatureSnapshot) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.Id = id
	}
	return nil
}
