package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByName filters definitions by exact name
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// ByEntityType filters definitions by their entity label
type ByEntityType struct {
	Entity string
}

func (s ByEntityType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entity = ?", s.Entity)
}

// ForFeatureEntity scopes snapshots to one feature and one subject
type ForFeatureEntity struct {
	FeatureId uuid.UUID
	EntityId  string
}

func (s ForFeatureEntity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("feature_id = ? AND entity_id = ?", s.FeatureId, s.EntityId)
}
