// FILE: internal/entity/feature_entity.go
// Domain entities for the feature store
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is a schema-less JSON object (definition config, snapshot value).
type Document map[string]interface{}

// FeatureDefinition is a named, versioned metric series for an entity type
type FeatureDefinition struct {
	Id          uuid.UUID
	Name        string  // Unique, stable identifier used by readers and writers
	Entity      string  // Free-form entity label: project, customer, ...
	Description *string // Optional
	Version     int
	Config      Document
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FeatureSnapshot is one point-in-time value of a feature for one entity
type FeatureSnapshot struct {
	Id        uuid.UUID
	FeatureId uuid.UUID
	EntityId  string
	Ts        time.Time
	Value     Document
	CreatedAt time.Time
}

// SnapshotInput is a single row of a batch upsert
type SnapshotInput struct {
	FeatureId uuid.UUID
	EntityId  string
	Ts        time.Time
	Value     Document
}
