// FILE: internal/dto/feature_store_dto.go
// DTOs for the feature store REST surface, CLI and NATS ingest
package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Definitions ---

type RegisterFeatureDefinitionRequest struct {
	Name        string                 `json:"name" yaml:"name" validate:"required,max=255"`
	Entity      string                 `json:"entity" yaml:"entity" validate:"required,max=100"`
	Description *string                `json:"description,omitempty" yaml:"description,omitempty"`
	Version     *int                   `json:"version,omitempty" yaml:"version,omitempty" validate:"omitempty,min=1"`
	Config      map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// FeatureManifest is the YAML document applied by `featurectl definitions apply`
type FeatureManifest struct {
	Definitions []RegisterFeatureDefinitionRequest `yaml:"definitions" validate:"dive"`
}

type FeatureDefinitionResponse struct {
	Id          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Entity      string                 `json:"entity"`
	Description *string                `json:"description"`
	Version     int                    `json:"version"`
	Config      map[string]interface{} `json:"config"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// --- Snapshots ---

type SnapshotItemRequest struct {
	EntityId string                 `json:"entity_id" validate:"required,max=255"`
	Ts       time.Time              `json:"ts"`
	Value    map[string]interface{} `json:"value"`
}

type RecordSnapshotsRequest struct {
	Items []SnapshotItemRequest `json:"items" validate:"dive"`
}

// RecordSnapshotsMessage is the payload on features.snapshots.record
type RecordSnapshotsMessage struct {
	Feature string                `json:"feature" validate:"required"`
	Items   []SnapshotItemRequest `json:"items" validate:"dive"`
}

type RecordSnapshotsResponse struct {
	Feature string `json:"feature"`
	Written int    `json:"written"`
}

type FeatureSnapshotResponse struct {
	Id        uuid.UUID              `json:"id"`
	FeatureId uuid.UUID              `json:"feature_id"`
	Feature   string                 `json:"feature"`
	EntityId  string                 `json:"entity_id"`
	Ts        time.Time              `json:"ts"`
	Value     map[string]interface{} `json:"value"`
	CreatedAt time.Time              `json:"created_at"`
}

type TimeseriesResponse struct {
	Feature  string                     `json:"feature"`
	EntityId string                     `json:"entity_id"`
	Items    []*FeatureSnapshotResponse `json:"items"`
}

// --- Pipelines ---

type SyncRunResponse struct {
	Pipeline  string `json:"pipeline"`
	Processed int    `json:"processed"`
	Error     string `json:"error,omitempty"`
}
