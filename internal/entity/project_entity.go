// FILE: internal/entity/project_entity.go
// Read-only views of ERP operational data consumed by the capacity pipelines
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TrackedProject is a project the capacity pipelines produce snapshots for
type TrackedProject struct {
	Id            uuid.UUID
	Name          string
	Status        string
	PipelineStage string
	Type          string
}

// TimeFact is a logged time interval. End is nil while the interval is still open.
type TimeFact struct {
	ProjectId    *uuid.UUID
	Start        time.Time
	End          *time.Time
	BreakMinutes int
}
