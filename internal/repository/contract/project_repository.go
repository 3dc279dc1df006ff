// FILE: internal/repository/contract/project_repository.go
// Read-only views over ERP operational tables
package contract

import (
	"context"
	"time"

	"erp-featurestore-be/internal/entity"

	"github.com/google/uuid"
)

type ProjectDirectory interface {
	ListTrackedProjects(ctx context.Context) ([]*entity.TrackedProject, error)
}

type MembershipCounter interface {
	CountMembersByProject(ctx context.Context) (map[uuid.UUID]int, error)
}

// TimeFactSource lists logged time intervals; a zero since returns every row.
type TimeFactSource interface {
	ListTimeFacts(ctx context.Context, since time.Time) ([]*entity.TimeFact, error)
}
