package unitofwork

import (
	"context"

	"erp-featurestore-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FeatureDefinitionRepository() contract.FeatureDefinitionRepository
	FeatureSnapshotRepository() contract.FeatureSnapshotRepository

	// Read-only ERP sources
	ProjectDirectory() contract.ProjectDirectory
	MembershipCounter() contract.MembershipCounter
	TimeFactSource() contract.TimeFactSource
}
