package unitofwork

import (
	"context"
	"fmt"

	"erp-featurestore-be/internal/repository/contract"
	"erp-featurestore-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) FeatureDefinitionRepository() contract.FeatureDefinitionRepository {
	return implementation.NewFeatureDefinitionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FeatureSnapshotRepository() contract.FeatureSnapshotRepository {
	return implementation.NewFeatureSnapshotRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ProjectDirectory() contract.ProjectDirectory {
	return implementation.NewProjectRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MembershipCounter() contract.MembershipCounter {
	return implementation.NewProjectMemberRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TimeFactSource() contract.TimeFactSource {
	return implementation.NewTimeEntryRepository(u.getDB())
}
