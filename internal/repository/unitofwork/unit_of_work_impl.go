package unitofwork

import (
	"context"
	"errors"

	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxAlreadyStarted = errors.New("transaction already started")
	ErrNoTransaction    = errors.New("no active transaction")
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

// getDB returns the open transaction, or the plain handle outside one.
func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxAlreadyStarted
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
		return ErrNoTransaction
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is safe to defer; after Commit it returns ErrNoTransaction.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AirdropRepository() contract.AirdropRepository {
	return implementation.NewAirdropRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatMessageRepository() contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ActivityLogRepository() contract.ActivityLogRepository {
	return implementation.NewActivityLogRepository(u.getDB())
}
