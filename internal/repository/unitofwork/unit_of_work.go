package unitofwork

import (
	"context"

	"airdrop-tracker-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AirdropRepository() contract.AirdropRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ActivityLogRepository() contract.ActivityLogRepository
}
