package contract

import (
	"context"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/specification"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error)
}
