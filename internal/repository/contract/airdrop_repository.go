package contract

import (
	"context"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AirdropRepository interface {
	Create(ctx context.Context, airdrop *entity.Airdrop) error
	Update(ctx context.Context, airdrop *entity.Airdrop) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Airdrop, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Airdrop, error)
	CountByStatus(ctx context.Context, specs ...specification.Specification) ([]entity.AirdropStatusCount, error)
}
