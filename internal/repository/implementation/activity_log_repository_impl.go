package implementation

import (
	"context"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/mapper"
	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ActivityLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewActivityLogRepository(db *gorm.DB) contract.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *ActivityLogRepositoryImpl) Create(ctx context.Context, log *entity.ActivityLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	m, err := r.mapper.ToModel(log)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error) {
	var models []*model.ActivityLog
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return lo.Map(models, func(m *model.ActivityLog, _ int) *entity.ActivityLog {
		return r.mapper.ToEntity(m)
	}), nil
}
