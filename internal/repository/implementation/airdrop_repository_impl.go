package implementation

import (
	"context"
	"errors"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/mapper"
	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type AirdropRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AirdropMapper
}

func NewAirdropRepository(db *gorm.DB) contract.AirdropRepository {
	return &AirdropRepositoryImpl{
		db:     db,
		mapper: mapper.NewAirdropMapper(),
	}
}

func (r *AirdropRepositoryImpl) Create(ctx context.Context, airdrop *entity.Airdrop) error {
	m := r.mapper.ToModel(airdrop)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*airdrop = *r.mapper.ToEntity(m)
	return nil
}

func (r *AirdropRepositoryImpl) Update(ctx context.Context, airdrop *entity.Airdrop) error {
	owner := airdrop.Owner
	m := r.mapper.ToModel(airdrop)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*airdrop = *r.mapper.ToEntity(m)
	airdrop.Owner = owner
	return nil
}

func (r *AirdropRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Airdrop{}).Error
}

func (r *AirdropRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.Airdrop{}).Error
}

func (r *AirdropRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Airdrop, error) {
	var m model.Airdrop
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AirdropRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Airdrop, error) {
	var models []*model.Airdrop
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// CountByStatus groups the filtered airdrops by status. Statuses with no
// rows are absent; callers zero-fill.
func (r *AirdropRepositoryImpl) CountByStatus(ctx context.Context, specs ...specification.Specification) ([]entity.AirdropStatusCount, error) {
	var rows []model.AirdropStatusCount
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Airdrop{}), specs...)

	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row model.AirdropStatusCount, _ int) entity.AirdropStatusCount {
		return entity.AirdropStatusCount{Status: entity.AirdropStatus(row.Status), Count: row.Count}
	}), nil
}
