package mapper

import (
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/model"

	"github.com/samber/lo"
)

type AirdropMapper struct {
	users *UserMapper
}

func NewAirdropMapper() *AirdropMapper {
	return &AirdropMapper{users: NewUserMapper()}
}

func (m *AirdropMapper) ToEntity(a *model.Airdrop) *entity.Airdrop {
	if a == nil {
		return nil
	}
	return &entity.Airdrop{
		Id:              a.Id,
		UserId:          a.UserId,
		Name:            a.Name,
		Description:     a.Description,
		Link:            a.Link,
		Blockchain:      a.Blockchain,
		ExpectedValue:   a.ExpectedValue,
		Status:          entity.AirdropStatus(a.Status),
		StartDate:       a.StartDate,
		EndDate:         a.EndDate,
		Notes:           a.Notes,
		TokenSymbol:     a.TokenSymbol,
		ContractAddress: a.ContractAddress,
		ClaimDate:       a.ClaimDate,
		ClaimedAmount:   a.ClaimedAmount,
		Screenshot:      a.Screenshot,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Owner:           m.users.ToEntity(a.User),
	}
}

// ToModel leaves the User association empty so saves never touch users.
func (m *AirdropMapper) ToModel(a *entity.Airdrop) *model.Airdrop {
	if a == nil {
		return nil
	}
	return &model.Airdrop{
		Id:              a.Id,
		UserId:          a.UserId,
		Name:            a.Name,
		Description:     a.Description,
		Link:            a.Link,
		Blockchain:      a.Blockchain,
		ExpectedValue:   a.ExpectedValue,
		Status:          string(a.Status),
		StartDate:       a.StartDate,
		EndDate:         a.EndDate,
		Notes:           a.Notes,
		TokenSymbol:     a.TokenSymbol,
		ContractAddress: a.ContractAddress,
		ClaimDate:       a.ClaimDate,
		ClaimedAmount:   a.ClaimedAmount,
		Screenshot:      a.Screenshot,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m *AirdropMapper) ToEntities(airdrops []*model.Airdrop) []*entity.Airdrop {
	return lo.Map(airdrops, func(a *model.Airdrop, _ int) *entity.Airdrop {
		return m.ToEntity(a)
	})
}
