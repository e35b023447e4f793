package mapper

import (
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/model"

	"github.com/samber/lo"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                u.Id,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		EmailVerified:     u.EmailVerified,
		VerificationToken: u.VerificationToken,
		GoogleId:          u.GoogleId,
		IsAdmin:           u.IsAdmin,
		ProfilePicture:    u.ProfilePicture,
		Level:             u.Level,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                u.Id,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		EmailVerified:     u.EmailVerified,
		VerificationToken: u.VerificationToken,
		GoogleId:          u.GoogleId,
		IsAdmin:           u.IsAdmin,
		ProfilePicture:    u.ProfilePicture,
		Level:             u.Level,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	return lo.Map(users, func(u *model.User, _ int) *entity.User {
		return m.ToEntity(u)
	})
}
