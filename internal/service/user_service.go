package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/pkg/upload"
	"airdrop-tracker-be/internal/repository/memory"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest, picture *multipart.FileHeader) (*dto.UserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	uploads    *upload.LocalStore
	principals *memory.PrincipalCache
	logger     logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, uploads *upload.LocalStore, principals *memory.PrincipalCache, log logger.ILogger) IUserService {
	return &userService{
		uowFactory: uowFactory,
		uploads:    uploads,
		principals: principals,
		logger:     log,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("user not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest, picture *multipart.FileHeader) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("user not found")
	}

	// 1. Username
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, serverutils.BadRequest("username cannot be empty")
		}
		if username != user.Username {
			taken, err := uow.UserRepository().FindOne(ctx,
				specification.ByUsername{Username: username},
				specification.ExcludeID{ID: user.Id},
			)
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, serverutils.BadRequest("username already taken")
			}
			user.Username = username
		}
	}

	// 2. Password
	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, serverutils.BadRequest("current password is required to change the password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, serverutils.BadRequest("current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	// 3. Picture
	oldPicture := user.ProfilePicture
	var newPicture string
	switch {
	case picture != nil:
		newPicture, err = s.uploads.Save(constant.AvatarDir, picture)
		if err != nil {
			return nil, uploadError(err)
		}
		user.ProfilePicture = &newPicture
	case req.ClearProfilePicture:
		user.ProfilePicture = nil
	default:
		oldPicture = nil
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		if newPicture != "" {
			s.removeLocalPicture(newPicture)
		}
		return nil, err
	}
	s.principals.Invalidate(user.Id)

	if oldPicture != nil {
		s.removeLocalPicture(*oldPicture)
	}
	return toUserResponse(user), nil
}

func uploadError(err error) error {
	if errors.Is(err, upload.ErrFileTooLarge) {
		return serverutils.BadRequest(err.Error())
	}
	return serverutils.Internal("failed to store upload", err)
}

// removeLocalPicture ignores remote pictures, such as Google avatars.
func (s *userService) removeLocalPicture(publicPath string) {
	if !strings.HasPrefix(publicPath, upload.PublicPrefix) {
		return
	}
	if err := s.uploads.Remove(constant.AvatarDir, publicPath); err != nil {
		s.logger.Warn("UserService", "Failed to remove profile picture", map[string]interface{}{"path": publicPath, "error": err.Error()})
	}
}
