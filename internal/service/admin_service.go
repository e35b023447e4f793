package service

import (
	"context"
	"errors"
	"strings"

	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/pkg/upload"
	"airdrop-tracker-be/internal/repository/memory"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	defaultLogLimit      = 50
	defaultActivityLimit = 100
)

type IAdminService interface {
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRoleRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actor *entity.User, id uuid.UUID) error
	GetLogs(query dto.LogQuery) ([]logger.LogEntry, error)
	GetLogById(id string) (*logger.LogEntry, error)
	RecentActivity(ctx context.Context, limit int, eventType string) ([]*dto.ActivityLogResponse, error)
}

type adminService struct {
	uowFactory  unitofwork.RepositoryFactory
	principals  *memory.PrincipalCache
	uploads     *upload.LocalStore
	screenshots IScreenshotQueue
	publisher   events.Publisher
	logger      logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, principals *memory.PrincipalCache, uploads *upload.LocalStore, screenshots IScreenshotQueue, publisher events.Publisher, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory:  uowFactory,
		principals:  principals,
		uploads:     uploads,
		screenshots: screenshots,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specification.NewestCreatedFirst{})
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *entity.User, _ int) *dto.UserResponse {
		return toUserResponse(u)
	}), nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("user not found")
	}

	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
		if user.EmailVerified {
			user.VerificationToken = nil
		}
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	s.principals.Invalidate(user.Id)

	s.logger.Info("AdminService", "User role updated", map[string]interface{}{"user_id": user.Id, "is_admin": user.IsAdmin, "email_verified": user.EmailVerified})
	return toUserResponse(user), nil
}

// DeleteUser removes the user and every airdrop they own in one
// transaction. Files are cleaned up after commit.
func (s *adminService) DeleteUser(ctx context.Context, actor *entity.User, id uuid.UUID) error {
	if actor.Id == id {
		return serverutils.BadRequest("you cannot delete your own account")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if user == nil {
		return serverutils.NotFound("user not found")
	}

	airdrops, err := uow.AirdropRepository().FindAll(ctx, specification.UserOwnedBy{UserID: id})
	if err != nil {
		return err
	}
	if err := uow.AirdropRepository().DeleteByUserId(ctx, id); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.principals.Invalidate(id)

	for _, a := range airdrops {
		if a.Screenshot != nil {
			s.screenshots.Enqueue(a.Id, *a.Screenshot)
		}
	}
	if user.ProfilePicture != nil && strings.HasPrefix(*user.ProfilePicture, upload.PublicPrefix) {
		if err := s.uploads.Remove(constant.AvatarDir, *user.ProfilePicture); err != nil {
			s.logger.Warn("AdminService", "Failed to remove profile picture", map[string]interface{}{"user_id": id, "error": err.Error()})
		}
	}

	publishEvent(ctx, s.publisher, s.logger, "AdminService", events.UserDeleted, map[string]interface{}{
		"user_id":    id.String(),
		"deleted_by": actor.Id.String(),
		"airdrops":   len(airdrops),
	})
	return nil
}

func (s *adminService) GetLogs(query dto.LogQuery) ([]logger.LogEntry, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	return s.logger.GetLogs(strings.ToUpper(query.Level), limit, query.Offset)
}

func (s *adminService) GetLogById(id string) (*logger.LogEntry, error) {
	entry, err := s.logger.GetLogById(id)
	if errors.Is(err, logger.ErrLogNotFound) {
		return nil, serverutils.NotFound("log not found")
	}
	return entry, err
}

// RecentActivity optionally filters by event type, e.g. "USER_LOGIN".
func (s *adminService) RecentActivity(ctx context.Context, limit int, eventType string) ([]*dto.ActivityLogResponse, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	specs := []specification.Specification{
		specification.NewestOccurredFirst{},
		specification.Pagination{Limit: limit},
	}
	if eventType = strings.ToUpper(strings.TrimSpace(eventType)); eventType != "" {
		specs = append(specs, specification.ByEventType{EventType: eventType})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.ActivityLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return lo.Map(logs, func(l *entity.ActivityLog, _ int) *dto.ActivityLogResponse {
		return &dto.ActivityLogResponse{
			Id:         l.Id,
			EventType:  l.EventType,
			UserId:     l.UserId,
			Details:    l.Details,
			OccurredAt: l.OccurredAt,
		}
	}), nil
}
