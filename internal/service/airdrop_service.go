package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/pkg/upload"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IAirdropService interface {
	List(ctx context.Context, user *entity.User) ([]*dto.AirdropResponse, error)
	Summary(ctx context.Context, user *entity.User) (*dto.AirdropSummaryResponse, error)
	Get(ctx context.Context, user *entity.User, id uuid.UUID) (*dto.AirdropResponse, error)
	Create(ctx context.Context, user *entity.User, req *dto.AirdropRequest, screenshot *multipart.FileHeader) (*dto.AirdropResponse, error)
	Update(ctx context.Context, user *entity.User, id uuid.UUID, req *dto.AirdropRequest, screenshot *multipart.FileHeader) (*dto.AirdropResponse, error)
	Delete(ctx context.Context, user *entity.User, id uuid.UUID) error
}

type airdropService struct {
	uowFactory  unitofwork.RepositoryFactory
	uploads     *upload.LocalStore
	screenshots IScreenshotQueue
	publisher   events.Publisher
	logger      logger.ILogger
}

func NewAirdropService(uowFactory unitofwork.RepositoryFactory, uploads *upload.LocalStore, screenshots IScreenshotQueue, publisher events.Publisher, log logger.ILogger) IAirdropService {
	return &airdropService{
		uowFactory:  uowFactory,
		uploads:     uploads,
		screenshots: screenshots,
		publisher:   publisher,
		logger:      log,
	}
}

// scope limits non-admins to their own airdrops.
func scope(user *entity.User) []specification.Specification {
	if user.IsAdmin {
		return nil
	}
	return []specification.Specification{specification.UserOwnedBy{UserID: user.Id}}
}

func (s *airdropService) List(ctx context.Context, user *entity.User) ([]*dto.AirdropResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := scope(user)
	if user.IsAdmin {
		specs = append(specs, specification.WithOwner{})
	}
	specs = append(specs, specification.NewestCreatedFirst{})

	airdrops, err := uow.AirdropRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return lo.Map(airdrops, func(a *entity.Airdrop, _ int) *dto.AirdropResponse {
		return toAirdropResponse(a)
	}), nil
}

func (s *airdropService) Summary(ctx context.Context, user *entity.User) (*dto.AirdropSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	counts, err := uow.AirdropRepository().CountByStatus(ctx, scope(user)...)
	if err != nil {
		return nil, err
	}

	summary := &dto.AirdropSummaryResponse{Counts: make(map[string]int64, len(entity.AirdropStatuses))}
	for _, status := range entity.AirdropStatuses {
		summary.Counts[string(status)] = 0
	}
	for _, c := range counts {
		summary.Counts[string(c.Status)] = c.Count
		summary.Total += c.Count
	}
	return summary, nil
}

func (s *airdropService) Get(ctx context.Context, user *entity.User, id uuid.UUID) (*dto.AirdropResponse, error) {
	airdrop, err := s.findAccessible(ctx, s.uowFactory.NewUnitOfWork(ctx), user, id)
	if err != nil {
		return nil, err
	}
	return toAirdropResponse(airdrop), nil
}

func (s *airdropService) Create(ctx context.Context, user *entity.User, req *dto.AirdropRequest, screenshot *multipart.FileHeader) (*dto.AirdropResponse, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, serverutils.BadRequest("name is required")
	}

	airdrop := &entity.Airdrop{
		Id:     uuid.New(),
		UserId: user.Id,
		Status: entity.AirdropStatusTodo,
	}
	if err := applyAirdropRequest(airdrop, req); err != nil {
		return nil, err
	}

	if screenshot != nil {
		path, err := s.uploads.Save(constant.ScreenshotDir, screenshot)
		if err != nil {
			return nil, uploadError(err)
		}
		airdrop.Screenshot = &path
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AirdropRepository().Create(ctx, airdrop); err != nil {
		if airdrop.Screenshot != nil {
			s.screenshots.Enqueue(airdrop.Id, *airdrop.Screenshot)
		}
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, "AirdropService", events.AirdropCreated, map[string]interface{}{
		"user_id":    user.Id.String(),
		"airdrop_id": airdrop.Id.String(),
		"name":       airdrop.Name,
	})
	return toAirdropResponse(airdrop), nil
}

func (s *airdropService) Update(ctx context.Context, user *entity.User, id uuid.UUID, req *dto.AirdropRequest, screenshot *multipart.FileHeader) (*dto.AirdropResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	airdrop, err := s.findAccessible(ctx, uow, user, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, serverutils.BadRequest("name cannot be empty")
	}
	previousStatus := airdrop.Status
	if err := applyAirdropRequest(airdrop, req); err != nil {
		return nil, err
	}

	// Screenshot: a new upload wins over clearScreenshot.
	oldScreenshot := airdrop.Screenshot
	switch {
	case screenshot != nil:
		path, err := s.uploads.Save(constant.ScreenshotDir, screenshot)
		if err != nil {
			return nil, uploadError(err)
		}
		airdrop.Screenshot = &path
	case req.ClearScreenshot:
		airdrop.Screenshot = nil
	default:
		oldScreenshot = nil
	}

	if err := uow.AirdropRepository().Update(ctx, airdrop); err != nil {
		if screenshot != nil {
			s.screenshots.Enqueue(airdrop.Id, *airdrop.Screenshot)
		}
		return nil, err
	}
	if oldScreenshot != nil {
		s.screenshots.Enqueue(airdrop.Id, *oldScreenshot)
	}

	if airdrop.Status != previousStatus {
		publishEvent(ctx, s.publisher, s.logger, "AirdropService", events.AirdropStatusChanged, map[string]interface{}{
			"user_id":    user.Id.String(),
			"airdrop_id": airdrop.Id.String(),
			"from":       string(previousStatus),
			"to":         string(airdrop.Status),
		})
	}
	return toAirdropResponse(airdrop), nil
}

func (s *airdropService) Delete(ctx context.Context, user *entity.User, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	airdrop, err := s.findAccessible(ctx, uow, user, id)
	if err != nil {
		return err
	}

	if err := uow.AirdropRepository().Delete(ctx, airdrop.Id); err != nil {
		return err
	}
	if airdrop.Screenshot != nil {
		s.screenshots.Enqueue(airdrop.Id, *airdrop.Screenshot)
	}

	publishEvent(ctx, s.publisher, s.logger, "AirdropService", events.AirdropDeleted, map[string]interface{}{
		"user_id":    user.Id.String(),
		"airdrop_id": airdrop.Id.String(),
	})
	return nil
}

func (s *airdropService) findAccessible(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, id uuid.UUID) (*entity.Airdrop, error) {
	airdrop, err := uow.AirdropRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if airdrop == nil {
		return nil, serverutils.NotFound("airdrop not found")
	}
	if !user.CanAccess(airdrop.UserId) {
		return nil, serverutils.Unauthorized("not authorized to access this airdrop")
	}
	return airdrop, nil
}

// applyAirdropRequest copies every non-nil field of req onto a.
func applyAirdropRequest(a *entity.Airdrop, req *dto.AirdropRequest) error {
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Link != nil {
		a.Link = strings.TrimSpace(*req.Link)
	}
	if req.Blockchain != nil {
		a.Blockchain = strings.TrimSpace(*req.Blockchain)
	}
	if req.ExpectedValue != nil {
		a.ExpectedValue = req.ExpectedValue
	}
	if req.Status != nil && *req.Status != "" {
		status := entity.AirdropStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !status.IsValid() {
			return serverutils.BadRequest("invalid status: " + *req.Status)
		}
		a.Status = status
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	if req.TokenSymbol != nil {
		a.TokenSymbol = strings.TrimSpace(*req.TokenSymbol)
	}
	if req.ContractAddress != nil {
		a.ContractAddress = strings.TrimSpace(*req.ContractAddress)
	}
	if req.ClaimedAmount != nil {
		a.ClaimedAmount = req.ClaimedAmount
	}

	dates := []struct {
		name   string
		in     *string
		target **time.Time
	}{
		{"startDate", req.StartDate, &a.StartDate},
		{"endDate", req.EndDate, &a.EndDate},
		{"claimDate", req.ClaimDate, &a.ClaimDate},
	}
	for _, d := range dates {
		if d.in == nil {
			continue
		}
		parsed, err := parseDate(*d.in)
		if err != nil {
			return serverutils.BadRequest(d.name + " must be YYYY-MM-DD or RFC 3339")
		}
		*d.target = parsed
	}
	return nil
}

// parseDate returns nil for an empty string.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &time.ParseError{Layout: "2006-01-02", Value: raw}
}

func toAirdropResponse(a *entity.Airdrop) *dto.AirdropResponse {
	resp := &dto.AirdropResponse{
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
	if a.Owner != nil {
		resp.User = &dto.AirdropOwnerResponse{Id: a.Owner.Id, Username: a.Owner.Username, Email: a.Owner.Email}
	}
	return resp
}
