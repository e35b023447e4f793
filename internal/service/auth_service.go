package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/mailer"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// VerifyEmail reports alreadyVerified=true when there was nothing to do.
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (alreadyVerified bool, err error)
	LoadPrincipal(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	publisher    events.Publisher
	tokens       *serverutils.TokenManager
	clientURL    string
	logger       logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, publisher events.Publisher, tokens *serverutils.TokenManager, clientURL string, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		publisher:    publisher,
		tokens:       tokens,
		clientURL:    strings.TrimRight(clientURL, "/"),
		logger:       log,
	}
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 1. Uniqueness
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if existing != nil {
		return serverutils.BadRequest("email already registered")
	}
	existing, err = uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return err
	}
	if existing != nil {
		return serverutils.BadRequest("username already taken")
	}

	// 2. Hash password and mint the verification token
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	token, err := generateVerificationToken()
	if err != nil {
		return err
	}

	user := &entity.User{
		Id:                uuid.New(),
		Username:          username,
		Email:             email,
		PasswordHash:      string(hash),
		VerificationToken: &token,
		Level:             1,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return err
	}

	// 3. Send the link; an account nobody can verify is rolled back
	link := fmt.Sprintf("%s/verify-email?token=%s&email=%s", s.clientURL, token, url.QueryEscape(email))
	if err := s.emailService.SendVerificationEmail(email, username, link); err != nil {
		if delErr := uow.UserRepository().Delete(ctx, user.Id); delErr != nil {
			s.logger.Error("AuthService", "Failed to remove user after email failure", map[string]interface{}{"user_id": user.Id, "error": delErr})
		}
		return serverutils.Internal("registration failed: could not send the verification email", err)
	}

	s.publish(ctx, events.UserRegistered, map[string]interface{}{"user_id": user.Id.String(), "email": email})
	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.BadRequest("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.BadRequest("invalid credentials")
	}
	if !user.EmailVerified {
		return nil, serverutils.Forbidden("email not verified, please check your inbox")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserLogin, map[string]interface{}{"user_id": user.Id.String(), "method": "password"})
	return &dto.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (bool, error) {
	token := strings.TrimSpace(req.Token)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if token == "" || email == "" {
		return false, serverutils.BadRequest("token and email are required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, serverutils.BadRequest("email not registered or verification link invalid")
	}
	if user.EmailVerified {
		return true, nil
	}
	if user.VerificationToken == nil || subtle.ConstantTimeCompare([]byte(*user.VerificationToken), []byte(token)) != 1 {
		return false, serverutils.BadRequest("verification link is invalid or expired")
	}

	if err := uow.UserRepository().MarkEmailVerified(ctx, user.Id); err != nil {
		return false, err
	}

	s.publish(ctx, events.UserVerified, map[string]interface{}{"user_id": user.Id.String()})
	return false, nil
}

func (s *authService) LoadPrincipal(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
}

func (s *authService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	publishEvent(ctx, s.publisher, s.logger, "AuthService", eventType, data)
}

// publishEvent is best effort: the request already succeeded.
func publishEvent(ctx context.Context, publisher events.Publisher, log logger.ILogger, module, eventType string, data map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		log.Warn(module, "Failed to publish event", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:             u.Id,
		Username:       u.Username,
		Email:          u.Email,
		EmailVerified:  u.EmailVerified,
		IsAdmin:        u.IsAdmin,
		ProfilePicture: u.ProfilePicture,
		Level:          u.Level,
		CreatedAt:      u.CreatedAt,
	}
}
