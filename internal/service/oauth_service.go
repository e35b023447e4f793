package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleProfile struct {
	Id            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProfileFetcher turns an authorization code into the Google profile
// behind it.
type GoogleProfileFetcher interface {
	FetchProfile(ctx context.Context, code string) (*GoogleProfile, error)
}

type googleClient struct {
	conf *oauth2.Config
}

// NewGoogleClient uses the "postmessage" redirect expected by popup-mode
// web clients.
func NewGoogleClient(cfg config.OAuthConfig) GoogleProfileFetcher {
	return &googleClient{conf: &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  "postmessage",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}}
}

func (g *googleClient) FetchProfile(ctx context.Context, code string) (*GoogleProfile, error) {
	if g.conf.ClientID == "" || g.conf.ClientSecret == "" {
		return nil, fmt.Errorf("google oauth is not configured")
	}

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	resp, err := g.conf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned %s", resp.Status)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type IOAuthService interface {
	GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	google     GoogleProfileFetcher
	tokens     *serverutils.TokenManager
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, fetcher GoogleProfileFetcher, tokens *serverutils.TokenManager, publisher events.Publisher, log logger.ILogger) IOAuthService {
	return &oauthService{
		uowFactory: uowFactory,
		google:     fetcher,
		tokens:     tokens,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *oauthService) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	profile, err := s.google.FetchProfile(ctx, req.Code)
	if err != nil {
		return nil, serverutils.Internal("google login failed", err)
	}
	if profile.Email == "" {
		return nil, serverutils.BadRequest("google account has no email")
	}

	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: profile.Email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		user, err = s.createGoogleUser(ctx, uow, profile)
		if err != nil {
			return nil, err
		}
		s.logger.Info("OAuthService", "Created user from Google profile", map[string]interface{}{"user_id": user.Id})
	} else if linkGoogleProfile(user, profile) {
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, "OAuthService", events.UserLogin, map[string]interface{}{"user_id": user.Id.String(), "method": "google"})
	return &dto.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

// linkGoogleProfile fills in what an existing account is missing and
// reports whether anything changed.
func linkGoogleProfile(user *entity.User, profile *GoogleProfile) bool {
	changed := false
	if user.GoogleId == nil && profile.Id != "" {
		id := profile.Id
		user.GoogleId = &id
		changed = true
	}
	if user.ProfilePicture == nil && profile.Picture != "" {
		pic := profile.Picture
		user.ProfilePicture = &pic
		changed = true
	}
	if !user.EmailVerified {
		user.EmailVerified = true
		user.VerificationToken = nil
		changed = true
	}
	return changed
}

func (s *oauthService) createGoogleUser(ctx context.Context, uow unitofwork.UnitOfWork, profile *GoogleProfile) (*entity.User, error) {
	username, err := s.availableUsername(ctx, uow, profile)
	if err != nil {
		return nil, err
	}

	// Nobody knows this password; it only satisfies the column.
	randomPassword := make([]byte, 16)
	if _, err := rand.Read(randomPassword); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(randomPassword)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:            uuid.New(),
		Username:      username,
		Email:         profile.Email,
		PasswordHash:  string(hash),
		EmailVerified: true,
		Level:         1,
	}
	if profile.Id != "" {
		id := profile.Id
		user.GoogleId = &id
	}
	if profile.Picture != "" {
		pic := profile.Picture
		user.ProfilePicture = &pic
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, s.logger, "OAuthService", events.UserRegistered, map[string]interface{}{"user_id": user.Id.String(), "email": user.Email, "method": "google"})
	return user, nil
}

// availableUsername prefers the Google display name, then the email local
// part, adding a short suffix on collision.
func (s *oauthService) availableUsername(ctx context.Context, uow unitofwork.UnitOfWork, profile *GoogleProfile) (string, error) {
	base := strings.TrimSpace(profile.Name)
	if base == "" {
		base = strings.SplitN(profile.Email, "@", 2)[0]
	}
	// Room for the suffix within the 30 character limit.
	if r := []rune(base); len(r) > 23 {
		base = string(r[:23])
	}

	candidate := base
	for i := 0; i < 5; i++ {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: candidate})
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString()[:6])
	}
	return "", serverutils.Internal("could not pick a username", nil)
}
