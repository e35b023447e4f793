package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verificationParams(t *testing.T, link string) (token, email string) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/verify-email", u.Path)
	return u.Query().Get("token"), u.Query().Get("email")
}

func TestAuthRegisterVerifyLogin(t *testing.T) {
	factory := newTestFactory(t)
	mail := &fakeMailer{}
	pub := &recordingPublisher{}
	tokens := serverutils.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(factory, mail, pub, tokens, "http://app.local/", logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &dto.RegisterRequest{Username: " alice ", Email: "Alice@Example.com", Password: "secret123"}))
	require.Len(t, mail.links, 1)
	token, email := verificationParams(t, mail.links[0])
	assert.Len(t, token, 64)
	assert.Equal(t, "alice@example.com", email)

	// Unverified accounts cannot log in.
	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusForbidden, serverutils.StatusOf(err))

	_, err = svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Token: "wrong", Email: email})
	assert.Equal(t, http.StatusBadRequest, serverutils.StatusOf(err))

	already, err := svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Token: token, Email: email})
	require.NoError(t, err)
	assert.False(t, already)

	already, err = svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Token: token, Email: email})
	require.NoError(t, err)
	assert.True(t, already)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "nope"})
	assert.Equal(t, http.StatusBadRequest, serverutils.StatusOf(err))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.EmailVerified)

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.Id, claims.UserId)
	assert.Equal(t, serverutils.RoleUser, claims.Role)

	types := make([]string, 0, len(pub.events))
	for _, e := range pub.events {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{events.UserRegistered, events.UserVerified, events.UserLogin}, types)
}

func TestAuthRegisterRejectsDuplicates(t *testing.T) {
	factory := newTestFactory(t)
	seedUser(t, factory, userSeed{username: "taken"})
	svc := NewAuthService(factory, &fakeMailer{}, events.NopPublisher{}, serverutils.NewTokenManager("s", time.Hour), "http://app.local", logger.NewNopLogger())
	ctx := context.Background()

	err := svc.Register(ctx, &dto.RegisterRequest{Username: "other", Email: "taken@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusBadRequest, serverutils.StatusOf(err))

	err = svc.Register(ctx, &dto.RegisterRequest{Username: "taken", Email: "new@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusBadRequest, serverutils.StatusOf(err))
}

func TestAuthRegisterEmailFailureRemovesUser(t *testing.T) {
	factory := newTestFactory(t)
	mail := &fakeMailer{failWith: errors.New("smtp down")}
	svc := NewAuthService(factory, mail, events.NopPublisher{}, serverutils.NewTokenManager("s", time.Hour), "http://app.local", logger.NewNopLogger())
	ctx := context.Background()

	err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusInternalServerError, serverutils.StatusOf(err))

	user, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByEmail{Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Nil(t, user)
}
