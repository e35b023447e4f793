package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (g *fakeGoogle) FetchProfile(context.Context, string) (*GoogleProfile, error) {
	return g.profile, g.err
}

func TestGoogleLoginCreatesUser(t *testing.T) {
	factory := newTestFactory(t)
	seedUser(t, factory, userSeed{username: "Carol"})
	google := &fakeGoogle{profile: &GoogleProfile{Id: "g-1", Email: "Carol@Gmail.com", Name: "Carol", Picture: "https://lh3.example/c.png"}}
	pub := &recordingPublisher{}
	svc := NewOAuthService(factory, google, serverutils.NewTokenManager("s", time.Hour), pub, logger.NewNopLogger())

	resp, err := svc.GoogleLogin(context.Background(), &dto.GoogleLoginRequest{Code: "code"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "carol@gmail.com", resp.User.Email)
	assert.True(t, resp.User.EmailVerified)
	assert.NotEqual(t, "Carol", resp.User.Username, "taken names get a suffix")
	assert.Contains(t, resp.User.Username, "Carol-")
	require.NotNil(t, resp.User.ProfilePicture)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.UserRegistered, pub.events[0].EventType())
	assert.Equal(t, events.UserLogin, pub.events[1].EventType())
}

func TestGoogleLoginLinksExistingAccount(t *testing.T) {
	factory := newTestFactory(t)
	existing := seedUser(t, factory, userSeed{username: "dave"})
	google := &fakeGoogle{profile: &GoogleProfile{Id: "g-2", Email: existing.Email, Name: "Dave G"}}
	svc := NewOAuthService(factory, google, serverutils.NewTokenManager("s", time.Hour), events.NopPublisher{}, logger.NewNopLogger())

	resp, err := svc.GoogleLogin(context.Background(), &dto.GoogleLoginRequest{Code: "code"})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, resp.User.Id)
	assert.Equal(t, "dave", resp.User.Username)
	assert.True(t, resp.User.EmailVerified, "google vouches for the address")
}

func TestGoogleLoginFailures(t *testing.T) {
	factory := newTestFactory(t)
	tokens := serverutils.NewTokenManager("s", time.Hour)

	svc := NewOAuthService(factory, &fakeGoogle{err: errors.New("bad code")}, tokens, events.NopPublisher{}, logger.NewNopLogger())
	_, err := svc.GoogleLogin(context.Background(), &dto.GoogleLoginRequest{Code: "x"})
	assert.Equal(t, http.StatusInternalServerError, serverutils.StatusOf(err))

	svc = NewOAuthService(factory, &fakeGoogle{profile: &GoogleProfile{Id: "g"}}, tokens, events.NopPublisher{}, logger.NewNopLogger())
	_, err = svc.GoogleLogin(context.Background(), &dto.GoogleLoginRequest{Code: "x"})
	assert.Equal(t, http.StatusBadRequest, serverutils.StatusOf(err))
}
