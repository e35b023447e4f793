package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	links    []string
	failWith error
}

func (m *fakeMailer) SendVerificationEmail(_, _ string, link string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.links = append(m.links, link)
	return nil
}

type fakeScreenshotQueue struct {
	mu    sync.Mutex
	paths []string
}

func (q *fakeScreenshotQueue) Enqueue(_ uuid.UUID, path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paths = append(q.paths, path)
}

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	return unitofwork.NewRepositoryFactory(testutil.NewTestDB(t))
}

type userSeed struct {
	username string
	password string
	admin    bool
	verified bool
}

func seedUser(t *testing.T, factory unitofwork.RepositoryFactory, seed userSeed) *entity.User {
	t.Helper()
	password := seed.password
	if password == "" {
		password = "secret123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &entity.User{
		Id:            uuid.New(),
		Username:      seed.username,
		Email:         seed.username + "@example.com",
		PasswordHash:  string(hash),
		EmailVerified: seed.verified,
		IsAdmin:       seed.admin,
		Level:         1,
	}
	ctx := context.Background()
	require.NoError(t, factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, u))
	return u
}

func multipartFile(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func ptr[T any](v T) *T {
	return &v
}
