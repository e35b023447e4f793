package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"airdrop-tracker-be/internal/bootstrap"
	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/dto"
	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			ClientURL:          "http://localhost:5173",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			ChatLogFilePath:    filepath.Join(dir, "chat.log"),
			CorsAllowedOrigins: "*",
			UploadDir:          filepath.Join(dir, "uploads"),
		},
		Database: config.DatabaseConfig{Driver: "sqlite"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Chat: config.ChatConfig{
			Store:            "postgres",
			HistoryLimit:     50,
			MaxContentLength: 1000,
			SendBufferSize:   16,
			RedisChannel:     "chat_events",
		},
	}
}

func seed(t *testing.T, db *gorm.DB, username string, admin bool) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &model.User{
		Id:            uuid.New(),
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  string(hash),
		EmailVerified: true,
		IsAdmin:       admin,
		Level:         1,
	}
	require.NoError(t, db.Create(u).Error)
	return u.Id
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, out := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	data := out["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestServerRoutes(t *testing.T) {
	cfg := testConfig(t)
	db := testutil.NewTestDB(t)
	container := bootstrap.NewContainer(db, cfg)
	t.Cleanup(container.Close)
	app := New(cfg, container).GetApp()

	adminId := seed(t, db, "root", true)
	userId := seed(t, db, "alice", false)
	adminToken := login(t, app, "root@example.com")
	userToken := login(t, app, "alice@example.com")

	t.Run("Login with wrong password", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "nope"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "invalid credentials", out["message"])
	})

	t.Run("Register validates input", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "ab", Email: "bad", Password: "1"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Protected route without token", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodGet, "/api/airdrops", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "not authorized, no token", out["message"])
	})

	t.Run("Profile", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodGet, "/api/auth/profile", userToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := out["data"].(map[string]interface{})
		assert.Equal(t, "alice", data["username"])
		assert.NotContains(t, data, "passwordHash")
	})

	var airdropId string
	t.Run("Create airdrop from JSON", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodPost, "/api/airdrops", userToken, map[string]interface{}{
			"name":          "zkSync",
			"status":        "claimed",
			"expectedValue": 250,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, out)
		data := out["data"].(map[string]interface{})
		assert.Equal(t, "CLAIMED", data["status"])
		assert.Equal(t, userId.String(), data["userId"])
		airdropId = data["id"].(string)
	})

	t.Run("Summary is zero filled", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodGet, "/api/airdrops/summary", userToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := out["data"].(map[string]interface{})
		counts := data["counts"].(map[string]interface{})
		assert.Len(t, counts, 6)
		assert.Equal(t, float64(1), counts["CLAIMED"])
		assert.Equal(t, float64(0), counts["TODO"])
		assert.Equal(t, float64(1), data["total"])
	})

	t.Run("Invalid airdrop id", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/airdrops/not-a-uuid", userToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Admin sees owner", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodGet, "/api/airdrops", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := out["data"].([]interface{})
		require.Len(t, list, 1)
		owner := list[0].(map[string]interface{})["user"].(map[string]interface{})
		assert.Equal(t, "alice", owner["username"])
	})

	t.Run("Non admin is refused", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodGet, "/api/admin/users", userToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "access denied: admins only", out["message"])
	})

	t.Run("Admin cannot delete themselves", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, "/api/admin/users/"+adminId.String(), adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Chat history", func(t *testing.T) {
		resp, out := doJSON(t, app, http.MethodGet, "/api/chat/history", userToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, out["data"])
	})

	t.Run("Admin deletes user", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, "/api/admin/users/"+userId.String(), adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodGet, "/api/airdrops/"+airdropId, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		// The deleted user's token no longer resolves.
		resp, out := doJSON(t, app, http.MethodGet, "/api/airdrops", userToken, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "not authorized, user not found", out["message"])
	})

}
