package serverutils

import (
	"errors"
	"time"

	"airdrop-tracker-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type TokenClaims struct {
	UserId uuid.UUID
	Role   string
}

// TokenManager issues and verifies HS256 access tokens carrying
// user_id, role and exp.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if secret == "" {
		secret = "default_secret"
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(user *entity.User) (string, error) {
	role := RoleUser
	if user.IsAdmin {
		role = RoleAdmin
	}
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    role,
		"exp":     time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	rawId, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	role, _ := claims["role"].(string)

	return &TokenClaims{UserId: userId, Role: role}, nil
}
