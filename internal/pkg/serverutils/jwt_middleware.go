package serverutils

import (
	"context"
	"errors"
	"strings"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PrincipalLoader fetches the user behind a token. It returns nil, nil
// when the user no longer exists.
type PrincipalLoader func(ctx context.Context, id uuid.UUID) (*entity.User, error)

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// Protect requires a valid bearer token for an existing, verified user.
// Sets the "user_id" and "user" locals.
func Protect(tokens *TokenManager, load PrincipalLoader, cache *memory.PrincipalCache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return Unauthorized("not authorized, no token")
		}

		claims, err := tokens.Parse(tokenStr)
		if errors.Is(err, ErrTokenExpired) {
			return Unauthorized("session expired")
		}
		if err != nil {
			return Unauthorized("not authorized, token failed")
		}

		user, ok := cache.Get(claims.UserId)
		if !ok {
			user, err = load(ctx.UserContext(), claims.UserId)
			if err != nil {
				return Internal("failed to load user", err)
			}
			if user == nil {
				return Unauthorized("not authorized, user not found")
			}
			if !user.EmailVerified {
				return Forbidden("email not verified")
			}
			// Only verified users are cached.
			cache.Save(user)
		}

		ctx.Locals("user_id", user.Id.String())
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// AdminOnly must run after Protect.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if user == nil || !user.IsAdmin {
			return Forbidden("access denied: admins only")
		}
		return ctx.Next()
	}
}

func CurrentUser(ctx *fiber.Ctx) *entity.User {
	user, _ := ctx.Locals("user").(*entity.User)
	return user
}
