package implementation_test

import (
	"context"
	"testing"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/implementation"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  "hash",
		EmailVerified: true,
		Level:         1,
	}
	require.NoError(t, implementation.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestAirdropRepository_CRUDAndSummary(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewAirdropRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	value := 12.5
	first := &entity.Airdrop{UserId: alice.Id, Name: "LayerZero", Status: entity.AirdropStatusTodo, ExpectedValue: &value}
	second := &entity.Airdrop{UserId: alice.Id, Name: "zkSync", Status: entity.AirdropStatusClaimed}
	third := &entity.Airdrop{UserId: bob.Id, Name: "Starknet", Status: entity.AirdropStatusTodo}
	for _, a := range []*entity.Airdrop{first, second, third} {
		require.NoError(t, repo.Create(ctx, a))
		assert.NotEqual(t, uuid.Nil, a.Id)
	}

	t.Run("find one with owner", func(t *testing.T) {
		got, err := repo.FindOne(ctx, specification.ByID{ID: first.Id}, specification.WithOwner{})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "LayerZero", got.Name)
		require.NotNil(t, got.ExpectedValue)
		assert.Equal(t, 12.5, *got.ExpectedValue)
		require.NotNil(t, got.Owner)
		assert.Equal(t, "alice", got.Owner.Username)
	})

	t.Run("missing returns nil", func(t *testing.T) {
		got, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("owner scoped listing", func(t *testing.T) {
		got, err := repo.FindAll(ctx, specification.UserOwnedBy{UserID: alice.Id})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("count by status", func(t *testing.T) {
		all, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		counts := map[entity.AirdropStatus]int64{}
		for _, c := range all {
			counts[c.Status] = c.Count
		}
		assert.Equal(t, int64(2), counts[entity.AirdropStatusTodo])
		assert.Equal(t, int64(1), counts[entity.AirdropStatusClaimed])

		own, err := repo.CountByStatus(ctx, specification.UserOwnedBy{UserID: bob.Id})
		require.NoError(t, err)
		require.Len(t, own, 1)
		assert.Equal(t, entity.AirdropStatusTodo, own[0].Status)
	})

	t.Run("update", func(t *testing.T) {
		first.Status = entity.AirdropStatusInProgress
		first.Notes = "bridged"
		require.NoError(t, repo.Update(ctx, first))

		got, err := repo.FindOne(ctx, specification.ByID{ID: first.Id})
		require.NoError(t, err)
		assert.Equal(t, entity.AirdropStatusInProgress, got.Status)
		assert.Equal(t, "bridged", got.Notes)
	})

	t.Run("delete by user", func(t *testing.T) {
		require.NoError(t, repo.DeleteByUserId(ctx, alice.Id))
		left, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, "Starknet", left[0].Name)
	})
}
