package memory

import (
	"testing"
	"time"

	"airdrop-tracker-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalCache(t *testing.T) {
	c := NewPrincipalCache(time.Minute)
	user := &entity.User{Id: uuid.New(), Username: "alice"}

	_, found := c.Get(user.Id)
	assert.False(t, found)

	c.Save(user)
	got, found := c.Get(user.Id)
	require.True(t, found)
	assert.Equal(t, "alice", got.Username)

	// Returned value is a copy.
	got.Username = "mallory"
	again, _ := c.Get(user.Id)
	assert.Equal(t, "alice", again.Username)

	c.Invalidate(user.Id)
	_, found = c.Get(user.Id)
	assert.False(t, found)
}

func TestPrincipalCacheExpires(t *testing.T) {
	c := NewPrincipalCache(10 * time.Millisecond)
	user := &entity.User{Id: uuid.New()}
	c.Save(user)

	time.Sleep(30 * time.Millisecond)
	_, found := c.Get(user.Id)
	assert.False(t, found)
}
