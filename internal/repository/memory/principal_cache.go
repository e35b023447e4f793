package memory

import (
	"time"

	"airdrop-tracker-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PrincipalCache keeps recently authenticated users so the protect
// middleware does not hit the database on every request. Writers that
// change a user must call Invalidate.
type PrincipalCache struct {
	cache *cache.Cache
}

func NewPrincipalCache(ttl time.Duration) *PrincipalCache {
	return &PrincipalCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *PrincipalCache) Save(user *entity.User) {
	copied := *user
	r.cache.Set(user.Id.String(), &copied, cache.DefaultExpiration)
}

func (r *PrincipalCache) Get(id uuid.UUID) (*entity.User, bool) {
	if x, found := r.cache.Get(id.String()); found {
		copied := *x.(*entity.User)
		return &copied, true
	}
	return nil, false
}

func (r *PrincipalCache) Invalidate(id uuid.UUID) {
	r.cache.Delete(id.String())
}
