package memory

import (
	"time"

	"erp-featurestore-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// DefinitionCache memoizes name -> definition lookups for snapshot readers and writers,
// which only depend on the id. A name never changes its id; the rest of a cached entry may
// lag registrations made by another instance until the ttl expires.
type DefinitionCache struct {
	cache *cache.Cache
}

// NewDefinitionCache returns nil when ttl is not positive, which disables caching.
func NewDefinitionCache(ttl time.Duration) *DefinitionCache {
	if ttl <= 0 {
		return nil
	}
	// purge expired items at twice the ttl
	c := cache.New(ttl, 2*ttl)
	return &DefinitionCache{
		cache: c,
	}
}

func (r *DefinitionCache) Save(def *entity.FeatureDefinition) {
	if r == nil || def == nil {
		return
	}
	copied := *def
	r.cache.Set(def.Name, &copied, cache.DefaultExpiration)
}

func (r *DefinitionCache) Get(name string) (*entity.FeatureDefinition, bool) {
	if r == nil {
		return nil, false
	}
	if x, found := r.cache.Get(name); found {
		copied := *x.(*entity.FeatureDefinition)
		return &copied, true
	}
	return nil, false
}
