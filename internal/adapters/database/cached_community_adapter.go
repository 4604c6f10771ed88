package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/providers"
	"github.com/guideforseniors/backend/internal/domain/repositories"
)

// CachedCommunityAdapter wraps CommunityAdapter with read-through
// caching. Cache writes happen asynchronously so a slow cache never
// blocks a response; the community table only changes via import jobs,
// so short TTLs are enough and no invalidation hooks exist.
type CachedCommunityAdapter struct {
	adapter repositories.CommunityRepository
	cache   providers.CacheProvider
}

// NewCachedCommunityAdapter creates a new cached community adapter.
func NewCachedCommunityAdapter(adapter repositories.CommunityRepository, cache providers.CacheProvider) repositories.CommunityRepository {
	return &CachedCommunityAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	communityByIDTTL  = 300 // 5 minutes for a single community
	communityListTTL  = 180 // 3 minutes for lists
	communityCountTTL = 600 // 10 minutes for city counts
)

func communityCacheKey(id string) string {
	return fmt.Sprintf("community:%s", id)
}

func communityListCacheKey(filter repositories.CommunityFilter) string {
	return fmt.Sprintf("communities:list:%s:%s:%d:%d",
		strings.ToLower(filter.City), strings.ToLower(filter.State), filter.Limit, filter.Offset)
}

func communityCityCacheKey(city string) string {
	return fmt.Sprintf("communities:city:%s", strings.ToLower(city))
}

func communityCountCacheKey(city string) string {
	return fmt.Sprintf("communities:count:%s", strings.ToLower(city))
}

// GetByID retrieves a community by ID with caching.
func (a *CachedCommunityAdapter) GetByID(ctx context.Context, id string) (*entities.Community, error) {
	cacheKey := communityCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var community entities.Community
		if err := json.Unmarshal(cached, &community); err == nil {
			return &community, nil
		}
		log.Debug().Str("key", cacheKey).Err(err).Msg("failed to unmarshal cached community")
	}

	community, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(community); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, communityByIDTTL); err != nil {
				log.Debug().Str("key", cacheKey).Err(err).Msg("failed to cache community")
			}
		}
	}()

	return community, nil
}

// List retrieves communities with caching.
func (a *CachedCommunityAdapter) List(ctx context.Context, filter repositories.CommunityFilter) ([]*entities.Community, error) {
	cacheKey := communityListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var communities []*entities.Community
		if err := json.Unmarshal(cached, &communities); err == nil {
			return communities, nil
		}
		log.Debug().Str("key", cacheKey).Err(err).Msg("failed to unmarshal cached community list")
	}

	communities, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.cacheAsync(cacheKey, communities, communityListTTL)
	return communities, nil
}

// ListByCity retrieves a city's communities with caching.
func (a *CachedCommunityAdapter) ListByCity(ctx context.Context, city string) ([]*entities.Community, error) {
	cacheKey := communityCityCacheKey(city)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var communities []*entities.Community
		if err := json.Unmarshal(cached, &communities); err == nil {
			return communities, nil
		}
		log.Debug().Str("key", cacheKey).Err(err).Msg("failed to unmarshal cached city list")
	}

	communities, err := a.adapter.ListByCity(ctx, city)
	if err != nil {
		return nil, err
	}

	a.cacheAsync(cacheKey, communities, communityListTTL)
	return communities, nil
}

// CountByCity retrieves a city's community count with caching.
func (a *CachedCommunityAdapter) CountByCity(ctx context.Context, city string) (int, error) {
	cacheKey := communityCountCacheKey(city)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var count int
		if err := json.Unmarshal(cached, &count); err == nil {
			return count, nil
		}
	}

	count, err := a.adapter.CountByCity(ctx, city)
	if err != nil {
		return 0, err
	}

	a.cacheAsync(cacheKey, count, communityCountTTL)
	return count, nil
}

func (a *CachedCommunityAdapter) cacheAsync(key string, value interface{}, ttl int) {
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(value); err == nil {
			if err := a.cache.Set(bgCtx, key, data, ttl); err != nil {
				log.Debug().Str("key", key).Err(err).Msg("failed to cache value")
			}
		}
	}()
}
