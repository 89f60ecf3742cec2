package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/cache"
)

const (
	CacheKeyTenantsTotal = "statistics:tenants:total"
	CacheKeyMirrorsTotal = "statistics:mirrors:total"
	CacheKeyTokensToday  = "statistics:tokens:today"
	CacheExpiration      = 30 * time.Minute
)

// Data holds the admin dashboard rollups
type Data struct {
	TotalTenants  int64 `json:"total_tenants"`
	MirroredPosts int64 `json:"mirrored_posts"`
	AITokensToday int64 `json:"ai_tokens_today"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the rollups are stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached rollups when stale
func UpdateCacheIfNeeded() {
	if !ShouldUpdateCache() {
		return
	}
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	data, err := computeFromDatabase()
	if err != nil {
		log.Printf("statistics: failed to compute rollups: %v", err)
		return
	}

	_ = cache.Set(CacheKeyTenantsTotal, data.TotalTenants, CacheExpiration)
	_ = cache.Set(CacheKeyMirrorsTotal, data.MirroredPosts, CacheExpiration)
	_ = cache.Set(CacheKeyTokensToday, data.AITokensToday, CacheExpiration)

	lastCacheUpdate = time.Now()
}

// GetStatistics returns the rollups, preferring the cache and falling
// back to fresh queries when the cache is cold or unavailable.
func GetStatistics() Data {
	UpdateCacheIfNeeded()

	data := Data{}
	misses := 0

	if v, err := cache.Get(CacheKeyTenantsTotal); err == nil {
		data.TotalTenants, _ = strconv.ParseInt(v, 10, 64)
	} else {
		misses++
	}
	if v, err := cache.Get(CacheKeyMirrorsTotal); err == nil {
		data.MirroredPosts, _ = strconv.ParseInt(v, 10, 64)
	} else {
		misses++
	}
	if v, err := cache.Get(CacheKeyTokensToday); err == nil {
		data.AITokensToday, _ = strconv.ParseInt(v, 10, 64)
	} else {
		misses++
	}

	if misses > 0 {
		if fresh, err := computeFromDatabase(); err == nil {
			data = fresh
		}
	}

	return data
}

func computeFromDatabase() (Data, error) {
	repos := repository.GetGlobalRepositories()

	tenants, err := repos.Tenant.Count()
	if err != nil {
		return Data{}, err
	}
	mirrors, err := repos.ContentRecord.Count()
	if err != nil {
		return Data{}, err
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tokens, err := repos.AIToken.SumAllSince(midnight)
	if err != nil {
		return Data{}, err
	}

	return Data{
		TotalTenants:  tenants,
		MirroredPosts: mirrors,
		AITokensToday: tokens,
	}, nil
}
