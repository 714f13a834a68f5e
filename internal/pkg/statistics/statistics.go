// Package statistics keeps a handful of cache-backed platform counters
// for the admin overview. Counts are refreshed from the database at most
// every few minutes; stale values are acceptable here.
package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/internal/pkg/cache"
	"github.com/ryvynn-app/ryvynn/internal/pkg/database"
)

const (
	CacheKeyUsersTotal  = "statistics:users:total"
	CacheKeyTruthsTotal = "statistics:truths:total"
	CacheKeyTruthsDaily = "statistics:truths:daily:%s" // date YYYY-MM-DD
	CacheExpiration     = 30 * time.Minute
)

// StatisticsData holds the counters for the admin overview
type StatisticsData struct {
	TotalUsers  int
	TotalTruths int
	TodayTruths int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the refresh interval has elapsed
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when they are stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Failed to update statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next read to refresh
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts everything and writes the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		return err
	}

	var totalTruths int64
	if err := db.Model(&models.TruthPost{}).Count(&totalTruths).Error; err != nil {
		log.Printf("Error counting truth posts: %v", err)
		return err
	}

	today := time.Now().UTC().Format("2006-01-02")
	var todayTruths int64
	if err := db.Model(&models.TruthPost{}).
		Where("created_at >= ?", today).Count(&todayTruths).Error; err != nil {
		log.Printf("Error counting today's truth posts: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyTruthsTotal, strconv.FormatInt(totalTruths, 10), CacheExpiration); err != nil {
		return err
	}
	dailyKey := fmt.Sprintf(CacheKeyTruthsDaily, today)
	return cache.Set(dailyKey, strconv.FormatInt(todayTruths, 10), CacheExpiration)
}

// GetTotalUsers returns the cached user count, refreshing on a miss
func GetTotalUsers() int {
	if v, err := cache.Get(CacheKeyUsersTotal); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	var count int64
	if err := database.GetDB().Model(&models.User{}).Count(&count).Error; err != nil {
		return 0
	}
	cache.Set(CacheKeyUsersTotal, strconv.FormatInt(count, 10), CacheExpiration)
	return int(count)
}

// GetTotalTruths returns the cached post count, refreshing on a miss
func GetTotalTruths() int {
	if v, err := cache.Get(CacheKeyTruthsTotal); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	var count int64
	if err := database.GetDB().Model(&models.TruthPost{}).Count(&count).Error; err != nil {
		return 0
	}
	cache.Set(CacheKeyTruthsTotal, strconv.FormatInt(count, 10), CacheExpiration)
	return int(count)
}

// GetTodayTruths returns today's cached post count
func GetTodayTruths() int {
	today := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf(CacheKeyTruthsDaily, today)
	if v, err := cache.Get(key); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	var count int64
	if err := database.GetDB().Model(&models.TruthPost{}).
		Where("created_at >= ?", today).Count(&count).Error; err != nil {
		return 0
	}
	cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration)
	return int(count)
}

// GetStatisticsData bundles all counters, updating the cache if stale
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalUsers:  GetTotalUsers(),
		TotalTruths: GetTotalTruths(),
		TodayTruths: GetTodayTruths(),
	}
}
