package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"main/model"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// HabitCache is the Redis mirror of each user's habit collection. Every
// mutation writes through to it after the Mongo attempt; when Mongo is
// unreachable the service reads and writes the mirror alone.
type HabitCache struct {
	client    *redis.Client
	cacheLock sync.RWMutex
}

type HabitCacheEntry struct {
	Habits    []*model.Habit `json:"habits"`
	UpdatedAt time.Time      `json:"updated_at"`
}

var GlobalHabitCache *HabitCache

// NewHabitCache creates and initializes a new habit mirror
func NewHabitCache(redisURL string) (*HabitCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &HabitCache{client: client}, nil
}

// SetUserHabits mirrors the full habit collection for a user
func (hc *HabitCache) SetUserHabits(userID string, habits []*model.Habit) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	hc.cacheLock.Lock()
	defer hc.cacheLock.Unlock()

	entry := HabitCacheEntry{
		Habits:    habits,
		UpdatedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %v", err)
	}

	ctx := context.Background()
	key := fmt.Sprintf("habits:%s", userID)
	if err := hc.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to mirror habits: %v", err)
	}
	return nil
}

// GetUserHabits retrieves the mirrored habit collection for a user. A cache
// miss or malformed payload yields an empty collection, not an error.
func (hc *HabitCache) GetUserHabits(userID string) ([]*model.Habit, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	hc.cacheLock.RLock()
	defer hc.cacheLock.RUnlock()

	ctx := context.Background()
	key := fmt.Sprintf("habits:%s", userID)

	data, err := hc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habits from mirror: %v", err)
	}

	var entry HabitCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("Malformed habit mirror for user %s, treating as empty: %v", userID, err)
		return nil, nil
	}

	return entry.Habits, nil
}

// SetHabitOrder mirrors the presentation-only habit ordering for a user.
// Ordering is never persisted to Mongo.
func (hc *HabitCache) SetHabitOrder(userID string, habitIDs []string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	hc.cacheLock.Lock()
	defer hc.cacheLock.Unlock()

	data, err := json.Marshal(habitIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal habit order: %v", err)
	}

	ctx := context.Background()
	key := fmt.Sprintf("habit_order:%s", userID)
	return hc.client.Set(ctx, key, data, 0).Err()
}

// GetHabitOrder retrieves the mirrored habit ordering for a user
func (hc *HabitCache) GetHabitOrder(userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	hc.cacheLock.RLock()
	defer hc.cacheLock.RUnlock()

	ctx := context.Background()
	key := fmt.Sprintf("habit_order:%s", userID)

	data, err := hc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var habitIDs []string
	if err := json.Unmarshal(data, &habitIDs); err != nil {
		log.Printf("Malformed habit order for user %s, ignoring: %v", userID, err)
		return nil, nil
	}
	return habitIDs, nil
}

// PurgeStaleProjections removes cached day projections whose day key no
// longer matches the current local day. Called on calendar rollover; never
// touches completion history.
func (hc *HabitCache) PurgeStaleProjections(currentDayKey string) error {
	hc.cacheLock.Lock()
	defer hc.cacheLock.Unlock()

	ctx := context.Background()

	var cursor uint64
	for {
		keys, next, err := hc.client.Scan(ctx, cursor, "projection:*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan projections: %v", err)
		}

		for _, key := range keys {
			if !strings.HasSuffix(key, ":"+currentDayKey) {
				if err := hc.client.Del(ctx, key).Err(); err != nil {
					log.Printf("Failed to purge stale projection %s: %v", key, err)
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// SetDayProjection caches a day-scoped read view, stamped with its day key
func (hc *HabitCache) SetDayProjection(userID, dayKey string, habits []*model.Habit) error {
	hc.cacheLock.Lock()
	defer hc.cacheLock.Unlock()

	data, err := json.Marshal(habits)
	if err != nil {
		return err
	}

	ctx := context.Background()
	key := fmt.Sprintf("projection:%s:%s", userID, dayKey)
	// Projections expire on their own as a backstop; rollover purges early.
	return hc.client.Set(ctx, key, data, 48*time.Hour).Err()
}

// GetDayProjection retrieves a cached day-scoped read view
func (hc *HabitCache) GetDayProjection(userID, dayKey string) ([]*model.Habit, error) {
	hc.cacheLock.RLock()
	defer hc.cacheLock.RUnlock()

	ctx := context.Background()
	key := fmt.Sprintf("projection:%s:%s", userID, dayKey)

	data, err := hc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var habits []*model.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, nil
	}
	return habits, nil
}

// InvalidateUserProjections drops every cached day projection for one user.
// Called after each collection mutation so read views recompute.
func (hc *HabitCache) InvalidateUserProjections(userID string) {
	if userID == "" {
		return
	}

	ctx := context.Background()
	pattern := fmt.Sprintf("projection:%s:*", userID)

	var cursor uint64
	for {
		keys, next, err := hc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Printf("Failed to scan projections for user %s: %v", userID, err)
			return
		}
		if len(keys) > 0 {
			if err := hc.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("Failed to invalidate projections for user %s: %v", userID, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}
