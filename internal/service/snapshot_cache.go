package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-schedule/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	RedisSnapshotKeyPrefix = "schedule:snapshot:"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second
)

// SnapshotLoader reads the schedule from the source of truth on a cache miss.
type SnapshotLoader func(ctx context.Context) (*dto.ScheduleResponse, error)

// SnapshotCache keeps the rendered schedule of each clinic in Redis.
// Redis failures are logged and treated as misses; the database stays
// the source of truth. Fills and writes of a clinic's entry happen under
// that clinic's lock, so a fill never overwrites a newer write.
type SnapshotCache struct {
	redisClient *redis.Client
	locker      *ClinicLocker
	log         *logrus.Logger
	ttl         time.Duration
	group       singleflight.Group
}

func NewSnapshotCache(redisClient *redis.Client, locker *ClinicLocker, log *logrus.Logger, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		redisClient: redisClient,
		locker:      locker,
		log:         log,
		ttl:         ttl,
	}
}

// Get returns the cached schedule and whether there was one.
func (c *SnapshotCache) Get(ctx context.Context, clinicID uuid.UUID) (*dto.ScheduleResponse, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := c.redisClient.Get(ctx, snapshotKey(clinicID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot for clinic %s: %w", clinicID, err)
	}

	var response dto.ScheduleResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, false, fmt.Errorf("decode snapshot for clinic %s: %w", clinicID, err)
	}
	return &response, true, nil
}

// Set stores the schedule. Callers must hold the clinic lock.
func (c *SnapshotCache) Set(ctx context.Context, response *dto.ScheduleResponse) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode snapshot for clinic %s: %w", response.ClinicID, err)
	}
	if err := c.redisClient.Set(ctx, snapshotKey(response.ClinicID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot for clinic %s: %w", response.ClinicID, err)
	}
	return nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context, clinicID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := c.redisClient.Del(ctx, snapshotKey(clinicID)).Err(); err != nil {
		return fmt.Errorf("delete snapshot for clinic %s: %w", clinicID, err)
	}
	return nil
}

// Load serves from Redis, falling back to load on a miss. Concurrent misses
// for one clinic share a single load, which runs under the clinic lock.
// load must not take the clinic lock itself.
func (c *SnapshotCache) Load(ctx context.Context, clinicID uuid.UUID, load SnapshotLoader) (*dto.ScheduleResponse, error) {
	if cached, ok := c.cached(ctx, clinicID); ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(clinicID.String(), func() (interface{}, error) {
		unlock := c.locker.Lock(clinicID)
		defer unlock()

		// a writer may have filled the entry while we waited
		if cached, ok := c.cached(ctx, clinicID); ok {
			return cached, nil
		}

		response, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, response); err != nil {
			c.log.Warnf("Failed to cache schedule: %+v", err)
		}
		return response, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.ScheduleResponse), nil
}

func (c *SnapshotCache) cached(ctx context.Context, clinicID uuid.UUID) (*dto.ScheduleResponse, bool) {
	cached, ok, err := c.Get(ctx, clinicID)
	if err != nil {
		c.log.Warnf("Failed to read cached schedule: %+v", err)
		return nil, false
	}
	return cached, ok
}

func snapshotKey(clinicID uuid.UUID) string {
	return RedisSnapshotKeyPrefix + clinicID.String()
}
