package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ifitness/api/internal/config"
	"ifitness/api/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const catalogKey = "ifitness:exercises:catalog"

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", zap.String("address", cfg.Address), zap.Error(err))
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Address, err)
	}
	logger.Info("Successfully connected to Redis", zap.String("address", cfg.Address))
	return rdb, nil
}

type redisExerciseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisExerciseCache stores the catalog as one JSON value with a TTL.
func NewRedisExerciseCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ExerciseCache {
	return &redisExerciseCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisExerciseCache) GetCatalog(ctx context.Context) ([]domain.Exercise, error) {
	val, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", catalogKey, err)
	}

	var exercises []domain.Exercise
	if err := json.Unmarshal(val, &exercises); err != nil {
		// A corrupt entry behaves like a miss and gets overwritten.
		c.logger.Warn("Discarding undecodable exercise catalog", zap.Error(err))
		return nil, ErrMiss
	}
	return exercises, nil
}

func (c *redisExerciseCache) SetCatalog(ctx context.Context, exercises []domain.Exercise) error {
	data, err := json.Marshal(exercises)
	if err != nil {
		return fmt.Errorf("marshal exercise catalog: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", catalogKey, err)
	}
	c.logger.Debug("Cached exercise catalog", zap.Int("count", len(exercises)), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *redisExerciseCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", catalogKey, err)
	}
	return nil
}
