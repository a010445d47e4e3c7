package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"freshtrack/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Batch caching
	GetBatch(ctx context.Context, batchID string) (*models.InventoryBatch, error)
	SetBatch(ctx context.Context, batch *models.InventoryBatch, ttl time.Duration) error
	DeleteBatch(ctx context.Context, batchID string) error

	// Counters back the fire-and-forget metrics; errors are the caller's to swallow.
	IncrCounter(ctx context.Context, name string) error
	GetCounter(ctx context.Context, name string) (int64, error)

	Ping(ctx context.Context) error
	Client() *redis.Client
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetBatch(ctx context.Context, batchID string) (*models.InventoryBatch, error) {
	key := fmt.Sprintf("freshtrack:batch:%s", batchID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var batch models.InventoryBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *redisCacheService) SetBatch(ctx context.Context, batch *models.InventoryBatch, ttl time.Duration) error {
	key := fmt.Sprintf("freshtrack:batch:%s", batch.BatchID)
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteBatch(ctx context.Context, batchID string) error {
	key := fmt.Sprintf("freshtrack:batch:%s", batchID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) IncrCounter(ctx context.Context, name string) error {
	key := fmt.Sprintf("freshtrack:counter:%s", name)
	return r.client.Incr(ctx, key).Err()
}

func (r *redisCacheService) GetCounter(ctx context.Context, name string) (int64, error) {
	key := fmt.Sprintf("freshtrack:counter:%s", name)
	val, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Client exposes the underlying connection for components that need raw
// Redis commands, such as the notification stream.
func (r *redisCacheService) Client() *redis.Client {
	return r.client
}
