package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"societyhub/internal/models"
)

type CacheService interface {
	// Dashboard snapshot caching
	GetAdminDashboard(ctx context.Context) (*models.AdminDashboard, error)
	SetAdminDashboard(ctx context.Context, snapshot *models.AdminDashboard, ttl time.Duration) error
	GetOwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*models.OwnerDashboard, error)
	SetOwnerDashboard(ctx context.Context, ownerID uuid.UUID, snapshot *models.OwnerDashboard, ttl time.Duration) error
	InvalidateDashboards(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as plain host:port
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
	} else {
		log.Println("Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetAdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	data, err := r.client.Get(ctx, "societyhub:dashboard:admin").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot models.AdminDashboard
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetAdminDashboard(ctx context.Context, snapshot *models.AdminDashboard, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "societyhub:dashboard:admin", data, ttl).Err()
}

func (r *redisCacheService) GetOwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*models.OwnerDashboard, error) {
	key := fmt.Sprintf("societyhub:dashboard:owner:%s", ownerID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot models.OwnerDashboard
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetOwnerDashboard(ctx context.Context, ownerID uuid.UUID, snapshot *models.OwnerDashboard, ttl time.Duration) error {
	key := fmt.Sprintf("societyhub:dashboard:owner:%s", ownerID.String())
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateDashboards drops every cached dashboard snapshot. Called after
// any write that changes the counts they report.
func (r *redisCacheService) InvalidateDashboards(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "societyhub:dashboard:*").Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("societyhub:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
