package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ngoconnect-backend/shared/config"
)

// LoginThrottle counts failed login attempts per email+IP in Redis so the
// block state survives restarts and is shared across instances.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	block       time.Duration
}

var globalThrottle *LoginThrottle

// InitLoginThrottle initializes the global login throttle
func InitLoginThrottle() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalThrottle = &LoginThrottle{
		client:      client,
		maxAttempts: cfg.GetLoginRateLimitMaxAttempts(),
		window:      time.Duration(cfg.GetLoginRateLimitWindowSeconds()) * time.Second,
		block:       time.Duration(cfg.GetLoginRateLimitBlockMinutes()) * time.Minute,
	}

	log.Printf("✅ Login throttle initialized - %s:%s DB:%d", cfg.RedisHost, cfg.RedisPort, redisDB)
	return nil
}

// GetLoginThrottle returns the global throttle, or nil when Redis is not
// configured. Callers treat nil as throttling disabled.
func GetLoginThrottle() *LoginThrottle {
	return globalThrottle
}

func attemptKey(email, ip string) string {
	return fmt.Sprintf("login:attempts:%s:%s", email, ip)
}

func blockKey(email, ip string) string {
	return fmt.Sprintf("login:block:%s:%s", email, ip)
}

// IsBlocked reports whether the email+IP pair is currently blocked.
func (t *LoginThrottle) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	if t == nil || t.client == nil {
		return false, nil
	}

	exists, err := t.client.Exists(ctx, blockKey(email, ip)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read block state: %v", err)
	}
	return exists > 0, nil
}

// RecordFailure increments the failed-attempt counter; crossing the
// attempt cap sets the block marker for the block duration.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email, ip string) error {
	if t == nil || t.client == nil {
		return nil
	}

	key := attemptKey(email, ip)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %v", err)
	}

	// First failure in the window starts the window clock.
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("failed to set attempt window: %v", err)
		}
	}

	if count >= int64(t.maxAttempts) {
		if err := t.client.Set(ctx, blockKey(email, ip), "1", t.block).Err(); err != nil {
			return fmt.Errorf("failed to set block marker: %v", err)
		}
	}

	return nil
}

// Reset clears the counters after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email, ip string) error {
	if t == nil || t.client == nil {
		return nil
	}

	if err := t.client.Del(ctx, attemptKey(email, ip), blockKey(email, ip)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %v", err)
	}
	return nil
}
