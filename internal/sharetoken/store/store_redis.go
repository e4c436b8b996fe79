package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"certivault/internal/sharetoken/models"
	"certivault/pkg/platform/sentinel"
)

var tokenLookupDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "certivault_share_token_lookup_duration_ms",
	Help:    "Latency of share token lookups in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const (
	// Redis key prefix for share tokens.
	shareTokenKeyPrefix = "share:token:"

	// retentionGrace keeps an expired token readable for a bounded window so
	// redemptions shortly after expiry report "expired" rather than "never
	// existed". After the grace window Redis reclaims the key and lookups
	// report not-found.
	retentionGrace = 24 * time.Hour
)

// RedisTokenStore is a Redis-backed TokenStore. This is the recommended
// implementation for distributed deployments: Redis key expiry enforces the
// token lifetime across replicas, so skew between application clocks is
// bounded by the Redis server clock.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed share token store.
func NewRedis(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Put(ctx context.Context, token models.ShareToken) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal share token: %w", err)
	}
	ttl := time.Until(token.ExpiresAt) + retentionGrace
	if err := s.client.Set(ctx, shareTokenKeyPrefix+token.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store share token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Get(ctx context.Context, tokenValue string) (models.ShareToken, error) {
	start := time.Now()
	defer func() {
		tokenLookupDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	payload, err := s.client.Get(ctx, shareTokenKeyPrefix+tokenValue).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ShareToken{}, fmt.Errorf("share token: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return models.ShareToken{}, fmt.Errorf("lookup share token: %w", err)
	}
	var token models.ShareToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return models.ShareToken{}, fmt.Errorf("unmarshal share token: %w", err)
	}
	return token, nil
}
