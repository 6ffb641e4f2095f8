package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// RevocationList invalidates all outstanding tokens for a subject. Entries
// expire with the token lifetime, so the list stays bounded.
type RevocationList interface {
	Revoke(ctx context.Context, subjectID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, subjectID string) (bool, error)
}

var isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "badbaado_token_revocation_check_duration_ms",
	Help:    "Latency of token revocation checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const revokedSubjectKeyPrefix = "trl:sub:"

// RedisRevocationList is the production implementation for deployments where
// multiple instances need to share revocation state.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// Revoke marks a subject revoked with TTL. Uses SET with expiry so the entry
// disappears once no token issued before revocation can still be live.
func (r *RedisRevocationList) Revoke(ctx context.Context, subjectID string, ttl time.Duration) error {
	if subjectID == "" {
		return nil
	}
	return r.client.Set(ctx, revokedSubjectKeyPrefix+subjectID, "1", ttl).Err()
}

func (r *RedisRevocationList) IsRevoked(ctx context.Context, subjectID string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if subjectID == "" {
		return false, nil
	}
	_, err := r.client.Get(ctx, revokedSubjectKeyPrefix+subjectID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryRevocationList backs single-instance and test deployments.
type MemoryRevocationList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{revoked: make(map[string]time.Time)}
}

func (m *MemoryRevocationList) Revoke(_ context.Context, subjectID string, ttl time.Duration) error {
	if subjectID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[subjectID] = time.Now().Add(ttl)
	return nil
}

func (m *MemoryRevocationList) IsRevoked(_ context.Context, subjectID string) (bool, error) {
	m.mu.RLock()
	until, ok := m.revoked[subjectID]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		m.mu.Lock()
		delete(m.revoked, subjectID)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}
