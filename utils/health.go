package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external resources.
type HealthStatus struct {
	Redis     bool      `json:"redis"`
	Browser   bool      `json:"browser"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state. The browser probe must not touch the page; it only reports whether a
// live session exists.
func StartHealthMonitor(ledger *redis.Client, browserAlive func() bool) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			redisHealthy := ledger.Ping(ctx).Err() == nil

			mu.Lock()
			currentHealth = HealthStatus{
				Redis:     redisHealthy,
				Browser:   browserAlive(),
				CheckedAt: time.Now(),
			}
			mu.Unlock()
		}
	}()
}
