package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     bool      `json:"redis"`
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

func checkHealth(ctx context.Context, client *redis.Client) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	healthy := client.Ping(pingCtx).Err() == nil

	mu.Lock()
	currentHealth = HealthStatus{Redis: healthy, CheckedAt: time.Now()}
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state until ctx is canceled.
func StartHealthMonitor(ctx context.Context, client *redis.Client, every time.Duration) {
	checkHealth(ctx, client)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkHealth(ctx, client)
			}
		}
	}()
}
