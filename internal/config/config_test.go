package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "COLLECTION", "REFRESH_DELAY", "REDIS_DB"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "deliveries", cfg.Collection)
	assert.Equal(t, 100*time.Millisecond, cfg.RefreshDelay)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REFRESH_DELAY", "250ms")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COLLECTION", "  parcels ")

	cfg := Load()

	assert.Equal(t, StoreDriverRedis, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshDelay)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "parcels", cfg.Collection)
}

func TestGetHelpersFallBackOnInvalidValues(t *testing.T) {
	t.Setenv("X_INT", "ten")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "-5s")
	t.Setenv("X_MS", "40")

	assert.Equal(t, 7, GetInt("X_INT", 7))
	assert.True(t, GetBool("X_BOOL", true))
	assert.Equal(t, time.Second, GetDuration("X_DUR", time.Second))
	assert.Equal(t, 40*time.Millisecond, GetDuration("X_MS", time.Second))
}
