package redis

import (
	"context"
	"testing"
	"time"

	"github.com/dolarscope/backend/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Enabled: false},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client failed: %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	client := &Client{enabled: false}
	cache := NewCache(client, "dolarscope")

	ctx := context.Background()

	// Set is a no-op
	if err := cache.Set(ctx, "score", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Errorf("Set() on disabled cache failed: %v", err)
	}

	// Get reports a miss
	var dest map[string]int
	found, err := cache.Get(ctx, "score", &dest)
	if err != nil {
		t.Errorf("Get() on disabled cache failed: %v", err)
	}
	if found {
		t.Error("Expected miss on disabled cache")
	}
}
