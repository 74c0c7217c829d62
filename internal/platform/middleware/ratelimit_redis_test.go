package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedisLimiter(client, 3, time.Minute)
	now := time.Date(2024, 3, 1, 9, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "ip:1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed || d.Remaining != 3-i {
			t.Errorf("request %d: %+v", i, d)
		}
	}

	d, err := l.Allow(ctx, "ip:1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("fourth request in the window should be denied")
	}
	if d.RetryAfter != 50*time.Second {
		t.Errorf("retry after = %s, want 50s", d.RetryAfter)
	}

	key := redisKeyPrefix + "ip:1:" + "1709283600"
	if !mr.Exists(key) {
		t.Errorf("expected window key %s, have %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("window key ttl = %s", ttl)
	}

	now = now.Add(time.Minute)
	if d, _ := l.Allow(ctx, "ip:1"); !d.Allowed {
		t.Error("next window should start fresh")
	}
}

func TestRedisLimiter_SharedAcrossInstances(t *testing.T) {
	_, client := setupTestRedis(t)
	a := NewRedisLimiter(client, 1, time.Hour)
	b := NewRedisLimiter(client, 1, time.Hour)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }
	b.now = a.now

	if d, _ := a.Allow(context.Background(), "user:u-1"); !d.Allowed {
		t.Fatal("first request should pass")
	}
	if d, _ := b.Allow(context.Background(), "user:u-1"); d.Allowed {
		t.Error("second instance must see the shared counter")
	}
}

func TestRedisLimiter_ErrorWhenDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	if _, err := NewRedisLimiter(client, 1, time.Minute).Allow(context.Background(), "ip:1"); err == nil {
		t.Error("expected error when redis is unreachable")
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	client.Close()

	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Error("expected parse error")
	}
}
