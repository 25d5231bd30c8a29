package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("repurpose", "vid123", "professional_business")
	b := CacheKey("repurpose", "vid123", "professional_business")
	if a != b {
		t.Errorf("same parts should give same key: %s vs %s", a, b)
	}
	if c := CacheKey("repurpose", "vid123", "social_media_casual"); c == a {
		t.Error("different parts should give different keys")
	}
	if a[:3] != "rp:" {
		t.Errorf("key missing namespace prefix: %s", a)
	}
}

func TestCacheRoundTripWithoutRedis(t *testing.T) {
	InitCache("", time.Minute, 64, time.Minute)
	ctx := context.Background()

	key := CacheKey("test", "round-trip")
	if _, ok := CacheGet(ctx, key); ok {
		t.Fatal("unexpected hit before set")
	}

	CacheSet(ctx, key, []byte("payload"))
	data, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(data) != "payload" {
		t.Errorf("wrong data: %q", data)
	}
}

func TestCacheExpiry(t *testing.T) {
	InitCache("", 10*time.Millisecond, 64, time.Minute)
	ctx := context.Background()

	key := CacheKey("test", "expiry")
	CacheSet(ctx, key, []byte("short-lived"))
	time.Sleep(30 * time.Millisecond)
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("entry should have expired")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", time.Minute, 4, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		CacheSet(ctx, CacheKey("test", "evict", fmt.Sprint(i)), []byte("v"))
	}

	count := 0
	transcriptCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 4 {
		t.Errorf("L1 holds %d entries, cap is 4", count)
	}
}
