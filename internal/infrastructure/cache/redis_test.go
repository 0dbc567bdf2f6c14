package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	// non-zero DB to verify it is passed through
	c, err := OpenRedis(s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// round-trip a key shaped like the idempotency entries stored here
	if err := c.Set(ctx, "idemp:post:/loans:smoke", "pending", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	v, err := c.Get(ctx, "idemp:post:/loans:smoke").Result()
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if v != "pending" {
		t.Fatalf("GET value = %q, want %q", v, "pending")
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host: Ping must fail fast
	if _, err := OpenRedis("not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}
