package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type snapshot struct {
	LeadScore string `json:"leadScore"`
	Urgency   int    `json:"urgency"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := snapshot{LeadScore: "hot", Urgency: 70}
	if err := c.SetJSON(ctx, "snap:b1", in, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out snapshot
	if err := c.GetJSON(ctx, "snap:b1", &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestMissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var out snapshot
	if err := c.GetJSON(ctx, "absent", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := c.SetJSON(ctx, "snap:b2", snapshot{LeadScore: "warm"}, time.Second); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	mr.FastForward(2 * time.Second)

	if err := c.GetJSON(ctx, "snap:b2", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "snap:b3", snapshot{}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := c.Delete(ctx, "snap:b3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var out snapshot
	if err := c.GetJSON(ctx, "snap:b3", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after delete, got %v", err)
	}
}
