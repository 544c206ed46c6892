package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestProbeRunnerAggregatesResults(t *testing.T) {
	ok := CheckerFunc{CheckName: "ok", Fn: func(context.Context) error { return nil }}
	bad := CheckerFunc{CheckName: "bad", Fn: func(context.Context) error { return errors.New("down") }}

	ready, results := NewProbeRunner(time.Second, 0, ok).Ready(context.Background())
	if !ready || len(results) != 1 || !results[0].Healthy {
		t.Fatalf("expected ready, got %v %+v", ready, results)
	}

	ready, results = NewProbeRunner(time.Second, 0, ok, bad).Ready(context.Background())
	if ready {
		t.Fatal("expected not ready when one checker fails")
	}
	if results[1].Name != "bad" || results[1].Healthy || results[1].Error != "down" {
		t.Fatalf("unexpected failing result: %+v", results[1])
	}
}

func TestProbeRunnerAppliesTimeout(t *testing.T) {
	slow := CheckerFunc{CheckName: "slow", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	start := time.Now()
	ready, results := NewProbeRunner(20*time.Millisecond, 0, slow).Ready(context.Background())
	if ready || results[0].Healthy {
		t.Fatalf("expected timeout failure, got %+v", results)
	}
	if time.Since(start) > time.Second {
		t.Fatal("probe did not honour its timeout")
	}
}

func TestProbeRunnerCachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	c := CheckerFunc{CheckName: "counted", Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}}
	now := time.Unix(1_700_000_000, 0)
	p := NewProbeRunner(time.Second, 2*time.Second, c)
	p.now = func() time.Time { return now }

	p.Ready(context.Background())
	p.Ready(context.Background())
	if calls.Load() != 1 {
		t.Fatalf("expected cached result, checker ran %d times", calls.Load())
	}
	now = now.Add(3 * time.Second)
	p.Ready(context.Background())
	if calls.Load() != 2 {
		t.Fatalf("expected refresh after ttl, checker ran %d times", calls.Load())
	}
}

func TestDependencyCheckers(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ready, results := NewProbeRunner(time.Second, 0, DBChecker(db), RedisChecker(client)).Ready(context.Background())
	if !ready {
		t.Fatalf("expected ready, got %+v", results)
	}

	mr.SetError("LOADING redis is loading")
	ready, results = NewProbeRunner(time.Second, 0, DBChecker(db), RedisChecker(client)).Ready(context.Background())
	if ready || results[1].Healthy {
		t.Fatalf("expected redis failure, got %+v", results)
	}
}
