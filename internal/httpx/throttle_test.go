package httpx

import (
	"context"
	"testing"
	"time"
)

func TestThrottleSerializesSameHost(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)

	first := th.Wait(context.Background(), "example.com")
	if first != 0 {
		t.Fatalf("first call should not wait, got %v", first)
	}

	start := time.Now()
	th.Wait(context.Background(), "example.com")
	elapsed := time.Since(start)
	if elapsed < 30*time.Millisecond {
		t.Fatalf("second call to same host should have waited roughly the interval, elapsed=%v", elapsed)
	}
}

func TestThrottleIndependentHosts(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	th.Wait(context.Background(), "a.example")

	start := time.Now()
	th.Wait(context.Background(), "b.example")
	elapsed := time.Since(start)
	if elapsed > 20*time.Millisecond {
		t.Fatalf("distinct hosts must not block each other, elapsed=%v", elapsed)
	}
}

func TestThrottleSetIntervalOverride(t *testing.T) {
	th := NewThrottle(1 * time.Millisecond)
	th.SetInterval("slow.example", 60*time.Millisecond)
	th.Wait(context.Background(), "slow.example")

	start := time.Now()
	th.Wait(context.Background(), "slow.example")
	if time.Since(start) < 40*time.Millisecond {
		t.Fatal("override interval was not honored")
	}
}

func TestThrottleWaitReturnsEarlyOnCancellation(t *testing.T) {
	th := NewThrottle(time.Hour)
	th.Wait(context.Background(), "cancelled.example")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	th.Wait(ctx, "cancelled.example")
	elapsed := time.Since(start)
	if elapsed > 100*time.Millisecond {
		t.Fatalf("a cancelled context should return immediately instead of sleeping the full interval, elapsed=%v", elapsed)
	}
}
