package profiler

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	details := 0
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(500*time.Millisecond),
		WithDetail(func() string { details++; return "Playing: Idle" }),
	)

	for i := 0; i < 9; i++ {
		clock.t = clock.t.Add(50 * time.Millisecond)
		if p.Tick() {
			t.Fatalf("Tick() #%d = true before the interval elapsed", i+1)
		}
	}
	clock.t = clock.t.Add(50 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("Tick() = false at the interval, want true")
	}
	if got := p.Last().FPS; got != 20 {
		t.Errorf("Last().FPS = %v, want 20", got)
	}
	if details != 1 {
		t.Errorf("detail called %d times, want 1", details)
	}
	if p.Tick() {
		t.Error("Tick() = true right after reporting, want false")
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	if p.updateInterval != time.Second {
		t.Errorf("updateInterval = %v, want %v", p.updateInterval, time.Second)
	}
}
