package tileanim

import (
	"math"
	"testing"
)

func TestClock_Advance(t *testing.T) {
	t.Run("正常推进", func(t *testing.T) {
		c := NewClock(DefaultMaxStepMs)
		if got := c.Advance(16); got != 16 {
			t.Errorf("Advance(16) = %d, want 16", got)
		}
		if c.Now() != 16 {
			t.Errorf("Now() = %d, want 16", c.Now())
		}
	})

	t.Run("超大 delta 被截断", func(t *testing.T) {
		c := NewClock(250)
		if got := c.Advance(5000); got != 250 {
			t.Errorf("Advance(5000) = %d, want 250", got)
		}
		stats := c.Stats()
		if stats.Clamped != 1 || stats.DroppedMs != 4750 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("负 delta 被忽略", func(t *testing.T) {
		c := NewClock(250)
		c.Advance(100)
		if got := c.Advance(-40); got != 0 {
			t.Errorf("Advance(-40) = %d, want 0", got)
		}
		if c.Now() != 100 {
			t.Errorf("clock went backward: %d", c.Now())
		}
		if c.Stats().Ignored != 1 {
			t.Errorf("expected 1 ignored delta, got %d", c.Stats().Ignored)
		}
	})

	t.Run("maxStep 为 0 时不截断", func(t *testing.T) {
		c := NewClock(0)
		if got := c.Advance(1_000_000); got != 1_000_000 {
			t.Errorf("Advance = %d, want 1000000", got)
		}
		if c.Stats().Clamped != 0 {
			t.Error("no clamping expected")
		}
	})

	t.Run("累计时间在 MaxInt64 处饱和", func(t *testing.T) {
		c := NewClock(0)
		c.Advance(150)
		if got := c.Advance(math.MaxInt64); got != math.MaxInt64-150 {
			t.Errorf("Advance(MaxInt64) = %d, want %d", got, int64(math.MaxInt64-150))
		}
		if c.Now() != math.MaxInt64 {
			t.Errorf("Now() = %d, want MaxInt64", c.Now())
		}
		if got := c.Advance(100); got != 0 || c.Now() != math.MaxInt64 {
			t.Errorf("saturated clock moved: applied=%d now=%d", got, c.Now())
		}
		stats := c.Stats()
		if stats.Clamped != 2 || stats.DroppedMs != 250 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("负数 maxStep 视为 0", func(t *testing.T) {
		c := NewClock(-1)
		if c.MaxStepMs() != 0 {
			t.Errorf("MaxStepMs() = %d, want 0", c.MaxStepMs())
		}
	})
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClock(DefaultMaxStepMs)
	deltas := []int64{16, 17, -3, 0, 9999, 16, -100, 250, 251}

	prev := c.Now()
	for _, d := range deltas {
		c.Advance(d)
		if c.Now() < prev {
			t.Fatalf("clock went backward after delta %d: %d < %d", d, c.Now(), prev)
		}
		prev = c.Now()
	}
	if c.Stats().Ticks != uint64(len(deltas)) {
		t.Errorf("Ticks = %d, want %d", c.Stats().Ticks, len(deltas))
	}
}
