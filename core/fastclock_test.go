package core

import (
	"sync"
	"testing"
	"time"
)

// scriptedClock hands out a fixed sequence of instants, repeating the last
// one when the script runs out.
type scriptedClock struct {
	mu    sync.Mutex
	times []int64
	next  int
}

func (c *scriptedClock) NowMicros() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next < len(c.times)-1 {
		v := c.times[c.next]
		c.next++
		return v
	}
	return c.times[len(c.times)-1]
}

var _ Clock = (*FastClock)(nil)

func TestFastClock_TracksSystemClock(t *testing.T) {
	fc := NewFastClock()

	got := fc.Now()
	now := NowDateTime()

	diff := now.Sub(got)
	if diff < 0 {
		diff = -diff
	}
	// One resync interval plus scheduling slack bounds the skew.
	if diff > (2 * time.Second).Microseconds() {
		t.Errorf("FastClock drifted %dus from the system clock", diff)
	}
}

func TestFastClock_AdvancesBetweenResyncs(t *testing.T) {
	// A huge resync interval pins the sample, so advancement can only come
	// from elapsed monotonic time.
	fc := NewFastClock(
		WithClock(&scriptedClock{times: []int64{1_000_000}}),
		WithResyncInterval(time.Hour),
	)

	first := fc.NowMicros()
	time.Sleep(5 * time.Millisecond)
	second := fc.NowMicros()

	if second <= first {
		t.Errorf("expected time to advance, got %d then %d", first, second)
	}
	if second-first < (1 * time.Millisecond).Microseconds() {
		t.Errorf("advance %dus smaller than slept duration", second-first)
	}
}

func TestFastClock_ClampsBackwardResync(t *testing.T) {
	// The third sample steps the underlying clock backwards; derived
	// timestamps must not follow it.
	fc := NewFastClock(
		WithClock(&scriptedClock{times: []int64{1_000_000, 2_000_000, 500_000, 3_000_000}}),
		WithResyncInterval(time.Microsecond),
	)

	time.Sleep(time.Millisecond)
	t1 := fc.NowMicros()
	if t1 < 2_000_000 {
		t.Fatalf("first read %d, want at least the second sample", t1)
	}

	time.Sleep(time.Millisecond)
	t2 := fc.NowMicros()
	if t2 < t1 {
		t.Errorf("clock went backwards: %d after %d", t2, t1)
	}

	time.Sleep(time.Millisecond)
	t3 := fc.NowMicros()
	if t3 < 3_000_000 {
		t.Errorf("third read %d, want at least the recovered sample", t3)
	}
}

func TestFastClock_Monotonic(t *testing.T) {
	fc := NewFastClock(WithResyncInterval(time.Millisecond))

	prev := fc.NowMicros()
	for i := 0; i < 10000; i++ {
		got := fc.NowMicros()
		if got < prev {
			t.Fatalf("iteration %d: %d < previous %d", i, got, prev)
		}
		prev = got
	}
}

func TestFastClock_ConcurrentReaders(t *testing.T) {
	fc := NewFastClock(WithResyncInterval(100 * time.Microsecond))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := fc.NowMicros()
			for i := 0; i < 2000; i++ {
				got := fc.NowMicros()
				if got < prev {
					t.Errorf("observed regression: %d < %d", got, prev)
					return
				}
				prev = got
			}
		}()
	}
	wg.Wait()
}

func BenchmarkFastClockNowMicros(b *testing.B) {
	fc := NewFastClock()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = fc.NowMicros()
	}
}

func BenchmarkSystemClockNowMicros(b *testing.B) {
	c := SystemClock()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.NowMicros()
	}
}
