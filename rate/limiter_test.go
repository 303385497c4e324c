package rate

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	interval := 10 * time.Millisecond
	lim := NewLimiter(1, 100, Every(interval))

	tooshort := time.Millisecond

	key := "user-1"
	expected := []bool{true, false, true, true, false, false}
	waits := []time.Duration{tooshort, interval, interval, tooshort, tooshort, tooshort}
	for i, exp := range expected {
		if got := lim.Check(key); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterWithBurst(t *testing.T) {
	interval := 100 * time.Millisecond
	lim := NewLimiter(10, 100, Every(interval))

	tooshort := 10 * time.Millisecond
	shortest := time.Millisecond

	// The full burst passes back to back, then the bucket must refill.
	expected := []bool{true, true, true, true, true, true, true, true, true, true}
	waits := []time.Duration{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	expected = append(expected, false, true, true, false, false, false)
	waits = append(waits, interval, interval, tooshort, tooshort, shortest, shortest)

	key := "user-1"
	for i, exp := range expected {
		if got := lim.Check(key); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterSeparatesCallers(t *testing.T) {
	lim := NewLimiter(1, 100, Every(time.Minute))

	if !lim.Check("user-1") {
		t.Fatal("first caller should pass")
	}
	if lim.Check("user-1") {
		t.Fatal("first caller should be throttled on the second hit")
	}
	if !lim.Check("user-2") {
		t.Fatal("second caller must have its own bucket")
	}
}
