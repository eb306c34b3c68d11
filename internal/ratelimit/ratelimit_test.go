// internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(ceilings map[string]int, start time.Time) (*Limiter, *time.Time) {
	l := New(ceilings)
	now := start
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowUnderCeiling(t *testing.T) {
	l, _ := newTestLimiter(map[string]int{"model": 2}, time.Unix(1000, 0))

	want := []bool{true, true, false}
	for i, expected := range want {
		got := l.Allow("model")
		if got != expected {
			t.Fatalf("call %d: Allow = %v, want %v", i+1, got, expected)
		}
		if got {
			l.Record("model")
		}
	}
}

func TestWindowExpiry(t *testing.T) {
	start := time.Unix(1000, 0)
	l, now := newTestLimiter(map[string]int{"model": 1}, start)

	if !l.Allow("model") {
		t.Fatal("first call should be admitted")
	}
	l.Record("model")
	if l.Allow("model") {
		t.Fatal("second call within window should be rejected")
	}

	// Advance past the 60 second window; old entry ages out.
	*now = start.Add(61 * time.Second)
	if !l.Allow("model") {
		t.Fatal("call after window elapsed should be admitted")
	}
}

func TestZeroCeilingAlwaysRejects(t *testing.T) {
	l, _ := newTestLimiter(map[string]int{"speech": 0}, time.Unix(1000, 0))
	if l.Allow("speech") {
		t.Error("ceiling 0 must always reject")
	}
}

func TestUnknownDependencyRejects(t *testing.T) {
	l, _ := newTestLimiter(map[string]int{"model": 5}, time.Unix(1000, 0))
	if l.Allow("unknown") {
		t.Error("unknown dependency must be rejected")
	}
}

func TestDependenciesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(map[string]int{"model": 1, "speech": 1}, time.Unix(1000, 0))

	if !l.Allow("model") {
		t.Fatal("model should be admitted")
	}
	l.Record("model")

	if !l.Allow("speech") {
		t.Error("speech window must not be affected by model usage")
	}
}
