package middleware

import (
	"testing"
	"time"
)

func TestSlidingWindow_AllowsUpToMax(t *testing.T) {
	w := newSlidingWindow(10*time.Second, 3)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if !w.Allow(100, now) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if w.Allow(100, now) {
		t.Error("request over the limit should be rejected")
	}
}

func TestSlidingWindow_OldEventsExpire(t *testing.T) {
	w := newSlidingWindow(10*time.Second, 1)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !w.Allow(100, now) {
		t.Fatal("first request should be allowed")
	}
	if w.Allow(100, now.Add(5*time.Second)) {
		t.Error("request inside the window should be rejected")
	}
	if !w.Allow(100, now.Add(11*time.Second)) {
		t.Error("request after the window should be allowed")
	}
}

func TestSlidingWindow_UsersAreIndependent(t *testing.T) {
	w := newSlidingWindow(10*time.Second, 1)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !w.Allow(100, now) {
		t.Fatal("first user should be allowed")
	}
	if !w.Allow(200, now) {
		t.Error("second user should not share the first user's bucket")
	}
}

func TestSlidingWindow_ZeroMaxDisablesThrottle(t *testing.T) {
	w := newSlidingWindow(10*time.Second, 0)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		if !w.Allow(100, now) {
			t.Fatal("throttle should be disabled when max is zero")
		}
	}
}
