package middleware

import (
	"testing"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := &RateLimiter{buckets: make(map[string]*bucket), limit: 3}

	for i := 0; i < 3; i++ {
		result := rl.allow("sess-1")
		if !result.allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	result := rl.allow("sess-1")
	if result.allowed {
		t.Error("request over the limit should be rejected")
	}
	if result.remaining != 0 {
		t.Errorf("remaining = %v, want 0", result.remaining)
	}
	if result.limit != 3 {
		t.Errorf("limit = %v, want 3", result.limit)
	}
}

func TestRateLimiterBucketsAreIndependent(t *testing.T) {
	rl := &RateLimiter{buckets: make(map[string]*bucket), limit: 1}

	if !rl.allow("sess-a").allowed {
		t.Fatal("first request for sess-a should be allowed")
	}
	if rl.allow("sess-a").allowed {
		t.Fatal("second request for sess-a should be rejected")
	}
	// A different session has its own bucket.
	if !rl.allow("sess-b").allowed {
		t.Error("first request for sess-b should be allowed")
	}
}

func TestRateLimiterRemainingCountsDown(t *testing.T) {
	rl := &RateLimiter{buckets: make(map[string]*bucket), limit: 5}

	first := rl.allow("sess-1")
	if first.remaining > 4 {
		t.Errorf("remaining after first request = %v, want at most 4", first.remaining)
	}
	second := rl.allow("sess-1")
	if second.remaining >= first.remaining {
		t.Errorf("remaining did not decrease: %v then %v", first.remaining, second.remaining)
	}
}
