package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()

	if !l.Allow("client", 2, 0) {
		t.Fatalf("first request should pass")
	}
	if !l.Allow("client", 2, 0) {
		t.Fatalf("second request should pass")
	}
	if l.Allow("client", 2, 0) {
		t.Fatalf("bucket empty, third request should be denied")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()

	if !l.Allow("a", 1, 0) {
		t.Fatalf("first request for a should pass")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("a exhausted its bucket")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("b has its own bucket")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()

	if !l.Allow("client", 1, 1000) {
		t.Fatalf("first request should pass")
	}
	// At 1000 tokens/sec even a tight loop refills within a few calls.
	refilled := false
	for i := 0; i < 1_000_000; i++ {
		if l.Allow("client", 1, 1000) {
			refilled = true
			break
		}
	}
	if !refilled {
		t.Fatalf("bucket never refilled")
	}
}
