package ratelimiter

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}

	ok, retryAfter := rl.Allow("1.2.3.4")
	if ok {
		t.Fatal("request over the limit was allowed")
	}
	if retryAfter != time.Minute {
		t.Fatalf("retryAfter = %v, want %v", retryAfter, time.Minute)
	}
}

func TestClientsAreIndependent(t *testing.T) {
	rl := NewFixedWindowLimiter(1, time.Minute)

	if ok, _ := rl.Allow("1.1.1.1"); !ok {
		t.Fatal("first client denied")
	}
	if ok, _ := rl.Allow("2.2.2.2"); !ok {
		t.Fatal("second client denied after first exhausted its window")
	}
	if ok, _ := rl.Allow("1.1.1.1"); ok {
		t.Fatal("first client allowed over its limit")
	}
}

func TestWindowResets(t *testing.T) {
	rl := NewFixedWindowLimiter(1, 20*time.Millisecond)

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("first request denied")
	}
	if ok, _ := rl.Allow("1.2.3.4"); ok {
		t.Fatal("second request allowed inside the window")
	}

	time.Sleep(40 * time.Millisecond)

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("request denied after the window reset")
	}
}
