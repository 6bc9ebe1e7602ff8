package spam

import (
	"fmt"
	"testing"
	"time"
)

func testTracker(start time.Time) (*Feature, *time.Time) {
	clock := start
	f := New()
	f.now = func() time.Time { return clock }
	return f, &clock
}

func TestBurstTrips(t *testing.T) {
	f, _ := testTracker(time.Unix(1000, 0))

	for i := 0; i < burstLimit-1; i++ {
		if f.record("g", "u", fmt.Sprintf("message %d", i)) {
			t.Fatalf("tripped on message %d, want trip only at %d", i+1, burstLimit)
		}
	}
	if !f.record("g", "u", "one more") {
		t.Fatalf("message %d did not trip burst limit", burstLimit)
	}
}

func TestBurstResetsAfterTrip(t *testing.T) {
	f, _ := testTracker(time.Unix(1000, 0))

	for i := 0; i < burstLimit; i++ {
		f.record("g", "u", fmt.Sprintf("message %d", i))
	}
	// Window was cleared on trip, so the next message starts a fresh count.
	if f.record("g", "u", "fresh start") {
		t.Fatal("tripped immediately after reset")
	}
}

func TestRepeatTrips(t *testing.T) {
	f, _ := testTracker(time.Unix(1000, 0))

	for i := 0; i < repeatLimit-1; i++ {
		if f.record("g", "u", "buy cheap gems here") {
			t.Fatalf("tripped on repeat %d, want trip only at %d", i+1, repeatLimit)
		}
	}
	if !f.record("g", "u", "buy cheap gems here") {
		t.Fatalf("repeat %d did not trip", repeatLimit)
	}
}

func TestShortRepeatsIgnored(t *testing.T) {
	f, _ := testTracker(time.Unix(1000, 0))

	for i := 0; i < repeatLimit+1; i++ {
		if f.record("g", "u", "ok") {
			t.Fatal("short repeat tripped the filter")
		}
	}
}

func TestWindowExpires(t *testing.T) {
	f, clock := testTracker(time.Unix(1000, 0))

	for i := 0; i < burstLimit-1; i++ {
		f.record("g", "u", fmt.Sprintf("message %d", i))
	}
	*clock = clock.Add(window + time.Second)

	// Old entries are swept on insert, so this counts as the first message.
	if f.record("g", "u", "after the window") {
		t.Fatal("expired entries still counted")
	}
}

func TestUsersTrackedIndependently(t *testing.T) {
	f, _ := testTracker(time.Unix(1000, 0))

	for i := 0; i < burstLimit-1; i++ {
		f.record("g", "alice", fmt.Sprintf("message %d", i))
	}
	if f.record("g", "bob", "hello") {
		t.Fatal("bob inherited alice's window")
	}
	if f.record("other", "alice", "hello") {
		t.Fatal("window leaked across guilds")
	}
}
