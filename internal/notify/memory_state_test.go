package notify

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStateStoreRoundTrip(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	ctx := context.Background()

	if err := store.SetState(ctx, 111, StateAwaitingGuestRSVP); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	state, err := store.State(ctx, 111)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state != StateAwaitingGuestRSVP {
		t.Errorf("Expected guest RSVP state, got %q", state)
	}
}

func TestMemoryStateStoreDefaultsToIdle(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)

	state, err := store.State(context.Background(), 999)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state != StateIdle {
		t.Errorf("Unknown chat must be idle, got %q", state)
	}
}

func TestMemoryStateStoreDataPayload(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	ctx := context.Background()

	type payload struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}

	if err := store.SetData(ctx, 111, payload{Key: "e1", Count: 3}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	var got payload
	if err := store.Data(ctx, 111, &got); err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if got.Key != "e1" || got.Count != 3 {
		t.Errorf("Unexpected payload: %+v", got)
	}
}

func TestMemoryStateStoreDataMissing(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)

	var got struct{ Key string }
	if err := store.Data(context.Background(), 999, &got); err != nil {
		t.Fatalf("Data on unknown chat must not fail: %v", err)
	}
	if got.Key != "" {
		t.Errorf("Destination must stay zero-valued, got %+v", got)
	}
}

func TestMemoryStateStoreReset(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	ctx := context.Background()

	if err := store.SetState(ctx, 111, StateAwaitingSpeakerRSVP); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if err := store.SetData(ctx, 111, map[string]string{"key": "e1"}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	if err := store.Reset(ctx, 111); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	state, _ := store.State(ctx, 111)
	if state != StateIdle {
		t.Errorf("Reset chat must be idle, got %q", state)
	}
	var got map[string]string
	if err := store.Data(ctx, 111, &got); err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if got != nil {
		t.Errorf("Reset chat must have no payload, got %v", got)
	}
}
