package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"colloquium/backstage/internal/models/entities"
)

func testEvent(key string) entities.Event {
	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	return entities.Event{
		Key:              key,
		Title:            "Opening keynote",
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Venue:            "Hall A",
		VenueDescription: "Main building, ground floor",
	}
}

func TestEventAddAndGetOne(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.Add(ctx, testEvent("e1")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := repo.GetOne(ctx, EventFilter{Key: Value("e1")})
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if got == nil || got.Title != "Opening keynote" || got.Venue != "Hall A" {
		t.Errorf("Stored event does not match input: %+v", got)
	}
	if !got.StartTime.Equal(testEvent("e1").StartTime) {
		t.Errorf("Start time mismatch: %v", got.StartTime)
	}
}

func TestEventAddGeneratesKey(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))

	added, err := repo.Add(context.Background(), testEvent(""))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added[0].Key == "" {
		t.Error("Expected a generated key")
	}
}

func TestEventAddDuplicateKey(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.Add(ctx, testEvent("e1")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err := repo.Add(ctx, testEvent("e1"))
	var dup *DuplicateValueError
	if !errors.As(err, &dup) || dup.Field != "key" {
		t.Errorf("Expected DuplicateValueError for key, got %v", err)
	}
}

func TestEventAddMissingFields(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()

	e := testEvent("e1")
	e.Title = ""
	_, err := repo.Add(ctx, e)
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "title" {
		t.Errorf("Expected MissingFieldError for title, got %v", err)
	}

	e = testEvent("e2")
	e.StartTime = time.Time{}
	_, err = repo.Add(ctx, e)
	if !errors.As(err, &missing) || missing.Field != "start_time" {
		t.Errorf("Expected MissingFieldError for start_time, got %v", err)
	}
}

func TestEventUpdate(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.Add(ctx, testEvent("e1")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	newStart := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	err := repo.Update(ctx,
		EventFilter{Key: Value("e1")},
		EventChanges{Title: Value("Moved keynote"), StartTime: Value(newStart)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetOne(ctx, EventFilter{Key: Value("e1")})
	if got.Title != "Moved keynote" || !got.StartTime.Equal(newStart) {
		t.Errorf("Update not applied: %+v", got)
	}
}
