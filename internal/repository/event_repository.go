package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
)

const entityEvent = "event"

// EventFilter selects events by equality on any subset of columns.
type EventFilter struct {
	Key              Field[string]
	Title            Field[string]
	StartTime        Field[time.Time]
	EndTime          Field[time.Time]
	Venue            Field[string]
	VenueDescription Field[string]
}

func (f EventFilter) Clauses() []Clause {
	var cs []Clause
	cs = appendClause(cs, f.Key, "key")
	cs = appendClause(cs, f.Title, "title")
	cs = appendClause(cs, f.StartTime, "start_time")
	cs = appendClause(cs, f.EndTime, "end_time")
	cs = appendClause(cs, f.Venue, "venue")
	cs = appendClause(cs, f.VenueDescription, "venue_description")
	return cs
}

// EventChanges carries the new values for an Update.
type EventChanges struct {
	Key              Field[string]
	Title            Field[string]
	StartTime        Field[time.Time]
	EndTime          Field[time.Time]
	Venue            Field[string]
	VenueDescription Field[string]
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetAll(ctx context.Context, f EventFilter) ([]entities.Event, error) {
	return getAll[entities.Event](ctx, r.db, f)
}

func (r *EventRepository) GetOne(ctx context.Context, f EventFilter) (*entities.Event, error) {
	return getOne[entities.Event](ctx, r.db, f)
}

// Add validates and persists events in input order, generating a key for
// records that omit one.
func (r *EventRepository) Add(ctx context.Context, events ...entities.Event) ([]entities.Event, error) {
	keys, err := columnSet[string](ctx, r.db, &entities.Event{}, "key")
	if err != nil {
		return nil, err
	}

	added := make([]entities.Event, 0, len(events))
	for _, e := range events {
		if e.Key == "" {
			e.Key = uuid.NewString()
		} else if _, dup := keys[e.Key]; dup {
			return added, &DuplicateValueError{Entity: entityEvent, Field: "key", Value: e.Key}
		}
		if e.Title == "" {
			return added, &MissingFieldError{Entity: entityEvent, Field: "title"}
		}
		if e.StartTime.IsZero() {
			return added, &MissingFieldError{Entity: entityEvent, Field: "start_time"}
		}
		if e.EndTime.IsZero() {
			return added, &MissingFieldError{Entity: entityEvent, Field: "end_time"}
		}
		if e.Venue == "" {
			return added, &MissingFieldError{Entity: entityEvent, Field: "venue"}
		}
		if e.VenueDescription == "" {
			return added, &MissingFieldError{Entity: entityEvent, Field: "venue_description"}
		}

		if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
			return added, fmt.Errorf("failed to persist event: %w", err)
		}
		keys[e.Key] = struct{}{}
		added = append(added, e)
	}
	return added, nil
}

// Update applies changes to every match. An empty filter is a no-op; a
// key change colliding with an existing key is skipped and logged.
func (r *EventRepository) Update(ctx context.Context, f EventFilter, ch EventChanges) error {
	tx, n := applyFilter(r.db.WithContext(ctx).Model(&entities.Event{}), f)
	if n == 0 {
		return nil
	}
	var matched []entities.Event
	if err := tx.Find(&matched).Error; err != nil {
		return fmt.Errorf("failed to select events for update: %w", err)
	}

	keys, err := columnSet[string](ctx, r.db, &entities.Event{}, "key")
	if err != nil {
		return err
	}

	for _, e := range matched {
		updates := map[string]any{}

		if v, ok := ch.Key.Get(); ok {
			if _, dup := keys[v]; dup {
				logging.Warn("skipping event key update, value already exists", "key", v)
			} else {
				delete(keys, e.Key)
				keys[v] = struct{}{}
				updates["key"] = v
			}
		}
		if v, ok := ch.Title.Get(); ok {
			updates["title"] = v
		}
		if v, ok := ch.StartTime.Get(); ok {
			updates["start_time"] = v
		}
		if v, ok := ch.EndTime.Get(); ok {
			updates["end_time"] = v
		}
		if v, ok := ch.Venue.Get(); ok {
			updates["venue"] = v
		}
		if v, ok := ch.VenueDescription.Get(); ok {
			updates["venue_description"] = v
		}

		if len(updates) == 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Model(&entities.Event{}).
			Where("key = ?", e.Key).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update event %s: %w", e.Key, err)
		}
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, f EventFilter) error {
	return deleteAll[entities.Event](ctx, r.db, f)
}
