package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
)

const entityRSVP = "rsvp_link"

// ComposeRSVPKey builds the composite primary key of an RSVP link.
func ComposeRSVPKey(uid, key string) string {
	return uid + "_" + key
}

// RSVPFilter selects RSVP links by equality on any subset of columns.
// Acknowledgment supports Null to select links nobody has answered yet.
type RSVPFilter struct {
	UIDKey         Field[string]
	UID            Field[string]
	Key            Field[string]
	Role           Field[string]
	Acknowledgment Field[string]
}

func (f RSVPFilter) Clauses() []Clause {
	var cs []Clause
	cs = appendClause(cs, f.UIDKey, "uid_key")
	cs = appendClause(cs, f.UID, "uid")
	cs = appendClause(cs, f.Key, "key")
	cs = appendClause(cs, f.Role, "role")
	cs = appendClause(cs, f.Acknowledgment, "acknowledgment")
	return cs
}

// RSVPChanges carries the new values for an Update. Changing UID or Key
// recomputes the composite key. Acknowledgment supports Null to clear a
// previous answer.
type RSVPChanges struct {
	UID            Field[string]
	Key            Field[string]
	Role           Field[string]
	Acknowledgment Field[string]
}

type RSVPRepository struct {
	db *gorm.DB
}

func NewRSVPRepository(db *gorm.DB) *RSVPRepository {
	return &RSVPRepository{db: db}
}

func (r *RSVPRepository) GetAll(ctx context.Context, f RSVPFilter) ([]entities.RSVPLink, error) {
	return getAll[entities.RSVPLink](ctx, r.db, f)
}

func (r *RSVPRepository) GetOne(ctx context.Context, f RSVPFilter) (*entities.RSVPLink, error) {
	return getOne[entities.RSVPLink](ctx, r.db, f)
}

// Add validates and persists RSVP links in input order. Every referenced
// user, event and role must already exist; the composite uid_key must be
// unique against a snapshot taken before the batch.
func (r *RSVPRepository) Add(ctx context.Context, links ...entities.RSVPLink) ([]entities.RSVPLink, error) {
	composites, err := columnSet[string](ctx, r.db, &entities.RSVPLink{}, "uid_key")
	if err != nil {
		return nil, err
	}
	userUIDs, err := columnSet[string](ctx, r.db, &entities.User{}, "uid")
	if err != nil {
		return nil, err
	}
	eventKeys, err := columnSet[string](ctx, r.db, &entities.Event{}, "key")
	if err != nil {
		return nil, err
	}
	roleValues, err := columnSet[string](ctx, r.db, &entities.Role{}, "value")
	if err != nil {
		return nil, err
	}

	added := make([]entities.RSVPLink, 0, len(links))
	for _, l := range links {
		if l.UID == "" {
			return added, &MissingFieldError{Entity: entityRSVP, Field: "uid"}
		}
		if _, ok := userUIDs[l.UID]; !ok {
			return added, &DanglingReferenceError{Entity: entityRSVP, Field: "uid", Value: l.UID}
		}
		if l.Key == "" {
			return added, &MissingFieldError{Entity: entityRSVP, Field: "key"}
		}
		if _, ok := eventKeys[l.Key]; !ok {
			return added, &DanglingReferenceError{Entity: entityRSVP, Field: "key", Value: l.Key}
		}
		if l.Role == "" {
			return added, &MissingFieldError{Entity: entityRSVP, Field: "role"}
		}
		if _, ok := roleValues[l.Role]; !ok {
			return added, &DanglingReferenceError{Entity: entityRSVP, Field: "role", Value: l.Role}
		}

		l.UIDKey = ComposeRSVPKey(l.UID, l.Key)
		if _, dup := composites[l.UIDKey]; dup {
			return added, &DuplicateValueError{Entity: entityRSVP, Field: "uid_key", Value: l.UIDKey}
		}

		if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
			return added, fmt.Errorf("failed to persist rsvp link: %w", err)
		}
		composites[l.UIDKey] = struct{}{}
		added = append(added, l)
	}
	return added, nil
}

// Update applies changes to every match. An empty filter is a no-op.
// Dangling references in the new values are returned as errors; a
// recomputed composite key colliding with an existing link is skipped and
// logged.
func (r *RSVPRepository) Update(ctx context.Context, f RSVPFilter, ch RSVPChanges) error {
	tx, n := applyFilter(r.db.WithContext(ctx).Model(&entities.RSVPLink{}), f)
	if n == 0 {
		return nil
	}
	var matched []entities.RSVPLink
	if err := tx.Find(&matched).Error; err != nil {
		return fmt.Errorf("failed to select rsvp links for update: %w", err)
	}

	composites, err := columnSet[string](ctx, r.db, &entities.RSVPLink{}, "uid_key")
	if err != nil {
		return err
	}
	userUIDs, err := columnSet[string](ctx, r.db, &entities.User{}, "uid")
	if err != nil {
		return err
	}
	eventKeys, err := columnSet[string](ctx, r.db, &entities.Event{}, "key")
	if err != nil {
		return err
	}
	roleValues, err := columnSet[string](ctx, r.db, &entities.Role{}, "value")
	if err != nil {
		return err
	}

	for _, l := range matched {
		updates := map[string]any{}

		uid := l.UID
		key := l.Key
		if v, ok := ch.UID.Get(); ok {
			if _, exists := userUIDs[v]; !exists {
				return &DanglingReferenceError{Entity: entityRSVP, Field: "uid", Value: v}
			}
			uid = v
		}
		if v, ok := ch.Key.Get(); ok {
			if _, exists := eventKeys[v]; !exists {
				return &DanglingReferenceError{Entity: entityRSVP, Field: "key", Value: v}
			}
			key = v
		}
		if uid != l.UID || key != l.Key {
			composite := ComposeRSVPKey(uid, key)
			if _, dup := composites[composite]; dup {
				logging.Warn("skipping rsvp link update, composite key already exists", "uid_key", composite)
			} else {
				delete(composites, l.UIDKey)
				composites[composite] = struct{}{}
				updates["uid"] = uid
				updates["key"] = key
				updates["uid_key"] = composite
			}
		}
		if v, ok := ch.Role.Get(); ok {
			if _, exists := roleValues[v]; !exists {
				return &DanglingReferenceError{Entity: entityRSVP, Field: "role", Value: v}
			}
			updates["role"] = v
		}
		if ch.Acknowledgment.IsNull() {
			updates["acknowledgment"] = nil
		} else if v, ok := ch.Acknowledgment.Get(); ok {
			updates["acknowledgment"] = v
		}

		if len(updates) == 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Model(&entities.RSVPLink{}).
			Where("uid_key = ?", l.UIDKey).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update rsvp link %s: %w", l.UIDKey, err)
		}
	}
	return nil
}

// Delete removes every match; deleting a user does not cascade here, the
// caller cleans up dependent links explicitly.
func (r *RSVPRepository) Delete(ctx context.Context, f RSVPFilter) error {
	return deleteAll[entities.RSVPLink](ctx, r.db, f)
}
