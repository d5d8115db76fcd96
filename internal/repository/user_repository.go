package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
)

const entityUser = "user"

// UserFilter selects users by equality on any subset of columns.
type UserFilter struct {
	UID      Field[string]
	SNP      Field[string]
	Phone    Field[string]
	IsAdmin  Field[bool]
	TgChatID Field[int64]
}

func (f UserFilter) Clauses() []Clause {
	var cs []Clause
	cs = appendClause(cs, f.UID, "uid")
	cs = appendClause(cs, f.SNP, "snp")
	cs = appendClause(cs, f.Phone, "phone")
	cs = appendClause(cs, f.IsAdmin, "is_admin")
	cs = appendClause(cs, f.TgChatID, "tg_chat_id")
	return cs
}

// UserChanges carries the new values for an Update. Unset fields are left
// alone; TgChatID additionally supports Null to detach a chat.
type UserChanges struct {
	UID      Field[string]
	SNP      Field[string]
	Phone    Field[string]
	IsAdmin  Field[bool]
	TgChatID Field[int64]
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetAll returns every user matching the filter, never nil.
func (r *UserRepository) GetAll(ctx context.Context, f UserFilter) ([]entities.User, error) {
	return getAll[entities.User](ctx, r.db, f)
}

// GetOne returns the first match or nil when nothing matches.
func (r *UserRepository) GetOne(ctx context.Context, f UserFilter) (*entities.User, error) {
	return getOne[entities.User](ctx, r.db, f)
}

// Add validates and persists users in input order. Uniqueness of uid,
// phone and non-null tg_chat_id is checked against a snapshot taken before
// the batch; each persisted record extends the snapshot so later items in
// the same batch see it.
func (r *UserRepository) Add(ctx context.Context, users ...entities.User) ([]entities.User, error) {
	uids, err := columnSet[string](ctx, r.db, &entities.User{}, "uid")
	if err != nil {
		return nil, err
	}
	phones, err := columnSet[string](ctx, r.db, &entities.User{}, "phone")
	if err != nil {
		return nil, err
	}
	chatIDs, err := nullableColumnSet[int64](ctx, r.db, &entities.User{}, "tg_chat_id")
	if err != nil {
		return nil, err
	}

	added := make([]entities.User, 0, len(users))
	for _, u := range users {
		if u.UID == "" {
			u.UID = uuid.NewString()
		} else if _, dup := uids[u.UID]; dup {
			return added, &DuplicateValueError{Entity: entityUser, Field: "uid", Value: u.UID}
		}
		if u.SNP == "" {
			return added, &MissingFieldError{Entity: entityUser, Field: "snp"}
		}
		if u.Phone == "" {
			return added, &MissingFieldError{Entity: entityUser, Field: "phone"}
		}
		if _, dup := phones[u.Phone]; dup {
			return added, &DuplicateValueError{Entity: entityUser, Field: "phone", Value: u.Phone}
		}
		if u.TgChatID != nil {
			if _, dup := chatIDs[*u.TgChatID]; dup {
				return added, &DuplicateValueError{Entity: entityUser, Field: "tg_chat_id", Value: *u.TgChatID}
			}
		}

		if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
			return added, fmt.Errorf("failed to persist user: %w", err)
		}
		uids[u.UID] = struct{}{}
		phones[u.Phone] = struct{}{}
		if u.TgChatID != nil {
			chatIDs[*u.TgChatID] = struct{}{}
		}
		added = append(added, u)
	}
	return added, nil
}

// Update applies changes to every match. An empty filter is a no-op. Rows
// whose new unique value collides with the snapshot are left unchanged;
// the conflict is logged, not returned.
func (r *UserRepository) Update(ctx context.Context, f UserFilter, ch UserChanges) error {
	tx, n := applyFilter(r.db.WithContext(ctx).Model(&entities.User{}), f)
	if n == 0 {
		return nil
	}
	var matched []entities.User
	if err := tx.Find(&matched).Error; err != nil {
		return fmt.Errorf("failed to select users for update: %w", err)
	}

	uids, err := columnSet[string](ctx, r.db, &entities.User{}, "uid")
	if err != nil {
		return err
	}
	phones, err := columnSet[string](ctx, r.db, &entities.User{}, "phone")
	if err != nil {
		return err
	}
	chatIDs, err := nullableColumnSet[int64](ctx, r.db, &entities.User{}, "tg_chat_id")
	if err != nil {
		return err
	}

	for _, u := range matched {
		updates := map[string]any{}

		if v, ok := ch.UID.Get(); ok {
			if _, dup := uids[v]; dup {
				logging.Warn("skipping user uid update, value already exists", "uid", v)
			} else {
				delete(uids, u.UID)
				uids[v] = struct{}{}
				updates["uid"] = v
			}
		}
		if v, ok := ch.SNP.Get(); ok {
			updates["snp"] = v
		}
		if v, ok := ch.Phone.Get(); ok {
			if _, dup := phones[v]; dup {
				logging.Warn("skipping user phone update, value already exists", "phone", v)
			} else {
				delete(phones, u.Phone)
				phones[v] = struct{}{}
				updates["phone"] = v
			}
		}
		if v, ok := ch.IsAdmin.Get(); ok {
			updates["is_admin"] = v
		}
		if ch.TgChatID.IsNull() {
			if u.TgChatID != nil {
				delete(chatIDs, *u.TgChatID)
			}
			updates["tg_chat_id"] = nil
		} else if v, ok := ch.TgChatID.Get(); ok {
			if _, dup := chatIDs[v]; dup {
				logging.Warn("skipping user tg_chat_id update, value already exists", "tg_chat_id", v)
			} else {
				if u.TgChatID != nil {
					delete(chatIDs, *u.TgChatID)
				}
				chatIDs[v] = struct{}{}
				updates["tg_chat_id"] = v
			}
		}

		if len(updates) == 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Model(&entities.User{}).
			Where("uid = ?", u.UID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update user %s: %w", u.UID, err)
		}
	}
	return nil
}

// Delete removes every match; zero matches is not an error.
func (r *UserRepository) Delete(ctx context.Context, f UserFilter) error {
	return deleteAll[entities.User](ctx, r.db, f)
}
