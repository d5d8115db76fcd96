package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
)

const entityRole = "role"

// RoleFilter selects roles by value.
type RoleFilter struct {
	Value Field[string]
}

func (f RoleFilter) Clauses() []Clause {
	return appendClause(nil, f.Value, "value")
}

type RoleChanges struct {
	Value Field[string]
}

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAll(ctx context.Context, f RoleFilter) ([]entities.Role, error) {
	return getAll[entities.Role](ctx, r.db, f)
}

func (r *RoleRepository) GetOne(ctx context.Context, f RoleFilter) (*entities.Role, error) {
	return getOne[entities.Role](ctx, r.db, f)
}

func (r *RoleRepository) Add(ctx context.Context, roles ...entities.Role) ([]entities.Role, error) {
	values, err := columnSet[string](ctx, r.db, &entities.Role{}, "value")
	if err != nil {
		return nil, err
	}

	added := make([]entities.Role, 0, len(roles))
	for _, role := range roles {
		if role.Value == "" {
			return added, &MissingFieldError{Entity: entityRole, Field: "value"}
		}
		if _, dup := values[role.Value]; dup {
			return added, &DuplicateValueError{Entity: entityRole, Field: "value", Value: role.Value}
		}

		if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
			return added, fmt.Errorf("failed to persist role: %w", err)
		}
		values[role.Value] = struct{}{}
		added = append(added, role)
	}
	return added, nil
}

func (r *RoleRepository) Update(ctx context.Context, f RoleFilter, ch RoleChanges) error {
	tx, n := applyFilter(r.db.WithContext(ctx).Model(&entities.Role{}), f)
	if n == 0 {
		return nil
	}
	var matched []entities.Role
	if err := tx.Find(&matched).Error; err != nil {
		return fmt.Errorf("failed to select roles for update: %w", err)
	}

	values, err := columnSet[string](ctx, r.db, &entities.Role{}, "value")
	if err != nil {
		return err
	}

	for _, role := range matched {
		v, ok := ch.Value.Get()
		if !ok {
			continue
		}
		if _, dup := values[v]; dup {
			logging.Warn("skipping role value update, value already exists", "value", v)
			continue
		}
		delete(values, role.Value)
		values[v] = struct{}{}
		if err := r.db.WithContext(ctx).Model(&entities.Role{}).
			Where("value = ?", role.Value).Update("value", v).Error; err != nil {
			return fmt.Errorf("failed to update role %s: %w", role.Value, err)
		}
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, f RoleFilter) error {
	return deleteAll[entities.Role](ctx, r.db, f)
}
