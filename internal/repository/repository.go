// Package repository implements filter-driven CRUD over the five
// conference entities. Queries are expressed as tri-state filters (see
// filter.go); uniqueness and referential integrity are validated in this
// layer against point-in-time snapshots of stored values, so explicit
// NULLs stay exempt from unique constraints. The snapshot check is
// advisory: it is safe for a single writer but two concurrent Adds of the
// same unique value can both pass validation.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

func getAll[R any](ctx context.Context, db *gorm.DB, f Filter) ([]R, error) {
	records := make([]R, 0)
	tx, _ := applyFilter(db.WithContext(ctx).Model(new(R)), f)
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func getOne[R any](ctx context.Context, db *gorm.DB, f Filter) (*R, error) {
	records, err := getAll[R](ctx, db, f)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// deleteAll removes every match. An empty filter wipes the table, which
// the import flow relies on; deleting zero rows is not an error.
func deleteAll[R any](ctx context.Context, db *gorm.DB, f Filter) error {
	tx, n := applyFilter(db.WithContext(ctx), f)
	if n == 0 {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	if err := tx.Delete(new(R)).Error; err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

// columnSet snapshots the distinct stored values of one column.
func columnSet[T comparable](ctx context.Context, db *gorm.DB, model any, column string) (map[T]struct{}, error) {
	var values []T
	if err := db.WithContext(ctx).Model(model).Distinct().Pluck(column, &values).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot %s values: %w", column, err)
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set, nil
}

// nullableColumnSet is columnSet for nullable columns; NULLs are left out
// of the snapshot so they never collide with each other.
func nullableColumnSet[T comparable](ctx context.Context, db *gorm.DB, model any, column string) (map[T]struct{}, error) {
	var values []*T
	if err := db.WithContext(ctx).Model(model).Distinct().Pluck(column, &values).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot %s values: %w", column, err)
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		if v != nil {
			set[*v] = struct{}{}
		}
	}
	return set, nil
}
