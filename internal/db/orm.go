package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"colloquium/backstage/internal/models/entities"
)

// InitPostgresORM opens the primary GORM connection and creates the
// entity tables. Uniqueness of unique fields is enforced by the
// repository layer, not by database constraints, so explicit NULLs stay
// exempt and multi-row update conflicts can be skipped per row.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the entity tables.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&entities.User{},
		&entities.Event{},
		&entities.Role{},
		&entities.RSVPLink{},
		&entities.Token{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
