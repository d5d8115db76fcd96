package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"colloquium/backstage/internal/constants"
	"colloquium/backstage/internal/models/entities"
)

func seedRSVPFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := NewUserRepository(db).Add(ctx,
		entities.User{UID: "a@x.com", SNP: "A", Phone: "1"},
		entities.User{UID: "b@x.com", SNP: "B", Phone: "2"},
	)
	if err != nil {
		t.Fatalf("Failed to seed users: %v", err)
	}
	if _, err := NewEventRepository(db).Add(ctx, testEvent("e1")); err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	_, err = NewRoleRepository(db).Add(ctx,
		entities.Role{Value: constants.RoleGuest},
		entities.Role{Value: constants.RoleSpeaker},
	)
	if err != nil {
		t.Fatalf("Failed to seed roles: %v", err)
	}
}

func TestRSVPAddComposesKey(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	added, err := repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleGuest})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added[0].UIDKey != "a@x.com_e1" {
		t.Errorf("Unexpected composite key: %q", added[0].UIDKey)
	}
	if added[0].Acknowledgment != nil {
		t.Error("Acknowledgment must start out null")
	}
}

func TestRSVPAddDanglingReferences(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	var dangling *DanglingReferenceError

	_, err := repo.Add(ctx, entities.RSVPLink{UID: "ghost@x.com", Key: "e1", Role: constants.RoleGuest})
	if !errors.As(err, &dangling) || dangling.Field != "uid" {
		t.Errorf("Expected DanglingReferenceError for uid, got %v", err)
	}

	_, err = repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "ghost", Role: constants.RoleGuest})
	if !errors.As(err, &dangling) || dangling.Field != "key" {
		t.Errorf("Expected DanglingReferenceError for key, got %v", err)
	}

	_, err = repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: "9"})
	if !errors.As(err, &dangling) || dangling.Field != "role" {
		t.Errorf("Expected DanglingReferenceError for role, got %v", err)
	}
}

func TestRSVPAddDuplicateComposite(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	if _, err := repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleGuest}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err := repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleSpeaker})
	var dup *DuplicateValueError
	if !errors.As(err, &dup) || dup.Field != "uid_key" {
		t.Errorf("Expected DuplicateValueError for uid_key, got %v", err)
	}
}

func TestRSVPUpdateAcknowledgment(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	if _, err := repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleGuest}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	err := repo.Update(ctx,
		RSVPFilter{UID: Value("a@x.com"), Key: Value("e1")},
		RSVPChanges{Acknowledgment: Value("attending")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetOne(ctx, RSVPFilter{UIDKey: Value("a@x.com_e1")})
	if got.Acknowledgment == nil || *got.Acknowledgment != "attending" {
		t.Errorf("Acknowledgment not stored: %+v", got)
	}

	// Clearing resets a previous answer.
	err = repo.Update(ctx,
		RSVPFilter{UIDKey: Value("a@x.com_e1")},
		RSVPChanges{Acknowledgment: Null[string]()})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ = repo.GetOne(ctx, RSVPFilter{UIDKey: Value("a@x.com_e1")})
	if got.Acknowledgment != nil {
		t.Error("Acknowledgment must be cleared")
	}
}

func TestRSVPUpdateRecomputesComposite(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	if _, err := repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleGuest}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	err := repo.Update(ctx,
		RSVPFilter{UIDKey: Value("a@x.com_e1")},
		RSVPChanges{UID: Value("b@x.com")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetOne(ctx, RSVPFilter{UIDKey: Value("b@x.com_e1")})
	if got == nil || got.UID != "b@x.com" {
		t.Errorf("Composite key not recomputed: %+v", got)
	}
}

func TestRSVPUpdateDanglingReference(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	if _, err := repo.Add(ctx, entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleGuest}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	err := repo.Update(ctx,
		RSVPFilter{UIDKey: Value("a@x.com_e1")},
		RSVPChanges{UID: Value("ghost@x.com")})
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) || dangling.Field != "uid" {
		t.Errorf("Expected DanglingReferenceError for uid, got %v", err)
	}
}

func TestRSVPFilterUnansweredLinks(t *testing.T) {
	db := setupTestDB(t)
	seedRSVPFixtures(t, db)
	repo := NewRSVPRepository(db)
	ctx := context.Background()

	_, err := repo.Add(ctx,
		entities.RSVPLink{UID: "a@x.com", Key: "e1", Role: constants.RoleGuest},
		entities.RSVPLink{UID: "b@x.com", Key: "e1", Role: constants.RoleSpeaker},
	)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err = repo.Update(ctx,
		RSVPFilter{UIDKey: Value("a@x.com_e1")},
		RSVPChanges{Acknowledgment: Value("attending")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	unanswered, err := repo.GetAll(ctx, RSVPFilter{
		Key:            Value("e1"),
		Acknowledgment: Null[string](),
	})
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(unanswered) != 1 || unanswered[0].UID != "b@x.com" {
		t.Errorf("Expected only the unanswered link, got %+v", unanswered)
	}
}
