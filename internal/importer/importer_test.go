package importer

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"colloquium/backstage/internal/constants"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/repository"
)

const membersCSV = `email,name,phone,is_admin
mod@x.com,Maria Moderator,+100,true
s@x.com,Sasha Speaker,+200,false
g@x.com,Galya Guest,+300,false
`

const eventsCSV = `title,speakers,start,end,venue,description
Opening keynote,s@x.com,2026-09-01 14:00:00,2026-09-01 15:00:00,Hall A,Main building
Workshop,s@x.com;mod@x.com,2026-09-01 16:00:00,2026-09-01 18:00:00,Room 2,Second floor
`

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Event{},
		&entities.Role{},
		&entities.RSVPLink{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func testImporter(t *testing.T) *Importer {
	t.Helper()

	db := setupTestDB(t)
	return NewImporter(
		repository.NewUserRepository(db),
		repository.NewEventRepository(db),
		repository.NewRoleRepository(db),
		repository.NewRSVPRepository(db),
	)
}

func TestImportSchedule(t *testing.T) {
	imp := testImporter(t)
	ctx := context.Background()

	err := imp.ImportSchedule(ctx, strings.NewReader(membersCSV), strings.NewReader(eventsCSV))
	if err != nil {
		t.Fatalf("ImportSchedule failed: %v", err)
	}

	users, err := imp.users.GetAll(ctx, repository.UserFilter{})
	if err != nil {
		t.Fatalf("GetAll users failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(users))
	}

	mod, err := imp.users.GetOne(ctx, repository.UserFilter{UID: repository.Value("mod@x.com")})
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if mod == nil || !mod.IsAdmin {
		t.Error("is_admin column must carry over")
	}

	events, err := imp.events.GetAll(ctx, repository.EventFilter{})
	if err != nil {
		t.Fatalf("GetAll events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	for _, e := range events {
		if e.Key == "" {
			t.Error("Imported event must get a generated key")
		}
	}

	links, err := imp.rsvps.GetAll(ctx, repository.RSVPFilter{
		Role: repository.Value(constants.RoleSpeaker),
	})
	if err != nil {
		t.Fatalf("GetAll rsvp links failed: %v", err)
	}
	// One speaker on the keynote, two on the workshop.
	if len(links) != 3 {
		t.Fatalf("Expected 3 speaker links, got %d", len(links))
	}

	roles, err := imp.roles.GetAll(ctx, repository.RoleFilter{})
	if err != nil {
		t.Fatalf("GetAll roles failed: %v", err)
	}
	if len(roles) != 2 {
		t.Errorf("Expected guest and speaker roles seeded, got %d", len(roles))
	}
}

func TestImportScheduleWipesPreviousData(t *testing.T) {
	imp := testImporter(t)
	ctx := context.Background()

	_, err := imp.users.Add(ctx, entities.User{UID: "old@x.com", SNP: "Old", Phone: "+999"})
	if err != nil {
		t.Fatalf("Failed to seed stale user: %v", err)
	}

	err = imp.ImportSchedule(ctx, strings.NewReader(membersCSV), strings.NewReader(eventsCSV))
	if err != nil {
		t.Fatalf("ImportSchedule failed: %v", err)
	}

	stale, err := imp.users.GetOne(ctx, repository.UserFilter{UID: repository.Value("old@x.com")})
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if stale != nil {
		t.Error("Import must wipe previously stored users")
	}
}

func TestImportScheduleBadTime(t *testing.T) {
	imp := testImporter(t)

	bad := `title,speakers,start,end,venue,description
Opening keynote,s@x.com,not-a-time,2026-09-01 15:00:00,Hall A,Main building
`
	err := imp.ImportSchedule(context.Background(),
		strings.NewReader(membersCSV), strings.NewReader(bad))
	if err == nil {
		t.Fatal("Expected error for a malformed start time")
	}
}

func TestImportScheduleUnknownSpeaker(t *testing.T) {
	imp := testImporter(t)

	orphan := `title,speakers,start,end,venue,description
Opening keynote,ghost@x.com,2026-09-01 14:00:00,2026-09-01 15:00:00,Hall A,Main building
`
	err := imp.ImportSchedule(context.Background(),
		strings.NewReader(membersCSV), strings.NewReader(orphan))
	if err == nil {
		t.Fatal("Expected error for a speaker missing from the members file")
	}
}

func TestParseMembersSkipsTrailingBlankRows(t *testing.T) {
	rows, err := parseMembers(strings.NewReader("email,name,phone,is_admin\na@x.com,A,+1,false\n,,,\n"))
	if err != nil {
		t.Fatalf("parseMembers failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected 1 member row, got %d", len(rows))
	}
}

func TestParseEventsSpeakerList(t *testing.T) {
	rows, err := parseEvents(strings.NewReader(eventsCSV))
	if err != nil {
		t.Fatalf("parseEvents failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 event rows, got %d", len(rows))
	}
	if len(rows[1].Speakers) != 2 {
		t.Errorf("Expected 2 speakers on the workshop, got %v", rows[1].Speakers)
	}
}
