package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/repository"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(&entities.User{}, &entities.Token{})
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func testTokenService(t *testing.T) (*TokenService, *repository.UserRepository) {
	t.Helper()

	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	return NewTokenService(repository.NewTokenRepository(db), users), users
}

func TestIssueTokens(t *testing.T) {
	svc, _ := testTokenService(t)
	ctx := context.Background()

	values, err := svc.Issue(ctx, 3)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(values))
	}
	seen := make(map[string]bool)
	for _, v := range values {
		if v == "" {
			t.Error("Issued token must not be empty")
		}
		if seen[v] {
			t.Errorf("Duplicate token issued: %s", v)
		}
		seen[v] = true
	}
}

func TestRedeemPromotesUser(t *testing.T) {
	svc, users := testTokenService(t)
	ctx := context.Background()

	_, err := users.Add(ctx, entities.User{UID: "mod@x.com", SNP: "Mod", Phone: "1"})
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	values, err := svc.Issue(ctx, 1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	user, err := svc.Redeem(ctx, values[0], "mod@x.com", 555)
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if !user.IsAdmin {
		t.Error("Redeemed user must be promoted to moderator")
	}
	if user.TgChatID == nil || *user.TgChatID != 555 {
		t.Errorf("Redeemed user must get the chat id, got %v", user.TgChatID)
	}

	// A consumed token cannot be redeemed again.
	_, err = svc.Redeem(ctx, values[0], "mod@x.com", 555)
	if !errors.Is(err, ErrTokenNotVacant) {
		t.Errorf("Expected ErrTokenNotVacant on reuse, got %v", err)
	}
}

func TestRedeemUnknownToken(t *testing.T) {
	svc, _ := testTokenService(t)

	_, err := svc.Redeem(context.Background(), "no-such-token", "mod@x.com", 555)
	if !errors.Is(err, ErrTokenNotVacant) {
		t.Errorf("Expected ErrTokenNotVacant, got %v", err)
	}
}

func TestRedeemUnknownUserKeepsTokenVacant(t *testing.T) {
	svc, _ := testTokenService(t)
	ctx := context.Background()

	values, err := svc.Issue(ctx, 1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = svc.Redeem(ctx, values[0], "nobody@x.com", 555)
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("Expected ErrUnknownUser, got %v", err)
	}

	// The token survives a failed redemption.
	vacant, err := svc.tokens.GetOne(ctx, repository.TokenFilter{
		Token:  repository.Value(values[0]),
		Vacant: repository.Value(true),
	})
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if vacant == nil {
		t.Error("Token must stay vacant when the user is unknown")
	}
}
