package service

import (
	"errors"
	"testing"

	"github.com/focuslog/internal/db"
)

func TestUserRegisterAndAuthenticate(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(db.DB)

	user, err := svc.Register("Alice@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected email to be normalized, got %q", user.Email)
	}
	if user.Password == "s3cret" {
		t.Fatal("expected password to be hashed")
	}
	if !user.IsActive {
		t.Fatal("expected new user to be active")
	}
	if user.Points != 0 {
		t.Fatalf("expected 0 points, got %d", user.Points)
	}

	authed, err := svc.Authenticate("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, authed.ID)
	}
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(db.DB)

	if _, err := svc.Register("alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Register("ALICE@example.com", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserAuthenticateFailures(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(db.DB)

	user, err := svc.Register("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := svc.Authenticate("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if err := db.DB.Model(&db.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}
	if _, err := svc.Authenticate("alice@example.com", "s3cret"); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}
