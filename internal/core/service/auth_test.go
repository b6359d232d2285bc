package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trinv/stockroom/internal/core/domain"
)

func newAuthFixture() (*AuthService, *mockUserRepo) {
	users := newMockUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour, testLogger())
	return auth, users
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture()

	user, err := auth.Register(context.Background(), "Alice", "Alice@Example.com", "s3cret!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected default role user, got %q", user.Role)
	}
	if user.PasswordHash == "s3cret!" {
		t.Error("password must not be stored in plain text")
	}

	token, loggedIn, err := auth.Login(context.Background(), "ALICE@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected logged in user %s, got %s", user.ID, loggedIn.ID)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("expected subject %s, got %s", user.ID, claims.Subject)
	}
	if claims.Role != string(domain.RoleUser) {
		t.Errorf("expected role claim user, got %q", claims.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, _ := newAuthFixture()
	if _, err := auth.Register(context.Background(), "Alice", "alice@example.com", "s3cret!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := auth.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	auth, _ := newAuthFixture()
	if _, _, err := auth.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	auth, _ := newAuthFixture()

	if _, err := auth.Register(context.Background(), "", "a@b.com", "s3cret!"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("empty name: expected ErrInvalidArgument, got: %v", err)
	}
	if _, err := auth.Register(context.Background(), "Alice", "a@b.com", "short"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("short password: expected ErrInvalidArgument, got: %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	auth, _ := newAuthFixture()
	if _, err := auth.ValidateToken("not-a-token"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	auth, users := newAuthFixture()
	user, err := auth.Register(context.Background(), "Alice", "alice@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := auth.Login(context.Background(), user.Email, "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewAuthService(users, "different-secret", time.Hour, testLogger())
	if _, err := other.ValidateToken(token); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign signature, got: %v", err)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	auth, users := newAuthFixture()
	user, err := auth.Register(context.Background(), "Alice", "alice@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	svc := NewUserService(users, testLogger())
	updated, err := svc.UpdateRole(context.Background(), user.ID, domain.RoleManager)
	if err != nil {
		t.Fatalf("update role failed: %v", err)
	}
	if updated.Role != domain.RoleManager {
		t.Errorf("expected role manager, got %q", updated.Role)
	}

	if _, err := svc.UpdateRole(context.Background(), user.ID, domain.Role("superuser")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown role, got: %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), "missing", domain.RoleAdmin); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}
