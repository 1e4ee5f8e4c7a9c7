package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "new account", email: "  Carol@Example.com ", password: "secret1"},
		{name: "email taken case-insensitively", email: "ALICE@example.com", password: "secret1", wantErr: ErrValidation},
		{name: "invalid email", email: "carol", password: "secret1", wantErr: ErrValidation},
		{name: "short password", email: "dave@example.com", password: "123", wantErr: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.services.User().Register(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			if user.Email != "carol@example.com" || user.IsAdmin {
				t.Errorf("user = %+v", user)
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "Alice@Example.com", password: "password"},
		{name: "wrong password", email: "alice@example.com", password: "nope", wantErr: ErrUnauthorized},
		{name: "unknown email", email: "zed@example.com", password: "password", wantErr: ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.services.User().Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if user.ID != env.alice.ID {
				t.Errorf("user id = %d, want %d", user.ID, env.alice.ID)
			}
		})
	}
}

func TestUserService_UpdateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := asIdentity(env.alice)

	if _, err := env.services.User().UpdateEmail(ctx, alice, "bob@example.com"); !errors.Is(err, ErrValidation) {
		t.Errorf("taken email error = %v, want %v", err, ErrValidation)
	}

	user, err := env.services.User().UpdateEmail(ctx, alice, "Alice.New@Example.com")
	if err != nil {
		t.Fatalf("UpdateEmail: %v", err)
	}
	if user.Email != "alice.new@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	if _, err := env.services.User().Authenticate(ctx, "alice.new@example.com", "password"); err != nil {
		t.Errorf("password lost after email change: %v", err)
	}

	account, err := env.services.User().GetAccount(ctx, alice)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if account.Email != "alice.new@example.com" {
		t.Errorf("account email = %q", account.Email)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.services.User().ListUsers(ctx, asIdentity(env.alice), repositories.UserFilters{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ListUsers() as user error = %v, want %v", err, ErrUnauthorized)
	}

	users, total, err := env.services.User().ListUsers(ctx, asIdentity(env.admin), repositories.UserFilters{Query: "example", Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 3 || len(users) != 2 {
		t.Errorf("users = %d of %d, want 2 of 3", len(users), total)
	}
}

func TestUserService_SeedDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seeds := []SeedUser{
		{Email: "admin@example.com", Password: "admin123", IsAdmin: true},
		{Email: "teacher@example.com", Password: "teach123", IsAdmin: true},
	}

	for i := 0; i < 2; i++ {
		if err := env.services.User().SeedDefaults(ctx, seeds); err != nil {
			t.Fatalf("SeedDefaults run %d: %v", i+1, err)
		}
	}

	_, total, err := env.services.User().ListUsers(ctx, asIdentity(env.admin), repositories.UserFilters{})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 4 {
		t.Errorf("users = %d, want 4 after idempotent seeding", total)
	}

	teacher, err := env.services.User().Authenticate(ctx, "teacher@example.com", "teach123")
	if err != nil {
		t.Fatalf("Authenticate seeded user: %v", err)
	}
	if !teacher.IsAdmin {
		t.Error("seeded admin flag lost")
	}
}

func TestUserService_ResolveExternal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.services.User().ResolveExternal(ctx, "Eve@Example.com", false)
	if err != nil {
		t.Fatalf("ResolveExternal: %v", err)
	}
	if created.ID == 0 || created.Email != "eve@example.com" {
		t.Fatalf("provisioned user = %+v", created)
	}

	promoted, err := env.services.User().ResolveExternal(ctx, "eve@example.com", true)
	if err != nil {
		t.Fatalf("ResolveExternal again: %v", err)
	}
	if promoted.ID != created.ID || !promoted.IsAdmin {
		t.Errorf("resolved user = %+v, want same id promoted to admin", promoted)
	}
}
