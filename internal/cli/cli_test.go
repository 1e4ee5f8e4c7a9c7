package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/pkg"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate", "seed"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil {
				t.Fatalf("find %s: %v", name, err)
			}
			if cmd.Name() != name {
				t.Errorf("found %q, want %q", cmd.Name(), name)
			}
		})
	}

	for _, flag := range []string{"config", "port"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestMigrateThenSeed(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "quiz.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("AUTH_MODE", "basic")
	configPath := filepath.Join(t.TempDir(), "missing.yaml")

	if err := runMigrations(configPath); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// seeding is idempotent
	for i := 0; i < 2; i++ {
		if err := runSeed(context.Background(), configPath); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	db, err := pkg.OpenDatabase("sqlite", dsn, true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var users []models.User
	if err := db.Order("email").Find(&users).Error; err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].Email != "admin@example.com" || !users[0].IsAdmin {
		t.Errorf("first user = %s admin=%v", users[0].Email, users[0].IsAdmin)
	}
	if users[1].IsAdmin {
		t.Errorf("%s should not be admin", users[1].Email)
	}
}
