package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-admin-service/internal/testutil"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

func TestExportService_ExportScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t, "Geography", env.alice.ID, env.bob.ID)
	graded := env.submit(t, env.alice, quiz, nil)
	env.submit(t, env.bob, quiz, nil)

	if _, err := env.services.Grading().Grade(ctx, asIdentity(env.admin), graded.ID, map[uint]string{quiz.Questions[1].ID: "2"}); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if _, err := env.services.Export().ExportScores(ctx, asIdentity(env.alice)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ExportScores() as user error = %v, want %v", err, ErrUnauthorized)
	}

	buf, err := env.services.Export().ExportScores(ctx, asIdentity(env.admin))
	if err != nil {
		t.Fatalf("ExportScores: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(scoresSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header and one graded submission", len(rows))
	}
	if rows[0][0] != "Submission ID" {
		t.Errorf("header = %v", rows[0])
	}

	want := []string{"alice@example.com", "Geography", "2", "3"}
	for i, cell := range want {
		if got := rows[1][i+1]; got != cell {
			t.Errorf("column %d = %q, want %q", i+2, got, cell)
		}
	}
}

func TestServiceManager_ExportSwitch(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
	}{
		{"enabled", true},
		{"disabled", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: testutil.NewTestDB(t)})

			cfg := DefaultServiceManagerConfig()
			cfg.ExportEnabled = tt.enabled
			sm := NewServiceManager(repo, events.NewMockEventPublisher(logger), logger, validator.New(), cfg)
			if err := sm.Initialize(context.Background()); err != nil {
				t.Fatalf("Initialize: %v", err)
			}

			if got := sm.Export() != nil; got != tt.enabled {
				t.Errorf("Export() present = %v, want %v", got, tt.enabled)
			}
		})
	}
}
