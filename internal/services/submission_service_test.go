package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/testutil"
)

// racingRepository makes a competing submit land between the existence
// check and the insert.
type racingRepository struct {
	repositories.Repository
	race bool
}

func (r *racingRepository) Submission() repositories.SubmissionRepository {
	return &racingSubmissions{SubmissionRepository: r.Repository.Submission(), race: r.race}
}

type racingSubmissions struct {
	repositories.SubmissionRepository
	race bool
}

func (s *racingSubmissions) ExistsForUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uint) (bool, error) {
	if s.race {
		if err := s.SubmissionRepository.Create(ctx, tx, &models.Submission{UserID: userID, QuizID: quizID}); err != nil {
			return false, err
		}
	}
	return false, nil
}

func TestSubmissionService_Submit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t, "Geography", env.alice.ID)
	q1, q2 := quiz.Questions[0].ID, quiz.Questions[1].ID

	sub := env.submit(t, env.alice, quiz, map[uint]string{q1: "a", 9999: "foreign"})

	if sub.Marked || sub.Score != nil {
		t.Errorf("new submission marked=%v score=%v, want unmarked with no score", sub.Marked, sub.Score)
	}

	stored, err := env.repo.Submission().GetByID(ctx, nil, sub.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	answers := stored.Answers.Data()
	if len(answers) != 2 {
		t.Fatalf("answers = %v, want one per question", answers)
	}
	if answers[q1] != "a" || answers[q2] != "" {
		t.Errorf("answers = %v", answers)
	}
	if _, ok := answers[9999]; ok {
		t.Error("answer for a foreign question was stored")
	}

	if got := len(env.publisher.EventsOfType(events.SubmissionCreated)); got != 1 {
		t.Errorf("submission.created events = %d, want 1", got)
	}
}

func TestSubmissionService_SubmitTwiceKeepsOneSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t, "Geography", env.alice.ID)

	env.submit(t, env.alice, quiz, nil)
	_, err := env.services.Submission().Submit(ctx, asIdentity(env.alice), quiz.ID, nil)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("second Submit() error = %v, want %v", err, ErrDuplicateSubmission)
	}

	if n := countRows(t, env.db, &models.Submission{}); n != 1 {
		t.Errorf("submissions = %d, want 1", n)
	}
}

func TestSubmissionService_SubmitErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t, "Geography", env.alice.ID)
	hidden := env.createQuiz(t, "Hidden", env.alice.ID)
	if err := env.services.Quiz().SetVisibility(ctx, asIdentity(env.admin), hidden.ID, true); err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}

	tests := []struct {
		name    string
		actor   Identity
		quizID  uint
		wantErr error
	}{
		{name: "unknown quiz", actor: asIdentity(env.alice), quizID: 9999, wantErr: ErrNotFound},
		{name: "hidden quiz", actor: asIdentity(env.alice), quizID: hidden.ID, wantErr: ErrNotFound},
		{name: "not assigned", actor: asIdentity(env.bob), quizID: quiz.ID, wantErr: ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.services.Submission().Submit(ctx, tt.actor, tt.quizID, nil); !errors.Is(err, tt.wantErr) {
				t.Errorf("Submit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if n := countRows(t, env.db, &models.Submission{}); n != 0 {
		t.Errorf("submissions = %d, want 0", n)
	}
}

func TestSubmissionService_ListScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := asIdentity(env.alice)

	quiz := env.createQuiz(t, "Geography", env.alice.ID, env.bob.ID)
	other := env.createQuiz(t, "History", env.alice.ID, env.bob.ID)
	graded := env.submit(t, env.alice, quiz, nil)
	env.submit(t, env.alice, other, nil)

	if _, err := env.services.Grading().Grade(ctx, asIdentity(env.admin), graded.ID, map[uint]string{quiz.Questions[1].ID: "2"}); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	scores, err := env.services.Submission().ListScores(ctx, alice)
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("scores = %d, want only the graded submission", len(scores))
	}
	got := scores[0]
	if got.ID != graded.ID || got.Score == nil || *got.Score != 2 || !got.Viewed {
		t.Errorf("score row = %+v", got)
	}
	if got.Quiz == nil || got.Quiz.Title != "Geography" || got.Quiz.TotalPoints != 3 {
		t.Errorf("score quiz = %+v", got.Quiz)
	}

	stored, err := env.repo.Submission().GetByID(ctx, nil, graded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.Viewed {
		t.Error("listed score was not marked viewed")
	}

	if _, err := env.services.Submission().ToggleScoreVisibility(ctx, alice, graded.ID); err != nil {
		t.Fatalf("ToggleScoreVisibility: %v", err)
	}
	scores, err = env.services.Submission().ListScores(ctx, alice)
	if err != nil {
		t.Fatalf("ListScores after hiding: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("hidden score still listed: %d rows", len(scores))
	}
}

func TestSubmissionService_ListScoresReturnsRowsOfSweptQuiz(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// graded directly so no sweep has run yet
	quiz := testutil.CreateQuiz(t, env.db, "Retiring", []models.Question{testutil.ShortAnswer("why", 5)}, env.alice.ID)
	score := 4
	now := time.Now().UTC()
	sub := &models.Submission{UserID: env.alice.ID, QuizID: quiz.ID, Score: &score, Marked: true, GradedAt: &now, SubmittedAt: now}
	if err := env.db.Create(sub).Error; err != nil {
		t.Fatalf("create submission: %v", err)
	}

	scores, err := env.services.Submission().ListScores(ctx, asIdentity(env.alice))
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	if len(scores) != 1 || *scores[0].Score != 4 {
		t.Fatalf("scores = %+v, want the graded row", scores)
	}

	if exists, _ := env.repo.Quiz().Exists(ctx, nil, quiz.ID); exists {
		t.Error("completed quiz was not swept after listing scores")
	}
	if n := countRows(t, env.db, &models.Submission{}); n != 0 {
		t.Errorf("submissions after sweep = %d, want 0", n)
	}
	if got := len(env.publisher.EventsOfType(events.QuizCompleted)); got != 1 {
		t.Errorf("quiz.completed events = %d, want 1", got)
	}
}

func TestSubmissionService_ToggleScoreVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t, "Geography", env.alice.ID)
	sub := env.submit(t, env.alice, quiz, nil)

	tests := []struct {
		name       string
		actor      Identity
		id         uint
		wantErr    error
		wantHidden bool
	}{
		{name: "owner hides", actor: asIdentity(env.alice), id: sub.ID, wantHidden: true},
		{name: "owner shows again", actor: asIdentity(env.alice), id: sub.ID, wantHidden: false},
		{name: "other user", actor: asIdentity(env.bob), id: sub.ID, wantErr: ErrUnauthorized},
		{name: "admin is not the owner", actor: asIdentity(env.admin), id: sub.ID, wantErr: ErrUnauthorized},
		{name: "unknown submission", actor: asIdentity(env.alice), id: 9999, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.services.Submission().ToggleScoreVisibility(ctx, tt.actor, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToggleScoreVisibility: %v", err)
			}
			if got.Hidden != tt.wantHidden {
				t.Errorf("hidden = %v, want %v", got.Hidden, tt.wantHidden)
			}
		})
	}
}

func TestSubmissionService_SubmitUniqueIndexBackstop(t *testing.T) {
	tests := []struct {
		name    string
		race    bool
		wantErr error
	}{
		{name: "competing insert wins", race: true, wantErr: ErrDuplicateSubmission},
		{name: "no competition", race: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			quiz := env.createQuiz(t, "Race", env.alice.ID, env.bob.ID)
			env.publisher.ClearEvents()

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			repo := &racingRepository{Repository: env.repo, race: tt.race}
			svc := NewSubmissionService(repo, env.services.Sweeper(), env.publisher, logger)

			_, err := svc.Submit(ctx, asIdentity(env.alice), quiz.ID, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
				}
				var dup *DuplicateSubmissionError
				if !errors.As(err, &dup) || dup.UserID != env.alice.ID || dup.QuizID != quiz.ID {
					t.Errorf("error = %#v, want duplicate for alice on quiz %d", err, quiz.ID)
				}
				if n := len(env.publisher.EventsOfType(events.SubmissionCreated)); n != 0 {
					t.Errorf("submission.created events = %d, want 0", n)
				}
			} else if err != nil {
				t.Fatalf("Submit: %v", err)
			}

			if n := countRows(t, env.db, &models.Submission{}); n != 1 {
				t.Errorf("submissions = %d, want 1", n)
			}
		})
	}
}
