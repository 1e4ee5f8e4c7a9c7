package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
)

const scoresSheet = "Scores"

var scoreHeaders = []interface{}{"Submission ID", "User", "Quiz", "Score", "Max Score", "Submitted At"}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportScores writes every graded submission to an xlsx workbook
func (s *exportService) ExportScores(ctx context.Context, actor Identity) (*bytes.Buffer, error) {
	if err := requireAdmin(actor, "submission", 0, "export"); err != nil {
		return nil, err
	}

	marked := true
	submissions, err := s.repo.Submission().ListWithDetails(ctx, nil, repositories.SubmissionFilters{
		Marked:    &marked,
		SortBy:    "submitted_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, storageError("list graded submissions", err)
	}

	rows := make([]models.ScoreRow, 0, len(submissions))
	for _, sub := range submissions {
		rows = append(rows, toScoreRow(sub))
	}

	buf, err := writeScoresWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build score workbook: %w", err)
	}

	s.logger.Info("Scores exported", "rows", len(rows), "admin_id", actor.UserID)
	return buf, nil
}

func toScoreRow(sub *models.Submission) models.ScoreRow {
	row := models.ScoreRow{SubmissionID: sub.ID, SubmittedAt: sub.SubmittedAt}
	if sub.Score != nil {
		row.Score = *sub.Score
	}
	if sub.User != nil {
		row.UserEmail = sub.User.Email
	}
	if sub.Quiz != nil {
		row.QuizTitle = sub.Quiz.Title
		row.MaxScore = models.TotalPoints(sub.Quiz.Questions)
	}
	return row
}

func writeScoresWorkbook(rows []models.ScoreRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(scoresSheet, "A1", &scoreHeaders); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(scoresSheet, "A1", "F1", bold); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			row.SubmissionID,
			row.UserEmail,
			row.QuizTitle,
			row.Score,
			row.MaxScore,
			row.SubmittedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(scoresSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(scoresSheet, "B", "C", 32); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
