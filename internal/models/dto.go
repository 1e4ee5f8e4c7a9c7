package models

import "time"

// ===== LIST RESPONSES =====

type PaginatedResponse struct {
	Content          interface{} `json:"content"`
	TotalElements    int64       `json:"total_elements"`
	TotalPages       int         `json:"total_pages"`
	Size             int         `json:"size"`
	Page             int         `json:"page"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	NumberOfElements int         `json:"number_of_elements"`
	Empty            bool        `json:"empty"`
}

// NewPaginatedResponse builds a page envelope from a slice length and total count
func NewPaginatedResponse(content interface{}, count int, total int64, page, size int) PaginatedResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PaginatedResponse{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             size,
		Page:             page,
		First:            page <= 1,
		Last:             page >= totalPages,
		NumberOfElements: count,
		Empty:            count == 0,
	}
}

// ===== SUMMARY DTOs =====

// ScoreRow is one line of the graded-submissions export
type ScoreRow struct {
	SubmissionID uint      `json:"submission_id"`
	UserEmail    string    `json:"user_email"`
	QuizTitle    string    `json:"quiz_title"`
	Score        int       `json:"score"`
	MaxScore     int       `json:"max_score"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
