package repositories

import (
	"time"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Hidden    *bool      `json:"hidden"`
	CreatedBy *uint      `json:"created_by"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "title", "id"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	QuizID    *uint      `json:"quiz_id"`
	UserID    *uint      `json:"user_id"`
	Marked    *bool      `json:"marked"`
	Hidden    *bool      `json:"hidden"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "submitted_at", "score", "id"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// UserFilters defines filters for user queries
type UserFilters struct {
	Query   string // Search query for email
	IsAdmin *bool
	Limit   int // Page size
	Offset  int // Offset for pagination
}

// ===== SHARED HELPER STRUCTS =====

// QuizCompletion is the assigned/marked user-id snapshot used by the completion sweep
type QuizCompletion struct {
	QuizID          uint   `json:"quiz_id"`
	AssignedUserIDs []uint `json:"assigned_user_ids"`
	MarkedUserIDs   []uint `json:"marked_user_ids"`
}

// IsComplete reports whether every assigned user has a marked submission.
// An empty assignment set is never complete.
func (c QuizCompletion) IsComplete() bool {
	if len(c.AssignedUserIDs) == 0 {
		return false
	}
	marked := make(map[uint]struct{}, len(c.MarkedUserIDs))
	for _, id := range c.MarkedUserIDs {
		marked[id] = struct{}{}
	}
	assigned := make(map[uint]struct{}, len(c.AssignedUserIDs))
	for _, id := range c.AssignedUserIDs {
		assigned[id] = struct{}{}
		if _, ok := marked[id]; !ok {
			return false
		}
	}
	for id := range marked {
		if _, ok := assigned[id]; !ok {
			return false
		}
	}
	return true
}
