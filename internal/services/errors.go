package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("not authorized")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateSubmission = errors.New("submission already exists")
	ErrPersistence         = errors.New("persistence failure")
)

// ===== VALIDATION =====

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors collects every field error of a rejected request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ErrValidation.Error()
	case 1:
		return e[0].Error()
	default:
		return fmt.Sprintf("validation failed with %d errors", len(e))
	}
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// fromValidator converts request-validator errors to service validation errors
func fromValidator(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, fe := range errs {
		out = append(out, ValidationError{Field: fe.Field, Message: fe.Message, Value: fe.Value})
	}
	return out
}

// ===== AUTHORIZATION =====

type PermissionError struct {
	UserID       uint   `json:"user_id"`
	ResourceID   uint   `json:"resource_id,omitempty"`
	ResourceType string `json:"resource_type"`
	Action       string `json:"action"`
	Reason       string `json:"reason"`
}

func NewPermissionError(userID, resourceID uint, resourceType, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:       userID,
		ResourceID:   resourceID,
		ResourceType: resourceType,
		Action:       action,
		Reason:       reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.ResourceType, e.ResourceID, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ===== LOOKUP =====

type NotFoundError struct {
	ResourceType string `json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
}

func NewNotFoundError(resourceType string, id uint) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.ResourceType, e.ResourceID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateSubmissionError reports a second submission for the same user and quiz
type DuplicateSubmissionError struct {
	UserID uint `json:"user_id"`
	QuizID uint `json:"quiz_id"`
}

func (e *DuplicateSubmissionError) Error() string {
	return fmt.Sprintf("user %d has already submitted quiz %d", e.UserID, e.QuizID)
}

func (e *DuplicateSubmissionError) Is(target error) bool {
	return target == ErrDuplicateSubmission
}

// ===== STORAGE =====

type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// storageError passes domain errors through and wraps everything else
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve  ValidationErrors
		pe  *PermissionError
		nfe *NotFoundError
		de  *DuplicateSubmissionError
	)
	if errors.As(err, &ve) || errors.As(err, &pe) || errors.As(err, &nfe) || errors.As(err, &de) {
		return err
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return NewPersistenceError(op, err)
}

// lookupError maps a repository not-found error to NotFoundError
func lookupError(resourceType string, id uint, err error) error {
	if repositories.IsNotFoundError(err) {
		return NewNotFoundError(resourceType, id)
	}
	return storageError("get "+resourceType, err)
}
