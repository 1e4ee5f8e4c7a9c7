package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// Quiz cache keys
const (
	quizDetailsKey   = "details:%d"
	quizAvailableKey = "available:%d"
	quizAdminListKey = "list:admin"
)

// QuizDetailsKey is the cache key of a quiz with its questions
func QuizDetailsKey(quizID uint) string {
	return fmt.Sprintf(quizDetailsKey, quizID)
}

// QuizAvailableKey is the cache key of the quizzes a user may still take
func QuizAvailableKey(userID uint) string {
	return fmt.Sprintf(quizAvailableKey, userID)
}

// QuizAdminListKey is the cache key of the full quiz list shown to admins
func QuizAdminListKey() string {
	return quizAdminListKey
}

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateQuizCache drops a quiz's details and every list that may contain it
func InvalidateQuizCache(ctx context.Context, cm *CacheManager, quizID uint) {
	SafeDelete(ctx, cm.Quiz, QuizDetailsKey(quizID))
	InvalidateQuizLists(ctx, cm)
}

// InvalidateQuizLists drops the admin list and all per-user availability lists
func InvalidateQuizLists(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Quiz, QuizAdminListKey())
	SafeInvalidatePattern(ctx, cm.Quiz, "available:*")
}

// InvalidateUserQuizCache drops one user's availability list
func InvalidateUserQuizCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.Quiz, QuizAvailableKey(userID))
}

// QuizExistsKey is the existence-check cache key of a quiz
func QuizExistsKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d", quizID)
}

// UserIDKey is the cache key of an account looked up by id
func UserIDKey(userID uint) string {
	return fmt.Sprintf("id:%d", userID)
}

// InvalidateAllQuizzes drops every quiz cache entry and quiz existence check
func InvalidateAllQuizzes(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Quiz, "*")
	SafeInvalidatePattern(ctx, cm.Exists, "quiz:*")
}
