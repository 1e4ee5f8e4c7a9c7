package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
)

func requireAdmin(actor Identity, resourceType string, resourceID uint, action string) error {
	if !actor.IsAdmin {
		return NewPermissionError(actor.UserID, resourceID, resourceType, action, "admin role required")
	}
	return nil
}

// publishEvent sends an event after commit. Failures are logged only.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	event := events.NewEvent(eventType, data)
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			"event_type", eventType,
			"event_id", event.ID,
			"error", err)
	}
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
