package service

import (
	"context"
	"log/slog"
	"time"

	"planie.app/api/internal/model"
	"planie.app/api/internal/queue"
)

// publishEvent reports a committed mutation. The mutation already happened,
// so a failure here is only logged.
func publishEvent(ctx context.Context, events queue.Producer, eventType model.EventType, actorID string, workspaceID int64) {
	if events == nil {
		return
	}

	err := events.Publish(ctx, model.WorkspaceEvent{
		Type:        eventType,
		WorkspaceID: workspaceID,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish workspace event",
			"error", err,
			"event_type", eventType,
			"workspace_id", workspaceID)
	}
}
