package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"planie.app/api/common/id"
	"planie.app/api/internal/model"
)

// Producer publishes committed workspace mutations for downstream consumers.
type Producer interface {
	Publish(ctx context.Context, event model.WorkspaceEvent) error
	Close() error
}

// StreamAdder is the subset of *redis.Client used to append to a stream.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type redisProducer struct {
	client StreamAdder
	closer func() error
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	p := newStreamProducer(client, stream, logger)
	p.closer = client.Close
	return p
}

func newStreamProducer(client StreamAdder, stream string, logger *slog.Logger) *redisProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event model.WorkspaceEvent) error {
	fields := eventFields(ctx, event)

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("publish workspace event: %w", err)
	}

	p.logger.DebugContext(ctx, "published workspace event",
		"event_type", event.Type,
		"workspace_id", event.WorkspaceID,
		"stream", p.stream)
	return nil
}

func (p *redisProducer) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

func eventFields(ctx context.Context, event model.WorkspaceEvent) map[string]any {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	fields := map[string]any{
		"event_type":   string(event.Type),
		"workspace_id": id.Format(event.WorkspaceID),
		"actor_id":     event.ActorID,
		"occurred_at":  occurredAt.UTC().Format(time.RFC3339Nano),
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields["trace_id"] = sc.TraceID().String()
	}
	return fields
}

type noopProducer struct{}

// NewNoopProducer returns a Producer that drops every event. Used when Redis
// is not configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Publish(context.Context, model.WorkspaceEvent) error { return nil }
func (noopProducer) Close() error                                      { return nil }
