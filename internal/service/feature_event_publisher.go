package service

import (
	"context"
	"time"

	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/pkg/events"
	"erp-featurestore-be/pkg/nats"
)

const moduleEvents = "FEATURE_EVENTS"

type IFeatureEventPublisher interface {
	PublishSnapshotsRecorded(ctx context.Context, def *entity.FeatureDefinition, count int, ts *time.Time)
}

type featureEventPublisher struct {
	publisher *nats.Publisher
	logger    logger.ILogger
}

// NewFeatureEventPublisher publishes on NATS. A nil publisher makes every call a no-op.
func NewFeatureEventPublisher(publisher *nats.Publisher, logger logger.ILogger) IFeatureEventPublisher {
	return &featureEventPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishSnapshotsRecorded never fails the caller, the batch is already committed.
func (p *featureEventPublisher) PublishSnapshotsRecorded(ctx context.Context, def *entity.FeatureDefinition, count int, ts *time.Time) {
	if p.publisher == nil || def == nil || count == 0 {
		return
	}

	data := map[string]interface{}{
		"feature_id":   def.Id.String(),
		"feature_name": def.Name,
		"count":        count,
	}
	if ts != nil {
		data["ts"] = ts.UTC().Format(isoMillis)
	}

	err := p.publisher.Publish(ctx, events.BaseEvent{
		Type:       events.TypeSnapshotsRecorded,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn(moduleEvents, "Failed to publish snapshots recorded event", map[string]interface{}{
			"feature": def.Name,
			"count":   count,
			"error":   err.Error(),
		})
	}
}
