package service

import (
	"context"
	"time"

	"erp-featurestore-be/internal/entity"
	"erp-featurestore-be/internal/metrics"
)

// ISO-8601 with millisecond precision, always Z in UTC
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Clock supplies "now" to the pipelines.
type Clock func() time.Time

// SnapshotWriter is the write path shared by the facade and the pipelines:
// store upsert, then counters and the outbound event for what was written.
type SnapshotWriter struct {
	store   ISnapshotStoreService
	events  IFeatureEventPublisher
	metrics *metrics.PipelineMetrics
}

func NewSnapshotWriter(store ISnapshotStoreService, events IFeatureEventPublisher, metrics *metrics.PipelineMetrics) *SnapshotWriter {
	return &SnapshotWriter{
		store:   store,
		events:  events,
		metrics: metrics,
	}
}

// Write stores items that all belong to def.
func (w *SnapshotWriter) Write(ctx context.Context, def *entity.FeatureDefinition, items []entity.SnapshotInput) (int, error) {
	written, err := w.store.InsertBatch(ctx, items)
	if err != nil {
		return 0, err
	}
	if written == 0 {
		return 0, nil
	}

	w.metrics.AddSnapshotsWritten(def.Name, written)
	if w.events != nil {
		w.events.PublishSnapshotsRecorded(ctx, def, written, latestTs(items))
	}
	return written, nil
}

func latestTs(items []entity.SnapshotInput) *time.Time {
	var latest *time.Time
	for i := range items {
		if latest == nil || items[i].Ts.After(*latest) {
			ts := items[i].Ts
			latest = &ts
		}
	}
	return latest
}
