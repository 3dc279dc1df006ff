package service

import (
	"context"
	"encoding/json"
	"errors"

	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/dto"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/pkg/serverutils"
	"erp-featurestore-be/pkg/events"
	"erp-featurestore-be/pkg/nats"
)

const (
	moduleIngest = "SNAPSHOT_INGEST"

	IngestDurableName = "feature-store-ingest"
)

type ISnapshotIngestService interface {
	Start(ctx context.Context) error
	// Handle processes one NATS payload. A returned error asks for redelivery.
	Handle(ctx context.Context, subject string, data []byte) error
}

type snapshotIngestService struct {
	subscriber   *nats.Subscriber
	featureStore IFeatureStoreService
	logger       logger.ILogger
}

func NewSnapshotIngestService(
	subscriber *nats.Subscriber,
	featureStore IFeatureStoreService,
	logger logger.ILogger,
) ISnapshotIngestService {
	return &snapshotIngestService{
		subscriber:   subscriber,
		featureStore: featureStore,
		logger:       logger,
	}
}

func (s *snapshotIngestService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	subject := nats.Subject(events.TypeSnapshotsRecord)
	if err := s.subscriber.Subscribe(ctx, subject, IngestDurableName, s.Handle); err != nil {
		return err
	}
	s.logger.Info(moduleIngest, "Snapshot ingest subscribed", map[string]interface{}{
		"subject": subject,
		"durable": IngestDurableName,
	})
	return nil
}

func (s *snapshotIngestService) Handle(ctx context.Context, subject string, data []byte) error {
	var msg dto.RecordSnapshotsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.Warn(moduleIngest, "Dropping malformed snapshot batch", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
		return nil
	}
	if err := serverutils.ValidateRequest(msg); err != nil {
		s.logger.Warn(moduleIngest, "Dropping invalid snapshot batch", map[string]interface{}{
			"subject": subject,
			"feature": msg.Feature,
			"error":   err.Error(),
		})
		return nil
	}

	res, err := s.featureStore.RecordSnapshots(ctx, msg.Feature, &dto.RecordSnapshotsRequest{Items: msg.Items})
	if err != nil {
		// Redelivery cannot fix a bad batch or an unknown feature
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalid) {
			s.logger.Warn(moduleIngest, "Rejected snapshot batch", map[string]interface{}{
				"feature": msg.Feature,
				"items":   len(msg.Items),
				"error":   err.Error(),
			})
			return nil
		}
		s.logger.Error(moduleIngest, "Failed to record snapshot batch", map[string]interface{}{
			"feature": msg.Feature,
			"items":   len(msg.Items),
			"error":   err.Error(),
		})
		return err
	}

	s.logger.Debug(moduleIngest, "Snapshot batch recorded", map[string]interface{}{
		"feature": res.Feature,
		"written": res.Written,
	})
	return nil
}
