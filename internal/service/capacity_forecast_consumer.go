package service

import (
	"context"
	"encoding/json"

	"erp-featurestore-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type ICapacityForecastConsumer interface {
	Consume(ctx context.Context) error
}

type capacityForecastConsumer struct {
	subscriber message.Subscriber
	forecast   ICapacityForecastService
	logger     logger.ILogger
}

// NewCapacityForecastConsumer runs the forecast after every capacity window sync.
func NewCapacityForecastConsumer(
	subscriber message.Subscriber,
	forecast ICapacityForecastService,
	logger logger.ILogger,
) ICapacityForecastConsumer {
	return &capacityForecastConsumer{
		subscriber: subscriber,
		forecast:   forecast,
		logger:     logger,
	}
}

func (c *capacityForecastConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, TopicCapacityWindowSynced)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A failed forecast is logged and picked up by the next sync.
func (c *capacityForecastConsumer) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload CapacityWindowSyncedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.logger.Warn(moduleCapacityForecast, "Dropping malformed capacity sync message", map[string]interface{}{
			"uuid":  msg.UUID,
			"error": err.Error(),
		})
		return
	}

	processed, err := c.forecast.SyncForecast(ctx)
	if err != nil {
		// SyncForecast already logged the failure
		return
	}

	c.logger.Info(moduleCapacityForecast, "Forecast refreshed after capacity sync", map[string]interface{}{
		"source_processed": payload.Processed,
		"processed":        processed,
	})
}
