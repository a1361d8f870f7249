package repository

import (
	"context"
	"fmt"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/pkg/logger"
)

// publisher is the subset of pkg/kafka.Producer the bus needs.
type publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaCalendarBus carries refresh requests to the aggregator worker and
// snapshot notifications back to API replicas.
type KafkaCalendarBus struct {
	producer      publisher
	refreshTopic  string
	snapshotTopic string
	logger        *logger.Logger
}

func NewKafkaCalendarBus(p publisher, refreshTopic, snapshotTopic string, log *logger.Logger) *KafkaCalendarBus {
	return &KafkaCalendarBus{
		producer:      p,
		refreshTopic:  refreshTopic,
		snapshotTopic: snapshotTopic,
		logger:        log,
	}
}

func (b *KafkaCalendarBus) DispatchRefresh(ctx context.Context, req models.RefreshRequest) error {
	if err := b.producer.Publish(ctx, b.refreshTopic, []byte(req.RequestID), req); err != nil {
		return fmt.Errorf("dispatch refresh %s: %w", req.RequestID, err)
	}
	b.logger.Info("refresh requested",
		logger.String("request_id", req.RequestID),
		logger.String("reason", req.Reason),
	)
	return nil
}

func (b *KafkaCalendarBus) NotifySnapshot(ctx context.Context, msg models.SnapshotPublished) error {
	if err := b.producer.Publish(ctx, b.snapshotTopic, []byte(msg.SnapshotID), msg); err != nil {
		return fmt.Errorf("notify snapshot %s: %w", msg.SnapshotID, err)
	}
	return nil
}

var (
	_ domrepo.RefreshDispatcher = (*KafkaCalendarBus)(nil)
	_ domrepo.SnapshotNotifier  = (*KafkaCalendarBus)(nil)
)
