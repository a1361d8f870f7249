package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	pkgkafka "EconPull/pkg/kafka"
	"EconPull/pkg/logger"
)

// RefreshRequestHandler runs the refresh job for every request consumed from Kafka.
type RefreshRequestHandler struct {
	topic  string
	job    *RefreshJob
	logger *logger.Logger
}

func NewRefreshRequestHandler(topic string, job *RefreshJob, log *logger.Logger) *RefreshRequestHandler {
	return &RefreshRequestHandler{topic: topic, job: job, logger: log}
}

func (h *RefreshRequestHandler) Topic() string { return h.topic }

// Handle treats a concurrent run as success so the request is not retried.
func (h *RefreshRequestHandler) Handle(ctx context.Context, b []byte) error {
	var req models.RefreshRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.logger.Error("bad refresh request", logger.Error(err))
		return nil
	}

	report, err := h.job.Run(ctx, time.Time{})
	if errors.Is(err, domrepo.ErrRefreshInProgress) {
		h.logger.Info("refresh already running, dropping request", logger.String("request_id", req.RequestID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh %s: %w", req.RequestID, err)
	}

	h.logger.Info("refresh request served",
		logger.String("request_id", req.RequestID),
		logger.String("run_id", report.RunID),
		logger.Duration("queued", report.StartedAt.Sub(req.RequestedAt)),
	)
	return nil
}

// SnapshotPublishedHandler drops the API's cached snapshot when a new one lands.
type SnapshotPublishedHandler struct {
	topic  string
	query  *CalendarQuery
	logger *logger.Logger
}

func NewSnapshotPublishedHandler(topic string, query *CalendarQuery, log *logger.Logger) *SnapshotPublishedHandler {
	return &SnapshotPublishedHandler{topic: topic, query: query, logger: log}
}

func (h *SnapshotPublishedHandler) Topic() string { return h.topic }

func (h *SnapshotPublishedHandler) Handle(ctx context.Context, b []byte) error {
	var msg models.SnapshotPublished
	if err := json.Unmarshal(b, &msg); err != nil {
		h.logger.Error("bad snapshot notification", logger.Error(err))
		return nil
	}
	h.query.Invalidate(ctx)
	h.logger.Info("snapshot published",
		logger.String("snapshot_id", msg.SnapshotID),
		logger.Int("events", msg.TotalEvents),
	)
	return nil
}

var (
	_ pkgkafka.MessageHandler = (*RefreshRequestHandler)(nil)
	_ pkgkafka.MessageHandler = (*SnapshotPublishedHandler)(nil)
)
