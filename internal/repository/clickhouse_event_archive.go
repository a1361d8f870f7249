package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	pkgch "EconPull/pkg/clickhouse"
	"EconPull/pkg/logger"
)

const (
	DefaultArchiveTable = "calendar_events"
	archiveChunkSize    = 2000
	archiveColumns      = 13
)

// ArchiveSchema returns the DDL of the event archive table.
func ArchiveSchema(table string) []string {
	return []string{fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id      String,
			archived_at DateTime64(3, 'UTC'),
			event_date  Date,
			event_time  String,
			currency    LowCardinality(String),
			title       String,
			impact      LowCardinality(String),
			category    LowCardinality(String),
			country     LowCardinality(String),
			source      LowCardinality(String),
			forecast    Nullable(String),
			previous    Nullable(String),
			actual      Nullable(String)
		) ENGINE = MergeTree
		ORDER BY (event_date, source, title, run_id)`, table)}
}

// ClickHouseEventArchive appends every aggregation run's events to ClickHouse.
type ClickHouseEventArchive struct {
	ch     *pkgch.Client
	db     *sql.DB
	table  string
	logger *logger.Logger
	now    func() time.Time
}

func NewClickHouseEventArchive(ch *pkgch.Client, table string, log *logger.Logger) *ClickHouseEventArchive {
	if table == "" {
		table = DefaultArchiveTable
	}
	return &ClickHouseEventArchive{ch: ch, db: ch.DB(), table: table, logger: log, now: time.Now}
}

func (a *ClickHouseEventArchive) Init(ctx context.Context) error {
	return a.ch.InitSchema(ctx, ArchiveSchema(a.table))
}

func (a *ClickHouseEventArchive) StoreBatch(ctx context.Context, runID string, events []models.EconomicEvent) error {
	archivedAt := a.now().UTC()
	for start := 0; start < len(events); start += archiveChunkSize {
		end := min(start+archiveChunkSize, len(events))
		q, args, err := buildArchiveInsert(a.table, runID, archivedAt, events[start:end])
		if err != nil {
			return err
		}
		if q == "" {
			continue
		}
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			a.logger.Error("clickhouse archive insert error",
				logger.String("table", a.table),
				logger.String("run_id", runID),
				logger.Int("rows", end-start),
				logger.Error(err),
			)
			return fmt.Errorf("archive events: %w", err)
		}
	}
	return nil
}

func (a *ClickHouseEventArchive) Health(ctx context.Context) error {
	return a.ch.Health(ctx)
}

// Close is a no-op; the connection pool is owned by pkg/clickhouse.
func (a *ClickHouseEventArchive) Close() error { return nil }

// buildArchiveInsert renders one multi-row INSERT. Events with an unparsable
// date are rejected rather than silently dropped.
func buildArchiveInsert(table, runID string, at time.Time, events []models.EconomicEvent) (string, []interface{}, error) {
	if len(events) == 0 {
		return "", nil, nil
	}
	values := make([]string, 0, len(events))
	args := make([]interface{}, 0, len(events)*archiveColumns)
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", archiveColumns), ", ") + ")"

	for _, e := range events {
		day, err := time.Parse(models.DateLayout, e.Date)
		if err != nil {
			return "", nil, fmt.Errorf("archive event %q: bad date %q", e.Title, e.Date)
		}
		values = append(values, placeholder)
		args = append(args,
			runID,
			at,
			day,
			e.Time,
			e.Currency,
			e.Title,
			string(e.Impact),
			string(e.Category),
			e.Country,
			e.Source,
			e.Forecast,
			e.Previous,
			e.Actual,
		)
	}
	q := fmt.Sprintf("INSERT INTO %s (run_id, archived_at, event_date, event_time, currency, title, impact, category, country, source, forecast, previous, actual) VALUES %s",
		table, strings.Join(values, ","))
	return q, args, nil
}

var _ domrepo.EventArchive = (*ClickHouseEventArchive)(nil)
