// Package sqlite implements the game audit journal on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/minefield/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/minefield/internal/services/game/storage"
	"github.com/louisbranch/minefield/internal/services/game/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed audit journal persistence.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.AuditEventStore = (*Store)(nil)

// Open opens the audit store at path, creating parent directories, and
// applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendAuditEvent records one journal entry.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	evt.EventName = strings.TrimSpace(evt.EventName)
	evt.Severity = strings.TrimSpace(evt.Severity)
	if evt.EventName == "" {
		return fmt.Errorf("event name is required")
	}
	if evt.Severity == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal audit attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO audit_events (
	timestamp,
	event_name,
	severity,
	game_id,
	method,
	code,
	trace_id,
	span_id,
	attributes_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		evt.Timestamp.UTC().UnixMilli(),
		evt.EventName,
		evt.Severity,
		strings.TrimSpace(evt.GameID),
		evt.Method,
		evt.Code,
		evt.TraceID,
		evt.SpanID,
		evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns one forward page of the journal in seq order.
func (s *Store) ListAuditEvents(ctx context.Context, req storage.ListAuditEventsRequest) (storage.ListAuditEventsResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListAuditEventsResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ListAuditEventsResult{}, fmt.Errorf("storage is not configured")
	}
	if req.PageSize <= 0 {
		return storage.ListAuditEventsResult{}, fmt.Errorf("page size must be greater than zero")
	}

	plan := buildListAuditEventsPlan(req)

	var total int
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM audit_events WHERE "+plan.countWhere,
		plan.countParams...,
	).Scan(&total); err != nil {
		return storage.ListAuditEventsResult{}, fmt.Errorf("count audit events: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT seq, timestamp, event_name, severity, game_id, method, code, trace_id, span_id, attributes_json
FROM audit_events
WHERE `+plan.where+`
ORDER BY seq ASC
LIMIT ?`,
		append(plan.params, req.PageSize+1)...,
	)
	if err != nil {
		return storage.ListAuditEventsResult{}, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	events := make([]storage.AuditEvent, 0, req.PageSize)
	for rows.Next() {
		var (
			evt       storage.AuditEvent
			seq       int64
			timestamp int64
			attrs     []byte
		)
		if err := rows.Scan(&seq, &timestamp, &evt.EventName, &evt.Severity, &evt.GameID,
			&evt.Method, &evt.Code, &evt.TraceID, &evt.SpanID, &attrs); err != nil {
			return storage.ListAuditEventsResult{}, fmt.Errorf("scan audit event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Timestamp = time.UnixMilli(timestamp).UTC()
		if len(attrs) > 0 {
			evt.AttributesJSON = attrs
			if err := json.Unmarshal(attrs, &evt.Attributes); err != nil {
				return storage.ListAuditEventsResult{}, fmt.Errorf("decode audit attributes: %w", err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.ListAuditEventsResult{}, fmt.Errorf("iterate audit events: %w", err)
	}

	result := storage.ListAuditEventsResult{TotalCount: total}
	if len(events) > req.PageSize {
		result.HasMore = true
		events = events[:req.PageSize]
	}
	result.Events = events
	return result, nil
}

type listAuditEventsPlan struct {
	where       string
	params      []any
	countWhere  string
	countParams []any
}

func buildListAuditEventsPlan(req storage.ListAuditEventsRequest) listAuditEventsPlan {
	base := "1 = 1"
	var baseParams []any
	if gameID := strings.TrimSpace(req.GameID); gameID != "" {
		base = "game_id = ?"
		baseParams = append(baseParams, gameID)
	}
	if req.FilterClause != "" {
		base += " AND " + req.FilterClause
		baseParams = append(baseParams, req.FilterParams...)
	}

	where := base
	params := append([]any(nil), baseParams...)
	if req.AfterSeq > 0 {
		where += " AND seq > ?"
		params = append(params, req.AfterSeq)
	}
	return listAuditEventsPlan{
		where:       where,
		params:      params,
		countWhere:  base,
		countParams: baseParams,
	}
}
