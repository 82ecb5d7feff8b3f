// Package storage defines persistence contracts for the game service.
//
// The only persisted data is the audit journal: one record per game service
// call, kept for operators. Game state itself lives in memory and is never
// restored from the journal.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// AuditEvent is one journal record describing a game service call.
type AuditEvent struct {
	Seq            uint64
	Timestamp      time.Time
	EventName      string
	Severity       string
	GameID         string
	Method         string
	Code           string
	TraceID        string
	SpanID         string
	Attributes     map[string]any
	AttributesJSON []byte
}

// ListAuditEventsRequest selects one forward page of the journal.
type ListAuditEventsRequest struct {
	// GameID restricts the page to one game when set.
	GameID string
	// AfterSeq excludes records with seq <= AfterSeq.
	AfterSeq uint64
	// PageSize is the maximum number of records returned.
	PageSize int
	// FilterClause is an optional SQL condition produced by core/filter.
	FilterClause string
	// FilterParams are the positional parameters for FilterClause.
	FilterParams []any
}

// ListAuditEventsResult is one page of journal records in seq order.
type ListAuditEventsResult struct {
	Events []AuditEvent
	// HasMore reports whether records exist after the last returned one.
	HasMore bool
	// TotalCount counts every record matching the game and filter,
	// ignoring AfterSeq.
	TotalCount int
}

// AuditEventStore persists and lists audit journal records.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
	ListAuditEvents(ctx context.Context, req ListAuditEventsRequest) (ListAuditEventsResult, error)
}
