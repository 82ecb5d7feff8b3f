package audit

import (
	"context"
	"time"

	"github.com/louisbranch/minefield/internal/services/game/storage"
)

// Severity describes the audit severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Writer appends audit events.
type Writer interface {
	AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error
}

// Emitter records operational audit events.
type Emitter struct {
	store Writer
	clock func() time.Time
}

// NewEmitter creates a new audit event emitter.
func NewEmitter(store Writer) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records an audit event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.AuditEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		now := time.Now
		if e.clock != nil {
			now = e.clock
		}
		evt.Timestamp = now().UTC()
	}
	if evt.Severity == "" {
		evt.Severity = string(SeverityInfo)
	}
	return e.store.AppendAuditEvent(ctx, evt)
}
