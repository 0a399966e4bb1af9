package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/structfi/bondledger/internal/domain"
)

// LedgerEvent represents the ledger_events table - the append-only journal of
// every committed state change. External indexers page through it by cursor;
// the event bridge replays it into webhook deliveries.
type LedgerEvent struct {
	// Cursor is an auto-incrementing sequence number for ordering and pagination
	Cursor int64 `gorm:"column:\"cursor\";primaryKey;autoIncrement"`
	// EventID is the ULID also used as the NATS message id
	EventID string `gorm:"column:event_id;not null;unique;type:varchar(26)"`
	// EventType identifies what happened (class.created, bonds.issued, ...)
	EventType domain.EventType `gorm:"column:event_type;not null;type:text;index"`
	// ClassID is the affected class, if the event is class- or series-scoped
	ClassID *uint64 `gorm:"column:class_id;index:idx_ledger_events_series,priority:1"`
	// NonceID is the affected batch, if the event is series-scoped
	NonceID *uint64 `gorm:"column:nonce_id;index:idx_ledger_events_series,priority:2"`
	// Meta carries the full event payload as JSON
	Meta datatypes.JSON `gorm:"column:meta;not null;type:jsonb"`
	// OccurredAt is the timestamp of the state change
	OccurredAt time.Time `gorm:"column:occurred_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the LedgerEvent model
func (LedgerEvent) TableName() string {
	return "ledger_events"
}
