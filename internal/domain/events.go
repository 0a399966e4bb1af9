package domain

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/structfi/bondledger/internal/types"
)

// EventType identifies the kind of ledger event
type EventType string

const (
	EventTypeClassCreated     EventType = "class.created"
	EventTypeNonceCreated     EventType = "nonce.created"
	EventTypeIssued           EventType = "bonds.issued"
	EventTypeTransferred      EventType = "bonds.transferred"
	EventTypeRedeemed         EventType = "bonds.redeemed"
	EventTypeBurned           EventType = "bonds.burned"
	EventTypeMarkedRedeemable EventType = "nonce.redeemable"
	EventTypeApprovalChanged  EventType = "approval.changed"
	EventTypeDeposited        EventType = "dividend.deposited"
	EventTypeClaimed          EventType = "dividend.claimed"
	EventTypeWaterfall        EventType = "dividend.waterfall"
	EventTypeSettingsChanged  EventType = "settings.changed"
)

// LedgerEvent is the normalized event published to NATS after a state change
// commits, and mirrored in the ledger_events journal for replay. For series
// scoped events ClassID/NonceID are set; class-level events leave NonceID nil.
type LedgerEvent struct {
	EventID   string        `json:"event_id"`
	EventType EventType     `json:"event_type"`
	ClassID   *uint64       `json:"class_id,omitempty"`
	NonceID   *uint64       `json:"nonce_id,omitempty"`
	From      *string       `json:"from,omitempty"`
	To        *string       `json:"to,omitempty"`
	Asset     *string       `json:"asset,omitempty"`
	Amount    *types.BigInt `json:"amount,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewEventID mints a time-sortable ULID for an event
func NewEventID(now time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
