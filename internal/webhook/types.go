package webhook

import (
	"time"

	"github.com/structfi/bondledger/internal/domain"
)

// EventTypeWildcard is a special filter that matches all event types
const EventTypeWildcard = "*"

// SupportedEventTypes lists the event types clients may subscribe to
var SupportedEventTypes = []string{
	EventTypeWildcard,
	string(domain.EventTypeClassCreated),
	string(domain.EventTypeNonceCreated),
	string(domain.EventTypeIssued),
	string(domain.EventTypeTransferred),
	string(domain.EventTypeRedeemed),
	string(domain.EventTypeBurned),
	string(domain.EventTypeMarkedRedeemable),
	string(domain.EventTypeApprovalChanged),
	string(domain.EventTypeDeposited),
	string(domain.EventTypeClaimed),
	string(domain.EventTypeWaterfall),
	string(domain.EventTypeSettingsChanged),
}

// IsValidEventType checks whether an event filter names a deliverable type
func IsValidEventType(eventType string) bool {
	for _, supported := range SupportedEventTypes {
		if eventType == supported {
			return true
		}
	}
	return false
}

// WebhookEvent represents a ledger event to be delivered to clients
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the type of event (e.g., "bonds.issued")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data contains the event-specific payload
	Data EventData `json:"data"`
}

// EventData contains the webhook event payload
type EventData struct {
	// ClassID is the bond class the event belongs to, when series scoped
	ClassID *uint64 `json:"class_id,omitempty"`
	// NonceID is the issuance series within the class
	NonceID *uint64 `json:"nonce_id,omitempty"`
	// From is the sending party, empty for mint legs
	From *string `json:"from,omitempty"`
	// To is the receiving party, empty for burn legs
	To *string `json:"to,omitempty"`
	// Asset is the dividend asset identifier (e.g., "native", "erc20:0xabc...")
	Asset *string `json:"asset,omitempty"`
	// Amount is the decimal string amount of units or asset moved
	Amount *string `json:"amount,omitempty"`
}

// FromLedgerEvent converts a journal event into its delivery form
func FromLedgerEvent(event *domain.LedgerEvent) WebhookEvent {
	data := EventData{
		ClassID: event.ClassID,
		NonceID: event.NonceID,
		From:    event.From,
		To:      event.To,
		Asset:   event.Asset,
	}
	if event.Amount != nil {
		amount := event.Amount.String()
		data.Amount = &amount
	}
	return WebhookEvent{
		EventID:   event.EventID,
		EventType: string(event.EventType),
		Timestamp: event.Timestamp,
		Data:      data,
	}
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Error contains error details if delivery failed
	Error string
}
