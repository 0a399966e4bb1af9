package store

import (
	"context"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

// LedgerEventFilter narrows journal queries
type LedgerEventFilter struct {
	EventType *domain.EventType
	ClassID   *uint64
	NonceID   *uint64
	// AfterCursor returns events with a cursor strictly greater than this value
	AfterCursor int64
	Limit       int
}

// Store defines the interface for database operations. Every externally
// invoked ledger or accounting operation runs inside one WithinTx call; the
// transactional store passed to the callback sees and produces uncommitted
// state, and a returned error rolls everything back.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	// CreateBondClass persists a new class and fills in its sequential ID
	CreateBondClass(ctx context.Context, class *schema.BondClass) error
	// GetBondClass retrieves a class by id, nil when missing
	GetBondClass(ctx context.Context, classID uint64) (*schema.BondClass, error)
	// ListClassIDsByAgent returns the ids of all classes backed by an agent
	ListClassIDsByAgent(ctx context.Context, agentID string) ([]uint64, error)
	// ListClassesByAgentTranche returns an agent's classes in one tranche
	ListClassesByAgentTranche(ctx context.Context, agentID string, tranche domain.Tranche) ([]*schema.BondClass, error)

	// NextNonceID returns the next sequential batch number for a class
	NextNonceID(ctx context.Context, classID uint64) (uint64, error)
	// CreateBondNonce persists a new batch
	CreateBondNonce(ctx context.Context, nonce *schema.BondNonce) error
	// GetBondNonce retrieves a batch, nil when missing
	GetBondNonce(ctx context.Context, classID, nonceID uint64) (*schema.BondNonce, error)
	// SaveBondNonce updates a batch's mutable columns
	SaveBondNonce(ctx context.Context, nonce *schema.BondNonce) error
	// SumIssuedByClass returns cumulative issuance across all nonces of a class
	SumIssuedByClass(ctx context.Context, classID uint64) (types.BigInt, error)

	// GetBalance returns a holder's unit balance for a series (zero when absent)
	GetBalance(ctx context.Context, holder string, classID, nonceID uint64) (types.BigInt, error)
	// AddToBalance applies a signed delta to a holder's balance, creating the row
	// if needed. The caller has already validated the delta against the current
	// balance; a negative result is an invariant violation.
	AddToBalance(ctx context.Context, holder string, classID, nonceID uint64, delta types.BigInt) error

	// SetOperatorApproval records an owner's operator approval state
	SetOperatorApproval(ctx context.Context, owner, operator string, approved bool) error
	// IsOperatorApproved checks whether operator may move owner's units
	IsOperatorApproved(ctx context.Context, owner, operator string) (bool, error)

	// GetAccumulator retrieves the accumulator for a series/asset, nil when absent
	GetAccumulator(ctx context.Context, classID, nonceID uint64, asset string) (*schema.DividendAccumulator, error)
	// SaveAccumulator upserts an accumulator row
	SaveAccumulator(ctx context.Context, acc *schema.DividendAccumulator) error
	// GetPosition retrieves a holder's accounting position, nil when absent
	GetPosition(ctx context.Context, holder string, classID, nonceID uint64, asset string) (*schema.HolderPosition, error)
	// SavePosition upserts a holder's accounting position
	SavePosition(ctx context.Context, pos *schema.HolderPosition) error
	// AddDepositedAsset registers an asset in a series' deposited set (idempotent)
	AddDepositedAsset(ctx context.Context, classID, nonceID uint64, asset string) error
	// ListDepositedAssets returns a series' assets in first-deposit order
	ListDepositedAssets(ctx context.Context, classID, nonceID uint64) ([]string, error)

	// AppendLedgerEvent appends to the journal
	AppendLedgerEvent(ctx context.Context, event *schema.LedgerEvent) error
	// ListLedgerEvents pages through the journal in cursor order
	ListLedgerEvents(ctx context.Context, filter LedgerEventFilter) ([]*schema.LedgerEvent, error)

	// GetSettings returns the administrative settings row, nil before bootstrap
	GetSettings(ctx context.Context) (*schema.LedgerSettings, error)
	// SaveSettings upserts the administrative settings row
	SaveSettings(ctx context.Context, settings *schema.LedgerSettings) error

	// CreateWebhookClient registers a webhook client
	CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error
	// ListActiveWebhookClients returns all active webhook clients
	ListActiveWebhookClients(ctx context.Context) ([]*schema.WebhookClient, error)
	// SaveWebhookDelivery upserts a delivery attempt record
	SaveWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error
	// GetWebhookDelivery retrieves a delivery record, nil when missing
	GetWebhookDelivery(ctx context.Context, clientID, eventID string) (*schema.WebhookDelivery, error)

	// GetValue reads a key from the key-value table ("" when absent)
	GetValue(ctx context.Context, key string) (string, error)
	// SetValue writes a key in the key-value table
	SetValue(ctx context.Context, key, value string) error
}
