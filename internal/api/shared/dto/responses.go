package dto

import (
	"encoding/json"
	"time"

	"github.com/structfi/bondledger/internal/dividend"
	"github.com/structfi/bondledger/internal/store/schema"
	internalTypes "github.com/structfi/bondledger/internal/types"
)

// CreateClassResponse represents the response for creating a bond class
type CreateClassResponse struct {
	ClassID uint64 `json:"class_id"`
}

// CreateNonceResponse represents the response for opening an issuance batch
type CreateNonceResponse struct {
	ClassID uint64 `json:"class_id"`
	NonceID uint64 `json:"nonce_id"`
}

// ClassResponse represents a bond class
type ClassResponse struct {
	ClassID            uint64               `json:"class_id"`
	AgentID            string               `json:"agent_id"`
	CouponRateBps      uint32               `json:"coupon_rate_bps"`
	MaturityPeriodSecs int64                `json:"maturity_period_seconds"`
	SharpeRatioAtIssue uint32               `json:"sharpe_ratio_at_issue"`
	MaxSupply          internalTypes.BigInt `json:"max_supply"`
	Tranche            string               `json:"tranche"`
	PaymentAsset       string               `json:"payment_asset"`
	CreatedAt          time.Time            `json:"created_at"`
}

// ClassResponseFromSchema converts a stored bond class to its API form
func ClassResponseFromSchema(class *schema.BondClass) ClassResponse {
	return ClassResponse{
		ClassID:            class.ID,
		AgentID:            class.AgentID,
		CouponRateBps:      class.CouponRateBps,
		MaturityPeriodSecs: class.MaturityPeriod,
		SharpeRatioAtIssue: class.SharpeRatioAtIssue,
		MaxSupply:          class.MaxSupply,
		Tranche:            string(class.Tranche),
		PaymentAsset:       class.PaymentAsset,
		CreatedAt:          class.CreatedAt,
	}
}

// NonceResponse represents an issuance batch within a class
type NonceResponse struct {
	ClassID      uint64               `json:"class_id"`
	NonceID      uint64               `json:"nonce_id"`
	PricePerBond internalTypes.BigInt `json:"price_per_bond"`
	IssuedAt     time.Time            `json:"issued_at"`
	MaturesAt    time.Time            `json:"matures_at"`
	Redeemable   bool                 `json:"redeemable"`
	TotalIssued  internalTypes.BigInt `json:"total_issued"`
	TotalSupply  internalTypes.BigInt `json:"total_supply"`
}

// NonceResponseFromSchema converts a stored bond nonce to its API form
func NonceResponseFromSchema(nonce *schema.BondNonce) NonceResponse {
	return NonceResponse{
		ClassID:      nonce.ClassID,
		NonceID:      nonce.NonceID,
		PricePerBond: nonce.PricePerBond,
		IssuedAt:     nonce.IssuedAt,
		MaturesAt:    nonce.MaturesAt,
		Redeemable:   nonce.Redeemable,
		TotalIssued:  nonce.TotalIssued,
		TotalSupply:  nonce.TotalSupply,
	}
}

// BalanceResponse represents a holder's balance in one series
type BalanceResponse struct {
	Holder  string               `json:"holder"`
	ClassID uint64               `json:"class_id"`
	NonceID uint64               `json:"nonce_id"`
	Balance internalTypes.BigInt `json:"balance"`
}

// AgentClassesResponse represents the classes issued by one agent
type AgentClassesResponse struct {
	AgentID  string          `json:"agent_id"`
	ClassIDs []uint64        `json:"class_ids,omitempty"`
	Classes  []ClassResponse `json:"classes,omitempty"`
}

// ApprovalResponse represents an operator approval state
type ApprovalResponse struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// ClaimableResponse represents the claimable dividend amount for one asset
type ClaimableResponse struct {
	Holder    string               `json:"holder"`
	ClassID   uint64               `json:"class_id"`
	NonceID   uint64               `json:"nonce_id"`
	Asset     string               `json:"asset"`
	Claimable internalTypes.BigInt `json:"claimable"`
}

// ClaimResponse represents one paid-out claim
type ClaimResponse struct {
	Asset  string               `json:"asset"`
	Amount internalTypes.BigInt `json:"amount"`
}

// ClaimAllResponse represents the per-asset payouts of a claim-all
type ClaimAllResponse struct {
	Holder  string          `json:"holder"`
	ClassID uint64          `json:"class_id"`
	NonceID uint64          `json:"nonce_id"`
	Claims  []ClaimResponse `json:"claims"`
}

// ClaimAllResponseFromResults converts engine claim results to their API form
func ClaimAllResponseFromResults(holder string, classID, nonceID uint64, results []dividend.ClaimResult) ClaimAllResponse {
	claims := make([]ClaimResponse, 0, len(results))
	for _, result := range results {
		claims = append(claims, ClaimResponse{
			Asset:  result.Asset,
			Amount: result.Amount,
		})
	}
	return ClaimAllResponse{
		Holder:  holder,
		ClassID: classID,
		NonceID: nonceID,
		Claims:  claims,
	}
}

// DepositedAssetsResponse represents the assets ever deposited into a series
type DepositedAssetsResponse struct {
	ClassID uint64   `json:"class_id"`
	NonceID uint64   `json:"nonce_id"`
	Assets  []string `json:"assets"`
}

// WaterfallResponse represents the split of a waterfall deposit
type WaterfallResponse struct {
	SeniorAmount internalTypes.BigInt `json:"senior_amount"`
	JuniorAmount internalTypes.BigInt `json:"junior_amount"`
}

// SettingsResponse represents the ledger admin addresses
type SettingsResponse struct {
	Controller       string    `json:"controller"`
	AccountingEngine string    `json:"accounting_engine"`
	TranchingHelper  string    `json:"tranching_helper"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EventResponse represents one journaled ledger event
type EventResponse struct {
	Cursor     int64           `json:"cursor"`
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	ClassID    *uint64         `json:"class_id,omitempty"`
	NonceID    *uint64         `json:"nonce_id,omitempty"`
	Meta       json.RawMessage `json:"meta"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ListEventsResponse represents a page of the event journal.
// NextCursor is the anchor to pass as after_cursor for the next page.
type ListEventsResponse struct {
	Events     []EventResponse `json:"events"`
	NextCursor int64           `json:"next_cursor"`
}

// EventResponseFromSchema converts a journaled event to its API form
func EventResponseFromSchema(event *schema.LedgerEvent) EventResponse {
	return EventResponse{
		Cursor:     event.Cursor,
		EventID:    event.EventID,
		EventType:  string(event.EventType),
		ClassID:    event.ClassID,
		NonceID:    event.NonceID,
		Meta:       json.RawMessage(event.Meta),
		OccurredAt: event.OccurredAt,
	}
}

// CreateWebhookClientResponse represents the response for creating a webhook client
type CreateWebhookClientResponse struct {
	ClientID      string    `json:"client_id"`
	WebhookURL    string    `json:"webhook_url"`
	WebhookSecret string    `json:"webhook_secret"`
	EventFilters  []string  `json:"event_filters"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
