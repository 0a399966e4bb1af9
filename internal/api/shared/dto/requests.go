package dto

import (
	"fmt"

	apierrors "github.com/structfi/bondledger/internal/api/shared/errors"
	"github.com/structfi/bondledger/internal/domain"
	internalTypes "github.com/structfi/bondledger/internal/types"
	"github.com/structfi/bondledger/internal/webhook"
)

// BondLeg addresses one (class, nonce, amount) triple within a multi-series
// operation
type BondLeg struct {
	ClassID uint64               `json:"class_id"`
	NonceID uint64               `json:"nonce_id"`
	Amount  internalTypes.BigInt `json:"amount"`
}

// validateLegs checks that at least one leg is present and every amount is positive
func validateLegs(legs []BondLeg) error {
	if len(legs) == 0 {
		return apierrors.NewValidationError("legs is required and must not be empty")
	}
	for i, leg := range legs {
		if leg.Amount.Sign() <= 0 {
			return apierrors.NewValidationError(fmt.Sprintf("legs[%d].amount must be positive", i))
		}
	}
	return nil
}

// DomainLegs converts request legs to their domain form
func DomainLegs(legs []BondLeg) []domain.BondLeg {
	out := make([]domain.BondLeg, 0, len(legs))
	for _, leg := range legs {
		out = append(out, domain.BondLeg{
			ClassID: leg.ClassID,
			NonceID: leg.NonceID,
			Amount:  leg.Amount,
		})
	}
	return out
}

// CreateClassRequest represents the request body for creating a bond class
type CreateClassRequest struct {
	AgentID            string               `json:"agent_id"`
	CouponRateBps      uint32               `json:"coupon_rate_bps"`
	MaturityPeriodSecs int64                `json:"maturity_period_seconds"`
	SharpeRatioAtIssue uint32               `json:"sharpe_ratio_at_issue"`
	MaxSupply          internalTypes.BigInt `json:"max_supply"`
	Tranche            string               `json:"tranche"`
	PaymentAsset       string               `json:"payment_asset"`
}

// Validate validates the request body
func (r *CreateClassRequest) Validate() error {
	if r.AgentID == "" {
		return apierrors.NewValidationError("agent_id is required")
	}
	if r.MaturityPeriodSecs <= 0 {
		return apierrors.NewValidationError("maturity_period_seconds must be positive")
	}
	if r.MaxSupply.Sign() <= 0 {
		return apierrors.NewValidationError("max_supply must be positive")
	}
	if !domain.IsValidTranche(domain.Tranche(r.Tranche)) {
		return apierrors.NewValidationError(fmt.Sprintf("unknown tranche: %s", r.Tranche))
	}
	if _, err := domain.ParseAsset(r.PaymentAsset); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid payment_asset: %s", r.PaymentAsset))
	}
	return nil
}

// CreateNonceRequest represents the request body for opening an issuance batch
type CreateNonceRequest struct {
	PricePerBond internalTypes.BigInt `json:"price_per_bond"`
}

// Validate validates the request body
func (r *CreateNonceRequest) Validate() error {
	if r.PricePerBond.Sign() < 0 {
		return apierrors.NewValidationError("price_per_bond must not be negative")
	}
	return nil
}

// IssueRequest represents the request body for issuing bonds to a holder
type IssueRequest struct {
	Holder string    `json:"holder"`
	Legs   []BondLeg `json:"legs"`
}

// Validate validates the request body
func (r *IssueRequest) Validate() error {
	if r.Holder == "" {
		return apierrors.NewValidationError("holder is required")
	}
	return validateLegs(r.Legs)
}

// TransferRequest represents the request body for transferring bonds.
// The caller is the authenticated holder; From may be another holder when the
// caller is an approved operator.
type TransferRequest struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Legs []BondLeg `json:"legs"`
}

// Validate validates the request body
func (r *TransferRequest) Validate() error {
	if r.From == "" {
		return apierrors.NewValidationError("from is required")
	}
	if r.To == "" {
		return apierrors.NewValidationError("to is required")
	}
	return validateLegs(r.Legs)
}

// RedeemRequest represents the request body for redeeming matured bonds
type RedeemRequest struct {
	Holder string    `json:"holder"`
	Legs   []BondLeg `json:"legs"`
}

// Validate validates the request body
func (r *RedeemRequest) Validate() error {
	if r.Holder == "" {
		return apierrors.NewValidationError("holder is required")
	}
	return validateLegs(r.Legs)
}

// SetApprovalRequest represents the request body for granting or revoking an
// operator. The owner is the authenticated holder.
type SetApprovalRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// Validate validates the request body
func (r *SetApprovalRequest) Validate() error {
	if r.Operator == "" {
		return apierrors.NewValidationError("operator is required")
	}
	return nil
}

// DepositRequest represents the request body for a dividend deposit
type DepositRequest struct {
	Depositor string               `json:"depositor"`
	ClassID   uint64               `json:"class_id"`
	NonceID   uint64               `json:"nonce_id"`
	Asset     string               `json:"asset"`
	Amount    internalTypes.BigInt `json:"amount"`
}

// Validate validates the request body
func (r *DepositRequest) Validate() error {
	if r.Depositor == "" {
		return apierrors.NewValidationError("depositor is required")
	}
	if _, err := domain.ParseAsset(r.Asset); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid asset: %s", r.Asset))
	}
	if r.Amount.Sign() <= 0 {
		return apierrors.NewValidationError("amount must be positive")
	}
	return nil
}

// ClaimRequest represents the request body for claiming accrued dividends.
// The holder is the authenticated subject.
type ClaimRequest struct {
	ClassID uint64 `json:"class_id"`
	NonceID uint64 `json:"nonce_id"`
	Asset   string `json:"asset"`
}

// Validate validates the request body
func (r *ClaimRequest) Validate() error {
	if _, err := domain.ParseAsset(r.Asset); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid asset: %s", r.Asset))
	}
	return nil
}

// ClaimAllRequest represents the request body for claiming every deposited asset
type ClaimAllRequest struct {
	ClassID uint64 `json:"class_id"`
	NonceID uint64 `json:"nonce_id"`
}

// SettleRequest represents the request body for an explicit settlement of two
// parties at their pre-delta balances
type SettleRequest struct {
	From    string               `json:"from"`
	To      string               `json:"to"`
	ClassID uint64               `json:"class_id"`
	NonceID uint64               `json:"nonce_id"`
	Amount  internalTypes.BigInt `json:"amount"`
}

// Validate validates the request body
func (r *SettleRequest) Validate() error {
	if r.From == "" && r.To == "" {
		return apierrors.NewValidationError("from and to must not both be empty")
	}
	if r.Amount.Sign() <= 0 {
		return apierrors.NewValidationError("amount must be positive")
	}
	return nil
}

// WaterfallRequest represents the request body for a two-tier waterfall deposit
type WaterfallRequest struct {
	Depositor         string               `json:"depositor"`
	SeniorClassID     uint64               `json:"senior_class_id"`
	SeniorNonceID     uint64               `json:"senior_nonce_id"`
	JuniorClassID     uint64               `json:"junior_class_id"`
	JuniorNonceID     uint64               `json:"junior_nonce_id"`
	Asset             string               `json:"asset"`
	TotalAmount       internalTypes.BigInt `json:"total_amount"`
	SeniorEntitlement internalTypes.BigInt `json:"senior_entitlement"`
}

// Validate validates the request body
func (r *WaterfallRequest) Validate() error {
	if r.Depositor == "" {
		return apierrors.NewValidationError("depositor is required")
	}
	if _, err := domain.ParseAsset(r.Asset); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid asset: %s", r.Asset))
	}
	if r.TotalAmount.Sign() <= 0 {
		return apierrors.NewValidationError("total_amount must be positive")
	}
	if r.SeniorEntitlement.Sign() < 0 {
		return apierrors.NewValidationError("senior_entitlement must not be negative")
	}
	return nil
}

// SetAddressRequest represents the request body for updating an admin address
type SetAddressRequest struct {
	Address string `json:"address"`
}

// Validate validates the request body
func (r *SetAddressRequest) Validate() error {
	if r.Address == "" {
		return apierrors.NewValidationError("address is required")
	}
	return nil
}

// CreateWebhookClientRequest represents the request body for creating a webhook client
type CreateWebhookClientRequest struct {
	WebhookURL   string   `json:"webhook_url"`
	EventFilters []string `json:"event_filters"`
}

// Validate validates the request body
func (r *CreateWebhookClientRequest) Validate(debug bool) error {
	// Validate: webhook URL must be provided
	if r.WebhookURL == "" {
		return apierrors.NewValidationError("webhook_url is required")
	}

	// Validate: webhook URL must be valid. Plain HTTP is only allowed in debug
	// deployments.
	if debug {
		if !internalTypes.IsValidURL(r.WebhookURL) {
			return apierrors.NewValidationError("webhook_url must be a valid URL")
		}
	} else {
		if !internalTypes.IsHTTPSURL(r.WebhookURL) {
			return apierrors.NewValidationError("webhook_url must be a valid HTTPS URL")
		}
	}

	// Validate: event filters must be provided
	if len(r.EventFilters) == 0 {
		return apierrors.NewValidationError("event_filters is required and must not be empty")
	}

	// Validate: each event filter must be supported
	for _, eventType := range r.EventFilters {
		if !webhook.IsValidEventType(eventType) {
			return apierrors.NewValidationError(fmt.Sprintf("unsupported event type: %s. Supported types: %v", eventType, webhook.SupportedEventTypes))
		}
	}

	return nil
}
