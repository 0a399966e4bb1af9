package schema

import (
	"time"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/types"
)

// BondClass represents the bond_classes table - a family of bond units sharing
// coupon, maturity and tranche terms, backed by one revenue-producing agent.
// Rows are immutable after creation.
type BondClass struct {
	// ID is the sequential class identifier, starting at 1
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AgentID references the backing revenue-producing agent
	AgentID string `gorm:"column:agent_id;not null;type:text;index:idx_bond_classes_agent_tranche,priority:1"`
	// CouponRateBps is the coupon rate in basis points
	CouponRateBps uint32 `gorm:"column:coupon_rate_bps;not null"`
	// MaturityPeriod is the duration from nonce issuance to maturity, in seconds
	MaturityPeriod int64 `gorm:"column:maturity_period;not null"`
	// SharpeRatioAtIssue is the agent's risk score at class creation, in basis points
	SharpeRatioAtIssue uint32 `gorm:"column:sharpe_ratio_at_issue;not null"`
	// MaxSupply caps issuance; scope (per nonce or per class) is a deployment policy
	MaxSupply types.BigInt `gorm:"column:max_supply;not null"`
	// Tranche is the seniority tier (standard, senior, junior)
	Tranche domain.Tranche `gorm:"column:tranche;not null;type:text;index:idx_bond_classes_agent_tranche,priority:2"`
	// PaymentAsset is the canonical asset identifier coupons are paid in
	PaymentAsset string `gorm:"column:payment_asset;not null;type:text"`
	// CreatedAt is the timestamp when this class was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Nonces []BondNonce `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the BondClass model
func (BondClass) TableName() string {
	return "bond_classes"
}
