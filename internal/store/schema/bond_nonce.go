package schema

import (
	"time"

	"github.com/structfi/bondledger/internal/types"
)

// BondNonce represents the bond_nonces table - one issuance batch within a
// class, with its own price and maturity clock. MaturesAt is fixed at creation.
type BondNonce struct {
	// ClassID references the parent bond class
	ClassID uint64 `gorm:"column:class_id;primaryKey;autoIncrement:false"`
	// NonceID is the sequential batch number within the class, starting at 0
	NonceID uint64 `gorm:"column:nonce_id;primaryKey;autoIncrement:false"`
	// PricePerBond is the issue price of one unit in the class payment asset
	PricePerBond types.BigInt `gorm:"column:price_per_bond;not null"`
	// IssuedAt is the batch creation timestamp
	IssuedAt time.Time `gorm:"column:issued_at;not null;type:timestamptz"`
	// MaturesAt is IssuedAt plus the class maturity period
	MaturesAt time.Time `gorm:"column:matures_at;not null;type:timestamptz"`
	// TotalIssued is the cumulative number of units ever issued for this batch
	TotalIssued types.BigInt `gorm:"column:total_issued;not null"`
	// TotalSupply is the number of units currently outstanding
	// (total issued minus redeemed and burned)
	TotalSupply types.BigInt `gorm:"column:total_supply;not null"`
	// Redeemable is a one-way idempotent flag allowing principal redemption
	Redeemable bool `gorm:"column:redeemable;not null;default:false"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Class BondClass `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the BondNonce model
func (BondNonce) TableName() string {
	return "bond_nonces"
}
