package schema

import (
	"time"

	"github.com/structfi/bondledger/internal/types"
)

// HolderPosition represents the holder_positions table - per (holder, series,
// asset) accounting state. Debt is the accumulator-denominated baseline that
// prevents double-paying past distributions; Pending is accrual frozen across
// balance-changing events and released at claim time.
type HolderPosition struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Holder is the unit owner's address
	Holder string `gorm:"column:holder;not null;type:text;uniqueIndex:idx_holder_positions_key,priority:1"`
	// ClassID references the bond class
	ClassID uint64 `gorm:"column:class_id;not null;uniqueIndex:idx_holder_positions_key,priority:2"`
	// NonceID references the batch within the class
	NonceID uint64 `gorm:"column:nonce_id;not null;uniqueIndex:idx_holder_positions_key,priority:3"`
	// Asset is the canonical payment asset identifier
	Asset string `gorm:"column:asset;not null;type:text;uniqueIndex:idx_holder_positions_key,priority:4"`
	// Debt is balance*acc_per_unit/Precision as of the holder's last settlement
	Debt types.BigInt `gorm:"column:debt;not null"`
	// Pending is accrual frozen by settlements, not yet claimed
	Pending types.BigInt `gorm:"column:pending;not null"`
	// TotalClaimed is the cumulative amount ever paid out to the holder
	TotalClaimed types.BigInt `gorm:"column:total_claimed;not null"`
	// UpdatedAt is the timestamp when this position was last touched
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the HolderPosition model
func (HolderPosition) TableName() string {
	return "holder_positions"
}
