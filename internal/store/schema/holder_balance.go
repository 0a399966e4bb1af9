package schema

import (
	"time"

	"github.com/structfi/bondledger/internal/types"
)

// HolderBalance represents the holder_balances table - units of one series
// owned by one holder. Zero is a valid terminal value; rows are never deleted.
// Invariant: the sum over holders equals the nonce's total_supply.
type HolderBalance struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Holder is the unit owner's address
	Holder string `gorm:"column:holder;not null;type:text;uniqueIndex:idx_holder_balances_series,priority:1"`
	// ClassID references the bond class
	ClassID uint64 `gorm:"column:class_id;not null;uniqueIndex:idx_holder_balances_series,priority:2"`
	// NonceID references the batch within the class
	NonceID uint64 `gorm:"column:nonce_id;not null;uniqueIndex:idx_holder_balances_series,priority:3"`
	// Amount is the number of units held
	Amount types.BigInt `gorm:"column:amount;not null"`
	// CreatedAt is the timestamp when this balance row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the HolderBalance model
func (HolderBalance) TableName() string {
	return "holder_balances"
}
