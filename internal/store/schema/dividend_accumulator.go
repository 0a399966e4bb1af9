package schema

import (
	"time"

	"github.com/structfi/bondledger/internal/types"
)

// DividendAccumulator represents the dividend_accumulators table - cumulative
// dividend owed per unit for one (series, asset), fixed-point scaled by
// domain.Precision. AccPerUnit never decreases or resets.
type DividendAccumulator struct {
	// ClassID references the bond class
	ClassID uint64 `gorm:"column:class_id;primaryKey;autoIncrement:false"`
	// NonceID references the batch within the class
	NonceID uint64 `gorm:"column:nonce_id;primaryKey;autoIncrement:false"`
	// Asset is the canonical payment asset identifier
	Asset string `gorm:"column:asset;primaryKey;type:text"`
	// AccPerUnit is the cumulative dividend per unit since series inception,
	// scaled by domain.Precision
	AccPerUnit types.BigInt `gorm:"column:acc_per_unit;not null"`
	// TotalDeposited is the cumulative amount ever deposited for this series/asset
	TotalDeposited types.BigInt `gorm:"column:total_deposited;not null"`
	// UpdatedAt is the timestamp of the latest deposit
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the DividendAccumulator model
func (DividendAccumulator) TableName() string {
	return "dividend_accumulators"
}
