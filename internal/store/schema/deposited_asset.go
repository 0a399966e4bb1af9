package schema

import "time"

// DepositedAsset represents the deposited_assets table - the insertion-ordered,
// de-duplicated set of assets ever deposited into one series. Enumerated by
// claim-all, settlement and reporting; the serial primary key preserves
// first-deposit order.
type DepositedAsset struct {
	// ID is an auto-incrementing sequence number preserving insertion order
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ClassID references the bond class
	ClassID uint64 `gorm:"column:class_id;not null;uniqueIndex:idx_deposited_assets_key,priority:1"`
	// NonceID references the batch within the class
	NonceID uint64 `gorm:"column:nonce_id;not null;uniqueIndex:idx_deposited_assets_key,priority:2"`
	// Asset is the canonical payment asset identifier
	Asset string `gorm:"column:asset;not null;type:text;uniqueIndex:idx_deposited_assets_key,priority:3"`
	// CreatedAt is the timestamp of the first deposit of this asset
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the DepositedAsset model
func (DepositedAsset) TableName() string {
	return "deposited_assets"
}
