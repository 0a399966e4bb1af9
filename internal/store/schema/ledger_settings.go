package schema

import "time"

// LedgerSettings represents the ledger_settings table - a single row holding
// the administrative wiring of the deployment. Setters reject empty values.
type LedgerSettings struct {
	// ID is always 1; the table holds one row
	ID uint64 `gorm:"column:id;primaryKey"`
	// Controller is the identity permitted to call issuance, deposit, settle
	// and administrative operations
	Controller string `gorm:"column:controller;not null;type:text"`
	// AccountingEngine is the address of the dividend accounting engine when
	// ledger and engine are hosted as separate deployments
	AccountingEngine string `gorm:"column:accounting_engine;not null;type:text"`
	// TranchingHelper is the address of the external tranching/entitlement helper
	TranchingHelper string `gorm:"column:tranching_helper;not null;type:text"`
	// UpdatedAt is the timestamp when settings were last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the LedgerSettings model
func (LedgerSettings) TableName() string {
	return "ledger_settings"
}
