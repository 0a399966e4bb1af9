package schema

import "time"

// OperatorApproval represents the operator_approvals table - owner-granted
// permissions for an operator to transfer the owner's units. Self-approval is
// rejected at the service layer.
type OperatorApproval struct {
	// Owner is the address granting the approval
	Owner string `gorm:"column:owner;primaryKey;type:text"`
	// Operator is the address being approved
	Operator string `gorm:"column:operator;primaryKey;type:text"`
	// Approved is the current approval state
	Approved bool `gorm:"column:approved;not null;default:false"`
	// UpdatedAt is the timestamp when this approval was last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OperatorApproval model
func (OperatorApproval) TableName() string {
	return "operator_approvals"
}
