package models

import "github.com/shopspring/decimal"

// TierApprover is one entry of a tier's approvers JSONB column.
type TierApprover struct {
	MemberID string `json:"memberID"`
	Label    string `json:"label"`
}

// ApprovalTier represents a row in the approval_tiers table.
type ApprovalTier struct {
	TierID       string           `db:"tier_id"`
	CompanyID    string           `db:"company_id"`
	DocumentType string           `db:"document_type"`
	Name         string           `db:"name"`
	MinAmount    decimal.Decimal  `db:"min_amount"`
	MaxAmount    *decimal.Decimal `db:"max_amount"`
	Approvers    []TierApprover   `db:"approvers"` // stored as JSONB
	AuditFields
}
