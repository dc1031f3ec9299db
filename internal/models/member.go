package models

import "github.com/shopspring/decimal"

// Member represents a row in the organization members table.
type Member struct {
	MemberID          string           `db:"member_id"`
	CompanyID         string           `db:"company_id"`
	UserID            *string          `db:"user_id"`
	Name              string           `db:"name"`
	OrgLevel          *int             `db:"org_level"`
	MaxApprovalAmount *decimal.Decimal `db:"max_approval_amount"`
	ReportsToMemberID *string          `db:"reports_to_member_id"`
	IsActive          bool             `db:"is_active"`
	AuditFields
}
