package domain

import "github.com/shopspring/decimal"

// Member is one node of a company's organization hierarchy. OrgLevel orders
// members for node resolution and escalation; MaxApprovalAmount caps the
// amounts the member may sign off (nil = unlimited). ReportsToMemberID forms
// a forest and is cycle-checked before write.
type Member struct {
	MemberID          string           `json:"memberID"`
	CompanyID         string           `json:"companyID"`
	UserID            *string          `json:"userID"` // optional link to a login user
	Name              string           `json:"name"`
	OrgLevel          *int             `json:"orgLevel"`
	MaxApprovalAmount *decimal.Decimal `json:"maxApprovalAmount"`
	ReportsToMemberID *string          `json:"reportsToMemberID"`
	IsActive          bool             `json:"isActive"`
	AuditFields
}

// CanApprove reports whether the member's approval cap covers the amount.
// A nil cap means unlimited authority.
func (m Member) CanApprove(amount decimal.Decimal) bool {
	return m.MaxApprovalAmount == nil || m.MaxApprovalAmount.Cmp(amount) >= 0
}

// EffectiveOrgLevel returns the member's organizational level, defaulting to
// 1 when unset.
func (m Member) EffectiveOrgLevel() int {
	if m.OrgLevel == nil {
		return 1
	}
	return *m.OrgLevel
}
