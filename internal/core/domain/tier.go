package domain

import "github.com/shopspring/decimal"

// TierApprover is one ordered entry in a tier's fixed approver list.
type TierApprover struct {
	MemberID string `json:"memberID"`
	Label    string `json:"label"`
}

// ApprovalTier maps an inclusive amount range to a fixed, ordered approver
// list for one company and document type. Sibling tiers of the same
// company+document type must not overlap; enforced at write time.
type ApprovalTier struct {
	TierID       string           `json:"tierID"`
	CompanyID    string           `json:"companyID"`
	DocumentType DocumentType     `json:"documentType"`
	Name         string           `json:"name"`
	MinAmount    decimal.Decimal  `json:"minAmount"`
	MaxAmount    *decimal.Decimal `json:"maxAmount"` // nil = unbounded above
	Approvers    []TierApprover   `json:"approvers"`
	AuditFields
}

// Contains reports whether amount falls inside the tier's inclusive range.
func (t ApprovalTier) Contains(amount decimal.Decimal) bool {
	if amount.Cmp(t.MinAmount) < 0 {
		return false
	}
	if t.MaxAmount != nil && amount.Cmp(*t.MaxAmount) > 0 {
		return false
	}
	return true
}

// Overlaps reports whether two tiers' inclusive ranges intersect.
func (t ApprovalTier) Overlaps(other ApprovalTier) bool {
	if t.MaxAmount != nil && other.MinAmount.Cmp(*t.MaxAmount) > 0 {
		return false
	}
	if other.MaxAmount != nil && t.MinAmount.Cmp(*other.MaxAmount) > 0 {
		return false
	}
	return true
}
