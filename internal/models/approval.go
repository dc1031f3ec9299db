package models

import "time"

// Approval represents a row in the approvals table: one step of one
// document's approval chain.
type Approval struct {
	ApprovalID   string     `db:"approval_id"`
	CompanyID    string     `db:"company_id"`
	DocumentType string     `db:"document_type"`
	DocumentID   string     `db:"document_id"`
	Step         int        `db:"step"`
	ApproverID   string     `db:"approver_id"`
	Label        string     `db:"label"`
	Action       *string    `db:"action"`
	Comment      *string    `db:"comment"`
	ActedAt      *time.Time `db:"acted_at"`
	AuditFields
}
