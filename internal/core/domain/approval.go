package domain

import "time"

// ApprovalAction is the decision a single approver records on their step.
type ApprovalAction string

const (
	ActionApprove  ApprovalAction = "approve"
	ActionReject   ApprovalAction = "reject"
	ActionRevision ApprovalAction = "revision"
)

// ValidApprovalAction reports whether a is one of the supported actions.
func ValidApprovalAction(a ApprovalAction) bool {
	switch a {
	case ActionApprove, ActionReject, ActionRevision:
		return true
	}
	return false
}

// Approval is one step record of a document's resolved approval chain.
// Step numbers are contiguous starting at 1. Action is nil until the
// approver acts; the record is mutated exactly once in normal flow.
type Approval struct {
	ApprovalID   string          `json:"approvalID"`
	CompanyID    string          `json:"companyID"`
	DocumentType DocumentType    `json:"documentType"`
	DocumentID   string          `json:"documentID"`
	Step         int             `json:"step"`
	ApproverID   string          `json:"approverID"` // MemberID reference
	Label        string          `json:"label"`
	Action       *ApprovalAction `json:"action"`
	Comment      string          `json:"comment"`
	ActedAt      *time.Time      `json:"actedAt"`
	AuditFields
}

// Acted reports whether the step has been decided.
func (a Approval) Acted() bool {
	return a.Action != nil
}

// ChainStep is one resolved (step, approver) pair produced by the chain
// resolver or the escalation resolver, before it is persisted as Approval
// records.
type ChainStep struct {
	Step       int    `json:"step"`
	ApproverID string `json:"approverID"`
	Label      string `json:"label"`
}

// NextDocumentStatus is the approval state machine's terminal-status rule:
// reject and revision short-circuit the whole chain immediately; approve
// completes the document only once every step is approved, regardless of
// step order.
func NextDocumentStatus(action ApprovalAction, allApproved bool) DocumentStatus {
	switch action {
	case ActionReject:
		return DocStatusRejected
	case ActionRevision:
		return DocStatusRevision
	case ActionApprove:
		if allApproved {
			return DocStatusApproved
		}
	}
	return DocStatusPendingApproval
}

// AllApproved reports whether every record in the set carries an approve
// action. An empty set is not considered approved.
func AllApproved(approvals []Approval) bool {
	if len(approvals) == 0 {
		return false
	}
	for _, a := range approvals {
		if a.Action == nil || *a.Action != ActionApprove {
			return false
		}
	}
	return true
}
