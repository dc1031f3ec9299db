package dto

import (
	"time"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// SubmitForApprovalRequest asks the engine to resolve and persist the
// approval chain for one document.
type SubmitForApprovalRequest struct {
	DocumentType domain.DocumentType `json:"documentType" binding:"required,oneof=pr po ap"`
	DocumentID   string              `json:"documentID" binding:"required"`
}

// ProcessApprovalRequest records one approver's decision on a step.
type ProcessApprovalRequest struct {
	Action  domain.ApprovalAction `json:"action" binding:"required,oneof=approve reject revision"`
	Comment string                `json:"comment"`
}

// ApprovalResponse defines the data returned for one approval step record.
type ApprovalResponse struct {
	ApprovalID   string                 `json:"approvalID"`
	DocumentType domain.DocumentType    `json:"documentType"`
	DocumentID   string                 `json:"documentID"`
	Step         int                    `json:"step"`
	ApproverID   string                 `json:"approverID"`
	Label        string                 `json:"label"`
	Action       *domain.ApprovalAction `json:"action"`
	Comment      string                 `json:"comment,omitempty"`
	ActedAt      *time.Time             `json:"actedAt,omitempty"`
}

// SubmitForApprovalResponse returns the resolved chain and the document
// status after submission.
type SubmitForApprovalResponse struct {
	DocumentStatus domain.DocumentStatus `json:"documentStatus"`
	Steps          []ApprovalResponse    `json:"steps"`
}

// ProcessApprovalResponse returns the acted record and the resulting
// document status.
type ProcessApprovalResponse struct {
	Approval       ApprovalResponse      `json:"approval"`
	DocumentStatus domain.DocumentStatus `json:"documentStatus"`
}

// ToApprovalResponse converts a domain.Approval to ApprovalResponse.
func ToApprovalResponse(a *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		ApprovalID:   a.ApprovalID,
		DocumentType: a.DocumentType,
		DocumentID:   a.DocumentID,
		Step:         a.Step,
		ApproverID:   a.ApproverID,
		Label:        a.Label,
		Action:       a.Action,
		Comment:      a.Comment,
		ActedAt:      a.ActedAt,
	}
}

// ToListApprovalResponse converts a slice of domain.Approval to DTOs.
func ToListApprovalResponse(approvals []domain.Approval) []ApprovalResponse {
	res := make([]ApprovalResponse, len(approvals))
	for i := range approvals {
		res[i] = ToApprovalResponse(&approvals[i])
	}
	return res
}
