package services

import (
	"context"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// ApprovalSubmitterSvc starts the approval workflow for a document.
type ApprovalSubmitterSvc interface {
	// SubmitForApproval resolves the approval chain for the document (tier
	// catalog first, then the default flow, then the last-resort single
	// step), replaces any prior approval records and sets the document
	// status to pending approval.
	SubmitForApproval(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) ([]domain.Approval, error)
}

// ApprovalActorSvc records approver decisions.
type ApprovalActorSvc interface {
	// ProcessApproval records an action on one approval step and propagates
	// the terminal document status: reject/revision short-circuit the chain,
	// approve completes the document once every step is approved.
	ProcessApproval(ctx context.Context, approvalID string, action domain.ApprovalAction, comment string, requestingUserID string) (*domain.Approval, domain.DocumentStatus, error)
}

// ApprovalReaderSvc defines read-only approval queries.
type ApprovalReaderSvc interface {
	// ListPendingForUser retrieves the unacted approval steps assigned to
	// members linked to the given user. Dashboard query, not part of the
	// resolution algorithm.
	ListPendingForUser(ctx context.Context, userID string) ([]domain.Approval, error)

	// ListDocumentApprovals retrieves all approval records of a document.
	ListDocumentApprovals(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) ([]domain.Approval, error)
}

// ApprovalSvcFacade combines all approval workflow service interfaces.
type ApprovalSvcFacade interface {
	ApprovalSubmitterSvc
	ApprovalActorSvc
	ApprovalReaderSvc
}
