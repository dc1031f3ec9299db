package repositories

import (
	"context"
	"time"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// ApprovalReader defines read operations for approval step records.
type ApprovalReader interface {
	// FindApprovalByID retrieves a specific approval record.
	FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error)

	// FindApprovalsByDocument retrieves all approval records of a document
	// ordered by step.
	FindApprovalsByDocument(ctx context.Context, docType domain.DocumentType, documentID string) ([]domain.Approval, error)

	// ListPendingApprovalsForUser retrieves unacted approval records whose
	// approver member is linked to the given login user.
	ListPendingApprovalsForUser(ctx context.Context, userID string) ([]domain.Approval, error)
}

// ApprovalWriter defines transactional write operations driving the approval
// state machine.
type ApprovalWriter interface {
	// ReplaceDocumentApprovals deletes any prior approval records of the
	// document, bulk-inserts the new chain and sets the document status to
	// pending approval, all within one transaction. Resubmission is
	// destructive: old steps are discarded, never merged.
	ReplaceDocumentApprovals(ctx context.Context, doc domain.Document, approvals []domain.Approval) error

	// ApplyAction records an approver's decision on one step and writes the
	// resulting document status within the same transaction. It returns the
	// updated record and the document status after the action.
	ApplyAction(ctx context.Context, approvalID string, action domain.ApprovalAction, comment string, actedBy string, now time.Time) (*domain.Approval, domain.DocumentStatus, error)
}

// ApprovalRepositoryFacade combines all approval-record repository interfaces.
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
}

// ApprovalRepositoryWithTx extends ApprovalRepositoryFacade with transaction
// capabilities.
type ApprovalRepositoryWithTx interface {
	ApprovalRepositoryFacade
	TransactionManager
}
