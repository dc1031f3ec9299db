package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
)

// approvalService drives the approval workflow: chain resolution on submit,
// per-step action recording, and terminal status propagation.
type approvalService struct {
	BaseService
	approvalRepo portsrepo.ApprovalRepositoryWithTx
	documentRepo portsrepo.DocumentReader
	flowRepo     portsrepo.FlowReader
	memberRepo   portsrepo.MemberReader
	tierSvc      portssvc.TierReaderSvc
	chains       *chainResolver
	escalation   *escalationResolver
}

// NewApprovalService creates the approval workflow service.
func NewApprovalService(
	approvalRepo portsrepo.ApprovalRepositoryWithTx,
	documentRepo portsrepo.DocumentReader,
	flowRepo portsrepo.FlowReader,
	memberRepo portsrepo.MemberReader,
	tierSvc portssvc.TierReaderSvc,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ApprovalSvcFacade {
	return &approvalService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		approvalRepo: approvalRepo,
		documentRepo: documentRepo,
		flowRepo:     flowRepo,
		memberRepo:   memberRepo,
		tierSvc:      tierSvc,
		chains:       newChainResolver(flowRepo, memberRepo),
		escalation:   newEscalationResolver(memberRepo),
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// SubmitForApproval resolves the approval chain for the document and replaces
// any prior approval records with it. Resolution order: tier catalog by
// amount, then the default flow for the document type (auto-escalation or
// graph traversal per its flag), then a last-resort single step naming the
// highest-level member of the company.
func (s *approvalService) SubmitForApproval(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) ([]domain.Approval, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !domain.ValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}

	doc, err := s.documentRepo.FindDocument(ctx, docType, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document for submission: %w", err)
	}
	if doc.CompanyID != companyID {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}

	submitter := s.findSubmitterMember(ctx, companyID, requestingUserID)

	chain, err := s.resolveChain(ctx, *doc, submitter)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		s.LogInfo(ctx, "resolved chain is empty, falling back to highest-level member",
			slog.String("document_id", documentID))
		chain, err = s.lastResortChain(ctx, companyID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	approvals := make([]domain.Approval, len(chain))
	for i, step := range chain {
		approvals[i] = domain.Approval{
			ApprovalID:   uuid.New().String(),
			CompanyID:    companyID,
			DocumentType: docType,
			DocumentID:   documentID,
			Step:         step.Step,
			ApproverID:   step.ApproverID,
			Label:        step.Label,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		}
	}

	submittedBy := requestingUserID
	if submitter != nil {
		submittedBy = submitter.MemberID
	}
	doc.SubmittedBy = &submittedBy

	if err := s.approvalRepo.ReplaceDocumentApprovals(ctx, *doc, approvals); err != nil {
		s.LogError(ctx, err, "failed to replace approval records", slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to submit document for approval: %w", err)
	}

	s.LogInfo(ctx, "document submitted for approval",
		slog.String("document_id", documentID), slog.Int("steps", len(approvals)))
	return approvals, nil
}

// ProcessApproval records an action on one approval step. Reject and revision
// short-circuit the whole chain; approve completes the document once every
// step carries an approve action, regardless of step order.
func (s *approvalService) ProcessApproval(ctx context.Context, approvalID string, action domain.ApprovalAction, comment string, requestingUserID string) (*domain.Approval, domain.DocumentStatus, error) {
	if !domain.ValidApprovalAction(action) {
		return nil, "", fmt.Errorf("%w: unknown action %q", apperrors.ErrValidation, action)
	}

	approval, err := s.approvalRepo.FindApprovalByID(ctx, approvalID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load approval for action: %w", err)
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, approval.CompanyID, domain.RoleMember); err != nil {
		return nil, "", err
	}

	updated, status, err := s.approvalRepo.ApplyAction(ctx, approvalID, action, comment, requestingUserID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "failed to apply approval action", slog.String("approval_id", approvalID))
		return nil, "", fmt.Errorf("failed to process approval: %w", err)
	}

	s.LogInfo(ctx, "approval action recorded",
		slog.String("approval_id", approvalID),
		slog.String("action", string(action)),
		slog.String("document_status", string(status)))
	return updated, status, nil
}

// ListPendingForUser retrieves the unacted approval steps assigned to members
// linked to the given user.
func (s *approvalService) ListPendingForUser(ctx context.Context, userID string) ([]domain.Approval, error) {
	approvals, err := s.approvalRepo.ListPendingApprovalsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	if approvals == nil {
		return []domain.Approval{}, nil
	}
	return approvals, nil
}

// ListDocumentApprovals retrieves all approval records of a document.
func (s *approvalService) ListDocumentApprovals(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) ([]domain.Approval, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	approvals, err := s.approvalRepo.FindApprovalsByDocument(ctx, docType, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list document approvals: %w", err)
	}
	result := approvals[:0]
	for _, a := range approvals {
		if a.CompanyID == companyID {
			result = append(result, a)
		}
	}
	if result == nil {
		return []domain.Approval{}, nil
	}
	return result, nil
}

// resolveChain applies the resolution precedence: tier catalog first, then
// the default flow, routed through escalation or graph traversal.
func (s *approvalService) resolveChain(ctx context.Context, doc domain.Document, submitter *domain.Member) ([]domain.ChainStep, error) {
	tier, err := s.tierSvc.SelectTier(ctx, doc.CompanyID, doc.Type, doc.TotalAmount)
	if err != nil {
		return nil, err
	}
	if tier != nil {
		chain := make([]domain.ChainStep, len(tier.Approvers))
		for i, a := range tier.Approvers {
			chain[i] = domain.ChainStep{Step: i + 1, ApproverID: a.MemberID, Label: a.Label}
		}
		return chain, nil
	}

	flow, err := s.flowRepo.FindDefaultFlow(ctx, doc.CompanyID, doc.Type)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load default flow: %w", err)
	}

	if flow.AutoEscalate {
		submitterID := ""
		if submitter != nil {
			submitterID = submitter.MemberID
		}
		return s.escalation.ResolveEscalation(ctx, doc.CompanyID, submitterID, doc.TotalAmount)
	}
	return s.chains.ResolveChain(ctx, flow.FlowID, doc.CompanyID, RoutingContext{
		TotalAmount: doc.TotalAmount,
		Department:  doc.Department,
	})
}

// lastResortChain names the highest-level member of the company as a single
// approval step, so every document has at least a chance of manual approval.
// A company with no leveled members yields an empty chain; the document then
// sits in pending approval until intervened.
func (s *approvalService) lastResortChain(ctx context.Context, companyID string) ([]domain.ChainStep, error) {
	top, err := s.memberRepo.FindHighestLevelMember(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find highest-level member: %w", err)
	}
	return []domain.ChainStep{{Step: 1, ApproverID: top.MemberID, Label: top.Name}}, nil
}

// findSubmitterMember maps the requesting login user to their member record
// in the company, when one exists.
func (s *approvalService) findSubmitterMember(ctx context.Context, companyID, userID string) *domain.Member {
	members, err := s.memberRepo.ListMembersByCompany(ctx, companyID)
	if err != nil {
		s.LogDebug(ctx, "failed to map user to member, continuing without submitter",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil
	}
	for i := range members {
		if members[i].UserID != nil && *members[i].UserID == userID {
			return &members[i]
		}
	}
	return nil
}
