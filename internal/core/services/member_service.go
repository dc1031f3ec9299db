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
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

var (
	ErrReportingCycle   = errors.New("reporting relationship would introduce a cycle")
	ErrReportsToUnknown = errors.New("reports-to member does not exist in this company")
)

// memberService provides organization hierarchy member operations.
type memberService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.MemberSvcFacade {
	return &memberService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		memberRepo:  memberRepo,
	}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// CreateMember creates a member after validating that the reporting
// relationship introduces no cycle.
func (s *memberService) CreateMember(ctx context.Context, companyID string, req dto.CreateMemberRequest, userID string) (*domain.Member, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	member := domain.Member{
		MemberID:          uuid.New().String(),
		CompanyID:         companyID,
		UserID:            req.UserID,
		Name:              req.Name,
		OrgLevel:          req.OrgLevel,
		MaxApprovalAmount: req.MaxApprovalAmount,
		ReportsToMemberID: req.ReportsToMemberID,
		IsActive:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.validateReportingChain(ctx, member); err != nil {
		return nil, err
	}

	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		s.LogError(ctx, err, "failed to create member", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return &member, nil
}

// UpdateMember updates a member after re-validating the reporting chain.
func (s *memberService) UpdateMember(ctx context.Context, companyID, memberID string, req dto.UpdateMemberRequest, userID string) (*domain.Member, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	member, err := s.findCompanyMember(ctx, companyID, memberID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.UserID != nil {
		member.UserID = req.UserID
	}
	if req.OrgLevel != nil {
		member.OrgLevel = req.OrgLevel
	}
	if req.MaxApprovalAmount != nil {
		member.MaxApprovalAmount = req.MaxApprovalAmount
	}
	if req.ReportsToMemberID != nil {
		member.ReportsToMemberID = req.ReportsToMemberID
	}
	member.LastUpdatedAt = time.Now()
	member.LastUpdatedBy = userID

	if err := s.validateReportingChain(ctx, *member); err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		return nil, fmt.Errorf("failed to update member %s: %w", memberID, err)
	}
	return member, nil
}

// DeleteMember soft-deletes a member.
func (s *memberService) DeleteMember(ctx context.Context, companyID, memberID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.findCompanyMember(ctx, companyID, memberID); err != nil {
		return err
	}
	if err := s.memberRepo.DeactivateMember(ctx, memberID, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to delete member %s: %w", memberID, err)
	}
	return nil
}

// GetMemberByID retrieves one member.
func (s *memberService) GetMemberByID(ctx context.Context, companyID, memberID string, requestingUserID string) (*domain.Member, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findCompanyMember(ctx, companyID, memberID)
}

// ListMembers retrieves the active members of a company.
func (s *memberService) ListMembers(ctx context.Context, companyID string, requestingUserID string) ([]domain.Member, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListMembersByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		return []domain.Member{}, nil
	}
	return members, nil
}

// findCompanyMember loads a member and verifies it belongs to the company.
func (s *memberService) findCompanyMember(ctx context.Context, companyID, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	if member.CompanyID != companyID {
		return nil, fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}
	return member, nil
}

// validateReportingChain walks the candidate member's reports-to chain and
// rejects the write when it loops back to the member itself. Re-saving a
// member with an unchanged, already-valid chain is idempotent.
func (s *memberService) validateReportingChain(ctx context.Context, member domain.Member) error {
	seen := map[string]struct{}{member.MemberID: {}}
	next := member.ReportsToMemberID
	for next != nil {
		if _, looped := seen[*next]; looped {
			return fmt.Errorf("%w: %w via member %s", apperrors.ErrValidation, ErrReportingCycle, *next)
		}
		seen[*next] = struct{}{}

		parent, err := s.memberRepo.FindMemberByID(ctx, *next)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %w (%s)", apperrors.ErrValidation, ErrReportsToUnknown, *next)
			}
			return fmt.Errorf("failed to walk reporting chain: %w", err)
		}
		if parent.CompanyID != member.CompanyID {
			return fmt.Errorf("%w: %w (%s)", apperrors.ErrValidation, ErrReportsToUnknown, *next)
		}
		next = parent.ReportsToMemberID
	}
	return nil
}
