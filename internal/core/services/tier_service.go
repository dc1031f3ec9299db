package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

var (
	ErrTierRangeInverted = errors.New("tier max amount must not be below min amount")
	ErrTierOverlap       = errors.New("tier amount range overlaps an existing tier")
)

// tierService provides approval tier catalog operations.
type tierService struct {
	BaseService
	tierRepo portsrepo.TierRepositoryFacade
}

// NewTierService creates a new tier service.
func NewTierService(tierRepo portsrepo.TierRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.TierSvcFacade {
	return &tierService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		tierRepo:    tierRepo,
	}
}

var _ portssvc.TierSvcFacade = (*tierService)(nil)

// CreateTier creates a tier after validating non-overlap with siblings of the
// same company and document type.
func (s *tierService) CreateTier(ctx context.Context, companyID string, req dto.CreateTierRequest, userID string) (*domain.ApprovalTier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	tier := domain.ApprovalTier{
		TierID:       uuid.New().String(),
		CompanyID:    companyID,
		DocumentType: req.DocumentType,
		Name:         req.Name,
		MinAmount:    req.MinAmount,
		MaxAmount:    req.MaxAmount,
		Approvers:    toTierApprovers(req.Approvers),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.validateTier(ctx, tier); err != nil {
		return nil, err
	}

	if err := s.tierRepo.SaveTier(ctx, tier); err != nil {
		s.LogError(ctx, err, "failed to create tier", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to create tier: %w", err)
	}
	return &tier, nil
}

// UpdateTier updates a tier after re-validating non-overlap.
func (s *tierService) UpdateTier(ctx context.Context, companyID, tierID string, req dto.UpdateTierRequest, userID string) (*domain.ApprovalTier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	tier, err := s.findCompanyTier(ctx, companyID, tierID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tier.Name = *req.Name
	}
	if req.MinAmount != nil {
		tier.MinAmount = *req.MinAmount
	}
	if req.MaxAmount != nil {
		tier.MaxAmount = req.MaxAmount
	}
	if req.Approvers != nil {
		tier.Approvers = toTierApprovers(req.Approvers)
	}
	tier.LastUpdatedAt = time.Now()
	tier.LastUpdatedBy = userID

	if err := s.validateTier(ctx, *tier); err != nil {
		return nil, err
	}

	if err := s.tierRepo.UpdateTier(ctx, *tier); err != nil {
		return nil, fmt.Errorf("failed to update tier %s: %w", tierID, err)
	}
	return tier, nil
}

// DeleteTier removes a tier.
func (s *tierService) DeleteTier(ctx context.Context, companyID, tierID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.findCompanyTier(ctx, companyID, tierID); err != nil {
		return err
	}
	if err := s.tierRepo.DeleteTier(ctx, tierID, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to delete tier %s: %w", tierID, err)
	}
	return nil
}

// GetTierByID retrieves one tier.
func (s *tierService) GetTierByID(ctx context.Context, companyID, tierID string, requestingUserID string) (*domain.ApprovalTier, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findCompanyTier(ctx, companyID, tierID)
}

// ListTiers retrieves the tiers for a company and document type ordered by
// min amount.
func (s *tierService) ListTiers(ctx context.Context, companyID string, docType domain.DocumentType, requestingUserID string) ([]domain.ApprovalTier, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	tiers, err := s.tierRepo.ListTiersByCompanyAndType(ctx, companyID, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}
	if tiers == nil {
		return []domain.ApprovalTier{}, nil
	}
	return tiers, nil
}

// SelectTier returns the tier whose range contains the amount, or nil when
// the amount is nil or no tier matches. Sibling tiers never overlap, so at
// most one tier can match.
func (s *tierService) SelectTier(ctx context.Context, companyID string, docType domain.DocumentType, totalAmount *decimal.Decimal) (*domain.ApprovalTier, error) {
	if totalAmount == nil {
		return nil, nil
	}
	tiers, err := s.tierRepo.ListTiersByCompanyAndType(ctx, companyID, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiers for selection: %w", err)
	}
	for i := range tiers {
		if tiers[i].Contains(*totalAmount) {
			return &tiers[i], nil
		}
	}
	return nil, nil
}

// findCompanyTier loads a tier and verifies it belongs to the company.
func (s *tierService) findCompanyTier(ctx context.Context, companyID, tierID string) (*domain.ApprovalTier, error) {
	tier, err := s.tierRepo.FindTierByID(ctx, tierID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier %s: %w", tierID, err)
	}
	if tier.CompanyID != companyID {
		return nil, fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tierID)
	}
	return tier, nil
}

// validateTier checks range sanity and non-overlap against sibling tiers.
func (s *tierService) validateTier(ctx context.Context, tier domain.ApprovalTier) error {
	if tier.MaxAmount != nil && tier.MaxAmount.Cmp(tier.MinAmount) < 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTierRangeInverted)
	}

	siblings, err := s.tierRepo.ListTiersByCompanyAndType(ctx, tier.CompanyID, tier.DocumentType)
	if err != nil {
		return fmt.Errorf("failed to load sibling tiers: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.TierID == tier.TierID {
			continue
		}
		if tier.Overlaps(sibling) {
			return fmt.Errorf("%w: %w with tier %s [%s, %s]", apperrors.ErrValidation, ErrTierOverlap,
				sibling.TierID, sibling.MinAmount.String(), formatMaxAmount(sibling.MaxAmount))
		}
	}
	return nil
}

func formatMaxAmount(max *decimal.Decimal) string {
	if max == nil {
		return "unbounded"
	}
	return max.String()
}

func toTierApprovers(reqs []dto.TierApproverRequest) []domain.TierApprover {
	approvers := make([]domain.TierApprover, len(reqs))
	for i, a := range reqs {
		approvers[i] = domain.TierApprover{MemberID: a.MemberID, Label: a.Label}
	}
	return approvers
}
