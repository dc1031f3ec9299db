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

// roleRank orders company roles for authorization checks. REMOVED never
// satisfies any requirement.
var roleRank = map[domain.UserCompanyRole]int{
	domain.RoleReadOnly: 1,
	domain.RoleMember:   2,
	domain.RoleAdmin:    3,
}

// companyService provides company and membership operations.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// CreateCompany creates a new company and makes the creator the initial admin.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now()
	company := domain.Company{
		CompanyID:   uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "failed to create company", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "failed to add creator as admin", slog.String("company_id", company.CompanyID))
		return nil, fmt.Errorf("failed to add creator to company: %w", err)
	}

	return &company, nil
}

// AddUserToCompany adds a user to a company. Only company admins may do this.
func (s *companyService) AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, requestingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	membership := domain.UserCompany{
		UserID:    req.UserID,
		CompanyID: companyID,
		Role:      req.Role,
		JoinedAt:  time.Now(),
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "failed to add user to company",
			slog.String("company_id", companyID), slog.String("user_id", req.UserID))
		return fmt.Errorf("failed to add user to company: %w", err)
	}
	return nil
}

// GetCompanyByID retrieves a company, verifying the requesting user is a member.
func (s *companyService) GetCompanyByID(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListUserCompanies retrieves the companies the user belongs to.
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// AuthorizeUserAction verifies that the user holds at least requiredRole in
// the company.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s is not a member of company %s", apperrors.ErrForbidden, userID, companyID)
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if roleRank[membership.Role] < roleRank[requiredRole] || membership.Role == domain.RoleRemoved {
		return fmt.Errorf("%w: requires %s role in company %s", apperrors.ErrForbidden, requiredRole, companyID)
	}
	return nil
}
