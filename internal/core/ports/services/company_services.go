package services

import (
	"context"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

// CompanyReaderSvc defines read operations for company data.
type CompanyReaderSvc interface {
	// GetCompanyByID retrieves a company, verifying the requesting user is a member.
	GetCompanyByID(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error)

	// ListUserCompanies retrieves the companies the user belongs to.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)
}

// CompanyWriterSvc defines write operations for company data.
type CompanyWriterSvc interface {
	// CreateCompany creates a new company and makes the creator the initial admin.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// AddUserToCompany adds a user to a company with a role. Requires the
	// requesting user to be a company admin.
	AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, requestingUserID string) error
}

// CompanyAuthorizerSvc checks a user's role within a company.
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction verifies that the user holds at least requiredRole
	// in the company. Returns apperrors.ErrForbidden otherwise.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error
}

// CompanySvcFacade combines all company-related service interfaces.
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyAuthorizerSvc
}
