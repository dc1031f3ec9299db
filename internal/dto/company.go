package dto

import (
	"time"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a new company.
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddUserToCompanyRequest adds an existing user to a company.
type AddUserToCompanyRequest struct {
	UserID string                 `json:"userID" binding:"required"`
	Role   domain.UserCompanyRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID   string    `json:"companyID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		CreatedBy:   c.CreatedBy,
	}
}

// ToListCompanyResponse converts a slice of domain.Company to DTOs.
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	res := make([]CompanyResponse, len(companies))
	for i := range companies {
		res[i] = ToCompanyResponse(&companies[i])
	}
	return res
}
