package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// CreateMemberRequest defines the data needed to create an organization member.
type CreateMemberRequest struct {
	Name              string           `json:"name" binding:"required"`
	UserID            *string          `json:"userID"`
	OrgLevel          *int             `json:"orgLevel"`
	MaxApprovalAmount *decimal.Decimal `json:"maxApprovalAmount"`
	ReportsToMemberID *string          `json:"reportsToMemberID"`
}

// UpdateMemberRequest defines the member fields allowed to change.
type UpdateMemberRequest struct {
	Name              *string          `json:"name"`
	UserID            *string          `json:"userID"`
	OrgLevel          *int             `json:"orgLevel"`
	MaxApprovalAmount *decimal.Decimal `json:"maxApprovalAmount"`
	ReportsToMemberID *string          `json:"reportsToMemberID"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID          string           `json:"memberID"`
	CompanyID         string           `json:"companyID"`
	UserID            *string          `json:"userID"`
	Name              string           `json:"name"`
	OrgLevel          *int             `json:"orgLevel"`
	MaxApprovalAmount *decimal.Decimal `json:"maxApprovalAmount"`
	ReportsToMemberID *string          `json:"reportsToMemberID"`
	IsActive          bool             `json:"isActive"`
	CreatedAt         time.Time        `json:"createdAt"`
	CreatedBy         string           `json:"createdBy"`
}

// ToMemberResponse converts a domain.Member to MemberResponse.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:          m.MemberID,
		CompanyID:         m.CompanyID,
		UserID:            m.UserID,
		Name:              m.Name,
		OrgLevel:          m.OrgLevel,
		MaxApprovalAmount: m.MaxApprovalAmount,
		ReportsToMemberID: m.ReportsToMemberID,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}

// ToListMemberResponse converts a slice of domain.Member to MemberResponse DTOs.
func ToListMemberResponse(members []domain.Member) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i := range members {
		res[i] = ToMemberResponse(&members[i])
	}
	return res
}
