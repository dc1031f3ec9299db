package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// TierApproverRequest is one ordered entry of a tier's approver list.
type TierApproverRequest struct {
	MemberID string `json:"memberID" binding:"required"`
	Label    string `json:"label"`
}

// CreateTierRequest defines the data needed to create an approval tier.
type CreateTierRequest struct {
	DocumentType domain.DocumentType   `json:"documentType" binding:"required,oneof=pr po ap"`
	Name         string                `json:"name" binding:"required"`
	MinAmount    decimal.Decimal       `json:"minAmount" binding:"required"`
	MaxAmount    *decimal.Decimal      `json:"maxAmount"` // omit for unbounded
	Approvers    []TierApproverRequest `json:"approvers" binding:"required,min=1,dive"`
}

// UpdateTierRequest defines the tier fields allowed to change.
type UpdateTierRequest struct {
	Name      *string               `json:"name"`
	MinAmount *decimal.Decimal      `json:"minAmount"`
	MaxAmount *decimal.Decimal      `json:"maxAmount"`
	Approvers []TierApproverRequest `json:"approvers"`
}

// TierResponse defines the data returned for an approval tier.
type TierResponse struct {
	TierID       string                `json:"tierID"`
	CompanyID    string                `json:"companyID"`
	DocumentType domain.DocumentType   `json:"documentType"`
	Name         string                `json:"name"`
	MinAmount    decimal.Decimal       `json:"minAmount"`
	MaxAmount    *decimal.Decimal      `json:"maxAmount"`
	Approvers    []domain.TierApprover `json:"approvers"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
}

// ToTierResponse converts a domain.ApprovalTier to TierResponse.
func ToTierResponse(t *domain.ApprovalTier) TierResponse {
	return TierResponse{
		TierID:       t.TierID,
		CompanyID:    t.CompanyID,
		DocumentType: t.DocumentType,
		Name:         t.Name,
		MinAmount:    t.MinAmount,
		MaxAmount:    t.MaxAmount,
		Approvers:    t.Approvers,
		CreatedAt:    t.CreatedAt,
		CreatedBy:    t.CreatedBy,
	}
}

// ToListTierResponse converts a slice of domain.ApprovalTier to TierResponse DTOs.
func ToListTierResponse(tiers []domain.ApprovalTier) []TierResponse {
	res := make([]TierResponse, len(tiers))
	for i := range tiers {
		res[i] = ToTierResponse(&tiers[i])
	}
	return res
}
