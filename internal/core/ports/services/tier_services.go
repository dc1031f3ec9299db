package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

// TierReaderSvc defines read operations for approval tiers.
type TierReaderSvc interface {
	// GetTierByID retrieves one tier.
	GetTierByID(ctx context.Context, companyID, tierID string, requestingUserID string) (*domain.ApprovalTier, error)

	// ListTiers retrieves the tiers for a company and document type ordered
	// by min amount.
	ListTiers(ctx context.Context, companyID string, docType domain.DocumentType, requestingUserID string) ([]domain.ApprovalTier, error)

	// SelectTier returns the tier whose range contains the amount, or nil
	// when the amount is nil or no tier matches.
	SelectTier(ctx context.Context, companyID string, docType domain.DocumentType, totalAmount *decimal.Decimal) (*domain.ApprovalTier, error)
}

// TierWriterSvc defines write operations for approval tiers.
type TierWriterSvc interface {
	// CreateTier creates a tier after validating non-overlap with siblings.
	CreateTier(ctx context.Context, companyID string, req dto.CreateTierRequest, userID string) (*domain.ApprovalTier, error)

	// UpdateTier updates a tier after re-validating non-overlap.
	UpdateTier(ctx context.Context, companyID, tierID string, req dto.UpdateTierRequest, userID string) (*domain.ApprovalTier, error)

	// DeleteTier removes a tier.
	DeleteTier(ctx context.Context, companyID, tierID string, userID string) error
}

// TierSvcFacade combines all tier-related service interfaces.
type TierSvcFacade interface {
	TierReaderSvc
	TierWriterSvc
}
