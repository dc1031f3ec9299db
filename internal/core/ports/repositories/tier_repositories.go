package repositories

import (
	"context"
	"time"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// TierReader defines read operations for approval tiers.
type TierReader interface {
	// FindTierByID retrieves a specific tier by its unique identifier.
	FindTierByID(ctx context.Context, tierID string) (*domain.ApprovalTier, error)

	// ListTiersByCompanyAndType retrieves all tiers for a company and
	// document type ordered by min_amount ascending.
	ListTiersByCompanyAndType(ctx context.Context, companyID string, docType domain.DocumentType) ([]domain.ApprovalTier, error)
}

// TierWriter defines write operations for approval tiers.
type TierWriter interface {
	// SaveTier persists a new tier.
	SaveTier(ctx context.Context, tier domain.ApprovalTier) error

	// UpdateTier updates an existing tier.
	UpdateTier(ctx context.Context, tier domain.ApprovalTier) error

	// DeleteTier removes a tier.
	DeleteTier(ctx context.Context, tierID string, deletedBy string, now time.Time) error
}

// TierRepositoryFacade combines all tier-related repository interfaces.
type TierRepositoryFacade interface {
	TierReader
	TierWriter
}
