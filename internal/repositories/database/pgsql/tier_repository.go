package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	"github.com/Ieproduct/nokplus-sub000/internal/models"
)

type PgxTierRepository struct {
	pool *pgxpool.Pool
}

// newPgxTierRepository creates a new repository for approval tier data.
func newPgxTierRepository(pool *pgxpool.Pool) portsrepo.TierRepositoryFacade {
	return &PgxTierRepository{pool: pool}
}

var _ portsrepo.TierRepositoryFacade = (*PgxTierRepository)(nil)

func toModelTierApprovers(approvers []domain.TierApprover) []models.TierApprover {
	out := make([]models.TierApprover, len(approvers))
	for i, a := range approvers {
		out[i] = models.TierApprover{MemberID: a.MemberID, Label: a.Label}
	}
	return out
}

func toDomainTier(m models.ApprovalTier) domain.ApprovalTier {
	approvers := make([]domain.TierApprover, len(m.Approvers))
	for i, a := range m.Approvers {
		approvers[i] = domain.TierApprover{MemberID: a.MemberID, Label: a.Label}
	}
	return domain.ApprovalTier{
		TierID:       m.TierID,
		CompanyID:    m.CompanyID,
		DocumentType: domain.DocumentType(m.DocumentType),
		Name:         m.Name,
		MinAmount:    m.MinAmount,
		MaxAmount:    m.MaxAmount,
		Approvers:    approvers,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const tierColumns = `tier_id, company_id, document_type, name, min_amount, max_amount, approvers, created_at, created_by, last_updated_at, last_updated_by`

func scanTierRow(row pgx.Row) (*models.ApprovalTier, error) {
	var m models.ApprovalTier
	var approversJSON []byte
	err := row.Scan(
		&m.TierID, &m.CompanyID, &m.DocumentType, &m.Name, &m.MinAmount, &m.MaxAmount, &approversJSON,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(approversJSON, &m.Approvers); err != nil {
		return nil, fmt.Errorf("failed to decode tier approvers: %w", err)
	}
	return &m, nil
}

// SaveTier inserts a new tier. The approver list is stored as JSONB to keep
// its order.
func (r *PgxTierRepository) SaveTier(ctx context.Context, tier domain.ApprovalTier) error {
	approversJSON, err := json.Marshal(toModelTierApprovers(tier.Approvers))
	if err != nil {
		return fmt.Errorf("failed to encode tier approvers: %w", err)
	}

	query := `
		INSERT INTO approval_tiers (` + tierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.pool.Exec(ctx, query,
		tier.TierID, tier.CompanyID, string(tier.DocumentType), tier.Name,
		tier.MinAmount, tier.MaxAmount, approversJSON,
		tier.CreatedAt, tier.CreatedBy, tier.LastUpdatedAt, tier.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: tier with ID %s already exists", apperrors.ErrDuplicate, tier.TierID)
		}
		return fmt.Errorf("failed to save tier %s: %w", tier.TierID, err)
	}
	return nil
}

// UpdateTier updates an existing tier.
func (r *PgxTierRepository) UpdateTier(ctx context.Context, tier domain.ApprovalTier) error {
	approversJSON, err := json.Marshal(toModelTierApprovers(tier.Approvers))
	if err != nil {
		return fmt.Errorf("failed to encode tier approvers: %w", err)
	}

	query := `
		UPDATE approval_tiers
		SET name = $2, min_amount = $3, max_amount = $4, approvers = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tier_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		tier.TierID, tier.Name, tier.MinAmount, tier.MaxAmount, approversJSON,
		tier.LastUpdatedAt, tier.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update tier %s: %w", tier.TierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tier.TierID)
	}
	return nil
}

// DeleteTier removes a tier.
func (r *PgxTierRepository) DeleteTier(ctx context.Context, tierID string, deletedBy string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM approval_tiers WHERE tier_id = $1;`, tierID)
	if err != nil {
		return fmt.Errorf("failed to delete tier %s: %w", tierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tierID)
	}
	return nil
}

// FindTierByID retrieves a tier by its ID.
func (r *PgxTierRepository) FindTierByID(ctx context.Context, tierID string) (*domain.ApprovalTier, error) {
	query := `SELECT ` + tierColumns + ` FROM approval_tiers WHERE tier_id = $1;`
	m, err := scanTierRow(r.pool.QueryRow(ctx, query, tierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tierID)
		}
		return nil, fmt.Errorf("failed to find tier %s: %w", tierID, err)
	}
	t := toDomainTier(*m)
	return &t, nil
}

// ListTiersByCompanyAndType retrieves all tiers for a company and document
// type ordered by min_amount ascending.
func (r *PgxTierRepository) ListTiersByCompanyAndType(ctx context.Context, companyID string, docType domain.DocumentType) ([]domain.ApprovalTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM approval_tiers
		WHERE company_id = $1 AND document_type = $2
		ORDER BY min_amount;
	`
	rows, err := r.pool.Query(ctx, query, companyID, string(docType))
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var tiers []domain.ApprovalTier
	for rows.Next() {
		m, err := scanTierRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier row: %w", err)
		}
		tiers = append(tiers, toDomainTier(*m))
	}
	return tiers, rows.Err()
}
