package pgsql

import (
	"context"
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

type PgxMemberRepository struct {
	pool *pgxpool.Pool
}

// newPgxMemberRepository creates a new repository for organization member data.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{pool: pool}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func toDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:          m.MemberID,
		CompanyID:         m.CompanyID,
		UserID:            m.UserID,
		Name:              m.Name,
		OrgLevel:          m.OrgLevel,
		MaxApprovalAmount: m.MaxApprovalAmount,
		ReportsToMemberID: m.ReportsToMemberID,
		IsActive:          m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const memberColumns = `member_id, company_id, user_id, name, org_level, max_approval_amount, reports_to_member_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanMemberRow(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID, &m.CompanyID, &m.UserID, &m.Name, &m.OrgLevel, &m.MaxApprovalAmount,
		&m.ReportsToMemberID, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMember inserts a new member.
func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		member.MemberID, member.CompanyID, member.UserID, member.Name,
		member.OrgLevel, member.MaxApprovalAmount, member.ReportsToMemberID, member.IsActive,
		member.CreatedAt, member.CreatedBy, member.LastUpdatedAt, member.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: member with ID %s already exists", apperrors.ErrDuplicate, member.MemberID)
			case "23503":
				return fmt.Errorf("%w: referenced manager or user does not exist", apperrors.ErrValidation)
			}
		}
		return fmt.Errorf("failed to save member %s: %w", member.MemberID, err)
	}
	return nil
}

// UpdateMember updates an existing member.
func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	query := `
		UPDATE members
		SET user_id = $2, name = $3, org_level = $4, max_approval_amount = $5, reports_to_member_id = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE member_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		member.MemberID, member.UserID, member.Name, member.OrgLevel, member.MaxApprovalAmount,
		member.ReportsToMemberID, member.IsActive, member.LastUpdatedAt, member.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: referenced manager or user does not exist", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to update member %s: %w", member.MemberID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: member %s", apperrors.ErrNotFound, member.MemberID)
	}
	return nil
}

// DeactivateMember soft-deletes a member.
func (r *PgxMemberRepository) DeactivateMember(ctx context.Context, memberID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE members
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE member_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, memberID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate member %s: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}
	return nil
}

// FindMemberByID retrieves a member by its ID.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	m, err := scanMemberRow(r.pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
		}
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	d := toDomainMember(*m)
	return &d, nil
}

// ListMembersByCompany retrieves all active members of a company.
func (r *PgxMemberRepository) ListMembersByCompany(ctx context.Context, companyID string) ([]domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY org_level NULLS LAST, member_id;
	`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMemberRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, toDomainMember(*m))
	}
	return members, rows.Err()
}

// FindMemberAtLevel retrieves one active member at exactly the given
// organizational level. Tie-break among members sharing a level is lowest
// member_id; flagged for product confirmation.
func (r *PgxMemberRepository) FindMemberAtLevel(ctx context.Context, companyID string, orgLevel int) (*domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE company_id = $1 AND org_level = $2 AND is_active = TRUE
		ORDER BY member_id
		LIMIT 1;
	`
	m, err := scanMemberRow(r.pool.QueryRow(ctx, query, companyID, orgLevel))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no member at level %d in company %s", apperrors.ErrNotFound, orgLevel, companyID)
		}
		return nil, fmt.Errorf("failed to find member at level %d: %w", orgLevel, err)
	}
	d := toDomainMember(*m)
	return &d, nil
}

// ListMembersAboveLevel retrieves active members with a level strictly
// greater than orgLevel, ordered by (org_level, member_id).
func (r *PgxMemberRepository) ListMembersAboveLevel(ctx context.Context, companyID string, orgLevel int) ([]domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE company_id = $1 AND org_level > $2 AND is_active = TRUE
		ORDER BY org_level, member_id;
	`
	rows, err := r.pool.Query(ctx, query, companyID, orgLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list members above level %d: %w", orgLevel, err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMemberRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, toDomainMember(*m))
	}
	return members, rows.Err()
}

// FindHighestLevelMember retrieves the member with the greatest
// organizational level in the company (lowest member_id on ties).
func (r *PgxMemberRepository) FindHighestLevelMember(ctx context.Context, companyID string) (*domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE company_id = $1 AND org_level IS NOT NULL AND is_active = TRUE
		ORDER BY org_level DESC, member_id
		LIMIT 1;
	`
	m, err := scanMemberRow(r.pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no leveled members in company %s", apperrors.ErrNotFound, companyID)
		}
		return nil, fmt.Errorf("failed to find highest level member: %w", err)
	}
	d := toDomainMember(*m)
	return &d, nil
}
