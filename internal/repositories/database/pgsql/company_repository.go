package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	"github.com/Ieproduct/nokplus-sub000/internal/models"
)

type PgxCompanyRepository struct {
	pool *pgxpool.Pool
}

// newPgxCompanyRepository creates a new company repository.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{pool: pool}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func toDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const companyColumns = `company_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCompanyRow(row pgx.Row) (*models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID, &m.Name, &m.Description, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCompany persists a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		company.CompanyID, company.Name, company.Description, company.IsActive,
		company.CreatedAt, company.CreatedBy, company.LastUpdatedAt, company.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: company %s already exists", apperrors.ErrDuplicate, company.CompanyID)
		}
		return fmt.Errorf("failed to save company %s: %w", company.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a specific company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	m, err := scanCompanyRow(r.pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
		}
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	c := toDomainCompany(*m)
	return &c, nil
}

// ListCompaniesByUserID retrieves all companies a user belongs to, excluding
// memberships revoked with the REMOVED role.
func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.description, c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.company_id
		WHERE uc.user_id = $1 AND uc.role != $2
		ORDER BY c.name;
	`
	rows, err := r.pool.Query(ctx, query, userID, string(domain.RoleRemoved))
	if err != nil {
		return nil, fmt.Errorf("failed to list companies for user %s: %w", userID, err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		m, err := scanCompanyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, toDomainCompany(*m))
	}
	return companies, rows.Err()
}

// AddUserToCompany adds a user to a company with a specific role. Re-adding
// an existing membership updates the role instead.
func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, company_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.pool.Exec(ctx, query, membership.UserID, membership.CompanyID, string(membership.Role), membership.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: user or company does not exist", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to add user %s to company %s: %w", membership.UserID, membership.CompanyID, err)
	}
	return nil
}

// FindUserCompanyRole retrieves the role of a user in a company.
func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, u.name, uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.user_id = $1 AND uc.company_id = $2;
	`
	var uc domain.UserCompany
	var role string
	err := r.pool.QueryRow(ctx, query, userID, companyID).Scan(&uc.UserID, &uc.UserName, &uc.CompanyID, &role, &uc.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s has no membership in company %s", apperrors.ErrNotFound, userID, companyID)
		}
		return nil, fmt.Errorf("failed to find membership of user %s in company %s: %w", userID, companyID, err)
	}
	uc.Role = domain.UserCompanyRole(role)
	return &uc, nil
}
