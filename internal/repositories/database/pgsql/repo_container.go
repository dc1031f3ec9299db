package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository on one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	documentRepo := newPgxDocumentRepository(pool)
	return &portsrepo.RepositoryProvider{
		FlowRepo:     newPgxFlowRepository(pool),
		TierRepo:     newPgxTierRepository(pool),
		MemberRepo:   newPgxMemberRepository(pool),
		ApprovalRepo: newPgxApprovalRepository(pool, documentRepo),
		DocumentRepo: documentRepo,
		CompanyRepo:  newPgxCompanyRepository(pool),
		UserRepo:     newPgxUserRepository(pool),
	}
}
