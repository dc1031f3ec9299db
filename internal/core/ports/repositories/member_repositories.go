package repositories

import (
	"context"
	"time"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// MemberReader defines read operations for organization hierarchy members.
type MemberReader interface {
	// FindMemberByID retrieves a specific member by its unique identifier.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembersByCompany retrieves all active members of a company.
	ListMembersByCompany(ctx context.Context, companyID string) ([]domain.Member, error)

	// FindMemberAtLevel retrieves one active company member at exactly the
	// given organizational level. The tie-break among multiple members at
	// the same level is lowest member_id.
	FindMemberAtLevel(ctx context.Context, companyID string, orgLevel int) (*domain.Member, error)

	// ListMembersAboveLevel retrieves active company members with an
	// organizational level strictly greater than orgLevel, ordered by
	// (org_level, member_id) ascending.
	ListMembersAboveLevel(ctx context.Context, companyID string, orgLevel int) ([]domain.Member, error)

	// FindHighestLevelMember retrieves the active company member with the
	// greatest organizational level (lowest member_id on ties).
	FindHighestLevelMember(ctx context.Context, companyID string) (*domain.Member, error)
}

// MemberWriter defines write operations for organization hierarchy members.
type MemberWriter interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMember updates an existing member.
	UpdateMember(ctx context.Context, member domain.Member) error

	// DeactivateMember soft-deletes a member.
	DeactivateMember(ctx context.Context, memberID string, updatedBy string, now time.Time) error
}

// MemberRepositoryFacade combines all member-related repository interfaces.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
