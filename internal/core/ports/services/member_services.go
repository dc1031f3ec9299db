package services

import (
	"context"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

// MemberReaderSvc defines read operations for organization members.
type MemberReaderSvc interface {
	// GetMemberByID retrieves one member.
	GetMemberByID(ctx context.Context, companyID, memberID string, requestingUserID string) (*domain.Member, error)

	// ListMembers retrieves the active members of a company.
	ListMembers(ctx context.Context, companyID string, requestingUserID string) ([]domain.Member, error)
}

// MemberWriterSvc defines write operations for organization members.
type MemberWriterSvc interface {
	// CreateMember creates a member after validating that the reporting
	// relationship introduces no cycle.
	CreateMember(ctx context.Context, companyID string, req dto.CreateMemberRequest, userID string) (*domain.Member, error)

	// UpdateMember updates a member after re-validating the reporting chain.
	UpdateMember(ctx context.Context, companyID, memberID string, req dto.UpdateMemberRequest, userID string) (*domain.Member, error)

	// DeleteMember soft-deletes a member.
	DeleteMember(ctx context.Context, companyID, memberID string, userID string) error
}

// MemberSvcFacade combines all member-related service interfaces.
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
}
