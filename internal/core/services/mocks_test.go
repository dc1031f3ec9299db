package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// --- Mock TierRepository ---

type MockTierRepository struct {
	mock.Mock
}

func (m *MockTierRepository) SaveTier(ctx context.Context, tier domain.ApprovalTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockTierRepository) UpdateTier(ctx context.Context, tier domain.ApprovalTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockTierRepository) DeleteTier(ctx context.Context, tierID string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, tierID, deletedBy, now)
	return args.Error(0)
}

func (m *MockTierRepository) FindTierByID(ctx context.Context, tierID string) (*domain.ApprovalTier, error) {
	args := m.Called(ctx, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTier), args.Error(1)
}

func (m *MockTierRepository) ListTiersByCompanyAndType(ctx context.Context, companyID string, docType domain.DocumentType) ([]domain.ApprovalTier, error) {
	args := m.Called(ctx, companyID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalTier), args.Error(1)
}

// --- Mock MemberRepository ---

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) DeactivateMember(ctx context.Context, memberID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, memberID, updatedBy, now)
	return args.Error(0)
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembersByCompany(ctx context.Context, companyID string) ([]domain.Member, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMemberAtLevel(ctx context.Context, companyID string, orgLevel int) (*domain.Member, error) {
	args := m.Called(ctx, companyID, orgLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembersAboveLevel(ctx context.Context, companyID string, orgLevel int) ([]domain.Member, error) {
	args := m.Called(ctx, companyID, orgLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindHighestLevelMember(ctx context.Context, companyID string) (*domain.Member, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// --- Mock FlowRepository ---

type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) SaveFlow(ctx context.Context, flow domain.Flow, nodes []domain.FlowNode, edges []domain.FlowEdge) error {
	args := m.Called(ctx, flow, nodes, edges)
	return args.Error(0)
}

func (m *MockFlowRepository) UpdateFlow(ctx context.Context, flow domain.Flow) error {
	args := m.Called(ctx, flow)
	return args.Error(0)
}

func (m *MockFlowRepository) ReplaceGraph(ctx context.Context, flowID string, nodes []domain.FlowNode, edges []domain.FlowEdge, updatedBy string) error {
	args := m.Called(ctx, flowID, nodes, edges, updatedBy)
	return args.Error(0)
}

func (m *MockFlowRepository) DeactivateFlow(ctx context.Context, flowID string, updatedBy string) error {
	args := m.Called(ctx, flowID, updatedBy)
	return args.Error(0)
}

func (m *MockFlowRepository) FindFlowByID(ctx context.Context, flowID string) (*domain.Flow, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flow), args.Error(1)
}

func (m *MockFlowRepository) FindDefaultFlow(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.Flow, error) {
	args := m.Called(ctx, companyID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flow), args.Error(1)
}

func (m *MockFlowRepository) ListFlowsByCompany(ctx context.Context, companyID string) ([]domain.Flow, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flow), args.Error(1)
}

func (m *MockFlowRepository) FindNodesByFlowID(ctx context.Context, flowID string) ([]domain.FlowNode, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlowNode), args.Error(1)
}

func (m *MockFlowRepository) FindEdgesByFlowID(ctx context.Context, flowID string) ([]domain.FlowEdge, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlowEdge), args.Error(1)
}

func (m *MockFlowRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockFlowRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFlowRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocumentStatus(ctx context.Context, docType domain.DocumentType, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, docType, documentID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocumentStatusInTx(ctx context.Context, tx pgx.Tx, docType domain.DocumentType, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, docType, documentID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindDocument(ctx context.Context, docType domain.DocumentType, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocumentsByCompany(ctx context.Context, companyID string, docType domain.DocumentType, limit, offset int) ([]domain.Document, error) {
	args := m.Called(ctx, companyID, docType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

// --- Mock ApprovalRepository ---

type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) ReplaceDocumentApprovals(ctx context.Context, doc domain.Document, approvals []domain.Approval) error {
	args := m.Called(ctx, doc, approvals)
	return args.Error(0)
}

func (m *MockApprovalRepository) ApplyAction(ctx context.Context, approvalID string, action domain.ApprovalAction, comment string, actedBy string, now time.Time) (*domain.Approval, domain.DocumentStatus, error) {
	args := m.Called(ctx, approvalID, action, comment, actedBy, now)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Approval), args.Get(1).(domain.DocumentStatus), args.Error(2)
}

func (m *MockApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) FindApprovalsByDocument(ctx context.Context, docType domain.DocumentType, documentID string) ([]domain.Approval, error) {
	args := m.Called(ctx, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) ListPendingApprovalsForUser(ctx context.Context, userID string) ([]domain.Approval, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockApprovalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockApprovalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
