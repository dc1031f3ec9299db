package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/core/services"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

// --- Test Suite ---

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockApprovalRepo *MockApprovalRepository
	mockDocumentRepo *MockDocumentRepository
	mockFlowRepo     *MockFlowRepository
	mockMemberRepo   *MockMemberRepository
	mockTierRepo     *MockTierRepository
	service          portssvc.ApprovalSvcFacade

	companyID string
	userID    string
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockApprovalRepo = new(MockApprovalRepository)
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockFlowRepo = new(MockFlowRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockTierRepo = new(MockTierRepository)

	tierSvc := services.NewTierService(suite.mockTierRepo, nil)
	suite.service = services.NewApprovalService(
		suite.mockApprovalRepo,
		suite.mockDocumentRepo,
		suite.mockFlowRepo,
		suite.mockMemberRepo,
		tierSvc,
		nil,
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *ApprovalServiceTestSuite) document(amount string) *domain.Document {
	return &domain.Document{
		DocumentID:  uuid.NewString(),
		CompanyID:   suite.companyID,
		Type:        domain.DocTypePurchaseRequisition,
		DocNo:       "PR-0001",
		TotalAmount: decPtr(amount),
		Status:      domain.DocStatusDraft,
	}
}

func (suite *ApprovalServiceTestSuite) member(name string, level int, cap *decimal.Decimal) domain.Member {
	return domain.Member{
		MemberID:          uuid.NewString(),
		CompanyID:         suite.companyID,
		Name:              name,
		OrgLevel:          intPtr(level),
		MaxApprovalAmount: cap,
		IsActive:          true,
	}
}

// --- Tier precedence ---

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_TierMatch() {
	ctx := context.Background()
	doc := suite.document("30000")
	memberA := suite.member("Alice", 3, nil)
	memberB := suite.member("Bob", 4, nil)
	memberC := suite.member("Carol", 5, nil)

	tiers := []domain.ApprovalTier{
		{
			TierID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type,
			MinAmount: decimal.Zero, MaxAmount: decPtr("4999"),
			Approvers: []domain.TierApprover{{MemberID: memberA.MemberID, Label: "Alice"}},
		},
		{
			TierID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type,
			MinAmount: decimal.RequireFromString("5000"), MaxAmount: decPtr("49999"),
			Approvers: []domain.TierApprover{
				{MemberID: memberA.MemberID, Label: "Alice"},
				{MemberID: memberB.MemberID, Label: "Bob"},
			},
		},
		{
			TierID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type,
			MinAmount: decimal.RequireFromString("50000"), MaxAmount: nil,
			Approvers: []domain.TierApprover{
				{MemberID: memberA.MemberID, Label: "Alice"},
				{MemberID: memberB.MemberID, Label: "Bob"},
				{MemberID: memberC.MemberID, Label: "Carol"},
			},
		},
	}

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return(tiers, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.MatchedBy(func(approvals []domain.Approval) bool {
		return len(approvals) == 2 &&
			approvals[0].Step == 1 && approvals[0].ApproverID == memberA.MemberID &&
			approvals[1].Step == 2 && approvals[1].ApproverID == memberB.MemberID
	})).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 2)
	suite.Equal(memberA.MemberID, approvals[0].ApproverID)
	suite.Equal(memberB.MemberID, approvals[1].ApproverID)
	suite.Equal("Alice", approvals[0].Label)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "FindDefaultFlow", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_ResubmissionReplacesChain() {
	ctx := context.Background()
	doc := suite.document("30000")
	memberA := suite.member("Alice", 3, nil)
	memberB := suite.member("Bob", 4, nil)
	memberC := suite.member("Carol", 5, nil)

	lowTier := domain.ApprovalTier{
		TierID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type,
		MinAmount: decimal.Zero, MaxAmount: decPtr("49999"),
		Approvers: []domain.TierApprover{
			{MemberID: memberA.MemberID, Label: "Alice"},
			{MemberID: memberB.MemberID, Label: "Bob"},
		},
	}
	highTier := domain.ApprovalTier{
		TierID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type,
		MinAmount: decimal.RequireFromString("50000"), MaxAmount: nil,
		Approvers: []domain.TierApprover{
			{MemberID: memberA.MemberID, Label: "Alice"},
			{MemberID: memberB.MemberID, Label: "Bob"},
			{MemberID: memberC.MemberID, Label: "Carol"},
		},
	}
	tiers := []domain.ApprovalTier{lowTier, highTier}

	revised := *doc
	revised.TotalAmount = decPtr("60000")

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(&revised, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Times(2)
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return(tiers, nil).Times(2)

	// ReplaceDocumentApprovals deletes the prior records and bulk inserts the
	// new chain in one transaction, so each call must carry the full chain.
	var replaced [][]domain.Approval
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).
		Run(func(args mock.Arguments) {
			replaced = append(replaced, args.Get(2).([]domain.Approval))
		}).Return(nil).Times(2)

	first, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)

	second, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)
	suite.Require().NoError(err)
	suite.Require().Len(second, 3)

	suite.Require().Len(replaced, 2)
	suite.Len(replaced[0], 2)
	suite.Require().Len(replaced[1], 3)
	suite.Equal(memberA.MemberID, replaced[1][0].ApproverID)
	suite.Equal(memberB.MemberID, replaced[1][1].ApproverID)
	suite.Equal(memberC.MemberID, replaced[1][2].ApproverID)
	for i := 1; i <= 3; i++ {
		suite.Equal(i, replaced[1][i-1].Step)
	}

	// New submission mints fresh records rather than reusing the old ones.
	firstIDs := map[string]bool{}
	for _, a := range replaced[0] {
		firstIDs[a.ApprovalID] = true
	}
	for _, a := range replaced[1] {
		suite.False(firstIDs[a.ApprovalID])
	}
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

// --- Graph traversal with condition branching ---

func (suite *ApprovalServiceTestSuite) conditionGraph(flowID string) ([]domain.FlowNode, []domain.FlowEdge) {
	nodes := []domain.FlowNode{
		{NodeID: "start", FlowID: flowID, Type: domain.NodeStart},
		{
			NodeID: "check-amount", FlowID: flowID, Type: domain.NodeCondition,
			ConditionField:     domain.ConditionFieldTotalAmount,
			ConditionOperator:  domain.OpGreaterThan,
			ConditionThreshold: decPtr("50000"),
		},
		{NodeID: "senior", FlowID: flowID, Type: domain.NodeApprover, Name: "Senior Approver", OrgLevel: intPtr(5)},
		{NodeID: "junior", FlowID: flowID, Type: domain.NodeApprover, Name: "Junior Approver", OrgLevel: intPtr(3)},
		{NodeID: "end", FlowID: flowID, Type: domain.NodeEnd},
	}
	edges := []domain.FlowEdge{
		{EdgeID: uuid.NewString(), FlowID: flowID, FromNodeID: "start", ToNodeID: "check-amount", Ordinal: 0},
		{EdgeID: uuid.NewString(), FlowID: flowID, FromNodeID: "check-amount", ToNodeID: "senior", Branch: boolPtr(true), Ordinal: 1},
		{EdgeID: uuid.NewString(), FlowID: flowID, FromNodeID: "check-amount", ToNodeID: "junior", Branch: boolPtr(false), Ordinal: 2},
		{EdgeID: uuid.NewString(), FlowID: flowID, FromNodeID: "senior", ToNodeID: "end", Ordinal: 3},
		{EdgeID: uuid.NewString(), FlowID: flowID, FromNodeID: "junior", ToNodeID: "end", Ordinal: 4},
	}
	return nodes, edges
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_ConditionFlow_HighAmount() {
	ctx := context.Background()
	doc := suite.document("60000")
	flow := &domain.Flow{FlowID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type, IsDefault: true, IsActive: true}
	nodes, edges := suite.conditionGraph(flow.FlowID)
	senior := suite.member("Eve", 5, nil)

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(flow, nil).Once()
	suite.mockFlowRepo.On("FindNodesByFlowID", ctx, flow.FlowID).Return(nodes, nil).Once()
	suite.mockFlowRepo.On("FindEdgesByFlowID", ctx, flow.FlowID).Return(edges, nil).Once()
	suite.mockMemberRepo.On("FindMemberAtLevel", ctx, suite.companyID, 5).Return(&senior, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 1)
	suite.Equal(senior.MemberID, approvals[0].ApproverID)
	suite.Equal("Senior Approver", approvals[0].Label)
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "FindMemberAtLevel", mock.Anything, mock.Anything, 3)
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_ConditionFlow_LowAmount() {
	ctx := context.Background()
	doc := suite.document("10000")
	flow := &domain.Flow{FlowID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type, IsDefault: true, IsActive: true}
	nodes, edges := suite.conditionGraph(flow.FlowID)
	junior := suite.member("Dan", 3, nil)

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(flow, nil).Once()
	suite.mockFlowRepo.On("FindNodesByFlowID", ctx, flow.FlowID).Return(nodes, nil).Once()
	suite.mockFlowRepo.On("FindEdgesByFlowID", ctx, flow.FlowID).Return(edges, nil).Once()
	suite.mockMemberRepo.On("FindMemberAtLevel", ctx, suite.companyID, 3).Return(&junior, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 1)
	suite.Equal(junior.MemberID, approvals[0].ApproverID)
	suite.Equal("Junior Approver", approvals[0].Label)
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_CyclicGraphTerminates() {
	ctx := context.Background()
	doc := suite.document("100")
	flow := &domain.Flow{FlowID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type, IsDefault: true, IsActive: true}
	first := suite.member("First", 2, nil)
	second := suite.member("Second", 3, nil)

	// a1 and a2 point at each other; the walk must still terminate.
	nodes := []domain.FlowNode{
		{NodeID: "start", FlowID: flow.FlowID, Type: domain.NodeStart},
		{NodeID: "a1", FlowID: flow.FlowID, Type: domain.NodeApprover, MemberID: strPtr(first.MemberID)},
		{NodeID: "a2", FlowID: flow.FlowID, Type: domain.NodeApprover, MemberID: strPtr(second.MemberID)},
	}
	edges := []domain.FlowEdge{
		{EdgeID: uuid.NewString(), FlowID: flow.FlowID, FromNodeID: "start", ToNodeID: "a1", Ordinal: 0},
		{EdgeID: uuid.NewString(), FlowID: flow.FlowID, FromNodeID: "a1", ToNodeID: "a2", Ordinal: 1},
		{EdgeID: uuid.NewString(), FlowID: flow.FlowID, FromNodeID: "a2", ToNodeID: "a1", Ordinal: 2},
	}

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(flow, nil).Once()
	suite.mockFlowRepo.On("FindNodesByFlowID", ctx, flow.FlowID).Return(nodes, nil).Once()
	suite.mockFlowRepo.On("FindEdgesByFlowID", ctx, flow.FlowID).Return(edges, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, first.MemberID).Return(&first, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, second.MemberID).Return(&second, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 2)
	suite.Equal(first.MemberID, approvals[0].ApproverID)
	suite.Equal(second.MemberID, approvals[1].ApproverID)
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_UnresolvableApproverSkipped() {
	ctx := context.Background()
	doc := suite.document("100")
	flow := &domain.Flow{FlowID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type, IsDefault: true, IsActive: true}
	resolved := suite.member("Resolved", 3, nil)

	nodes := []domain.FlowNode{
		{NodeID: "start", FlowID: flow.FlowID, Type: domain.NodeStart},
		{NodeID: "ghost", FlowID: flow.FlowID, Type: domain.NodeApprover, OrgLevel: intPtr(9)},
		{NodeID: "real", FlowID: flow.FlowID, Type: domain.NodeApprover, MemberID: strPtr(resolved.MemberID)},
		{NodeID: "end", FlowID: flow.FlowID, Type: domain.NodeEnd},
	}
	edges := []domain.FlowEdge{
		{EdgeID: uuid.NewString(), FlowID: flow.FlowID, FromNodeID: "start", ToNodeID: "ghost", Ordinal: 0},
		{EdgeID: uuid.NewString(), FlowID: flow.FlowID, FromNodeID: "ghost", ToNodeID: "real", Ordinal: 1},
		{EdgeID: uuid.NewString(), FlowID: flow.FlowID, FromNodeID: "real", ToNodeID: "end", Ordinal: 2},
	}

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(flow, nil).Once()
	suite.mockFlowRepo.On("FindNodesByFlowID", ctx, flow.FlowID).Return(nodes, nil).Once()
	suite.mockFlowRepo.On("FindEdgesByFlowID", ctx, flow.FlowID).Return(edges, nil).Once()
	suite.mockMemberRepo.On("FindMemberAtLevel", ctx, suite.companyID, 9).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, resolved.MemberID).Return(&resolved, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 1)
	suite.Equal(resolved.MemberID, approvals[0].ApproverID)
	suite.Equal(1, approvals[0].Step)
}

// --- Auto-escalation ---

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_AutoEscalation() {
	ctx := context.Background()
	doc := suite.document("100000")
	flow := &domain.Flow{FlowID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type, IsDefault: true, AutoEscalate: true, IsActive: true}

	submitter := suite.member("Submitter", 2, decPtr("1000"))
	submitter.UserID = strPtr(suite.userID)
	level3 := suite.member("Manager", 3, decPtr("20000"))
	level5 := suite.member("Director", 5, nil)

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{submitter}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(flow, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, submitter.MemberID).Return(&submitter, nil).Once()
	suite.mockMemberRepo.On("ListMembersAboveLevel", ctx, suite.companyID, 2).Return([]domain.Member{level3, level5}, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.MatchedBy(func(d domain.Document) bool {
		return d.SubmittedBy != nil && *d.SubmittedBy == submitter.MemberID
	}), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 2)
	suite.Equal(level3.MemberID, approvals[0].ApproverID)
	suite.Equal(level5.MemberID, approvals[1].ApproverID)
	suite.Equal("Level 3: Manager", approvals[0].Label)
	suite.Equal("Level 5: Director", approvals[1].Label)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_AutoEscalation_StopsAtSufficientAuthority() {
	ctx := context.Background()
	doc := suite.document("15000")
	flow := &domain.Flow{FlowID: uuid.NewString(), CompanyID: suite.companyID, DocumentType: doc.Type, IsDefault: true, AutoEscalate: true, IsActive: true}

	level3 := suite.member("Manager", 3, decPtr("20000"))
	level5 := suite.member("Director", 5, nil)

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(flow, nil).Once()
	suite.mockMemberRepo.On("ListMembersAboveLevel", ctx, suite.companyID, 1).Return([]domain.Member{level3, level5}, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 1)
	suite.Equal(level3.MemberID, approvals[0].ApproverID)
}

// --- Last resort ---

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_LastResortHighestLevelMember() {
	ctx := context.Background()
	doc := suite.document("500")
	top := suite.member("Owner", 9, nil)

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()
	suite.mockMemberRepo.On("ListMembersByCompany", ctx, suite.companyID).Return([]domain.Member{}, nil).Once()
	suite.mockTierRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, doc.Type).Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockFlowRepo.On("FindDefaultFlow", ctx, suite.companyID, doc.Type).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMemberRepo.On("FindHighestLevelMember", ctx, suite.companyID).Return(&top, nil).Once()
	suite.mockApprovalRepo.On("ReplaceDocumentApprovals", ctx, mock.AnythingOfType("domain.Document"), mock.Anything).Return(nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 1)
	suite.Equal(top.MemberID, approvals[0].ApproverID)
	suite.Equal("Owner", approvals[0].Label)
	suite.Equal(1, approvals[0].Step)
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_DocumentCompanyMismatch() {
	ctx := context.Background()
	doc := suite.document("500")
	doc.CompanyID = uuid.NewString()

	suite.mockDocumentRepo.On("FindDocument", ctx, doc.Type, doc.DocumentID).Return(doc, nil).Once()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, doc.Type, doc.DocumentID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(approvals)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "ReplaceDocumentApprovals", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestSubmitForApproval_UnknownDocumentType() {
	ctx := context.Background()

	approvals, err := suite.service.SubmitForApproval(ctx, suite.companyID, domain.DocumentType("invoice"), uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	suite.Nil(approvals)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Actions ---

func (suite *ApprovalServiceTestSuite) TestProcessApproval_ApproveCompletesDocument() {
	ctx := context.Background()
	approvalID := uuid.NewString()
	pending := &domain.Approval{
		ApprovalID: approvalID,
		CompanyID:  suite.companyID,
		Step:       2,
		ApproverID: uuid.NewString(),
	}
	acted := *pending
	action := domain.ActionApprove
	acted.Action = &action

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, approvalID).Return(pending, nil).Once()
	suite.mockApprovalRepo.On("ApplyAction", ctx, approvalID, domain.ActionApprove, "looks good", suite.userID, mock.AnythingOfType("time.Time")).
		Return(&acted, domain.DocStatusApproved, nil).Once()

	updated, status, err := suite.service.ProcessApproval(ctx, approvalID, domain.ActionApprove, "looks good", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocStatusApproved, status)
	suite.Require().NotNil(updated.Action)
	suite.Equal(domain.ActionApprove, *updated.Action)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestProcessApproval_RejectShortCircuits() {
	ctx := context.Background()
	approvalID := uuid.NewString()
	pending := &domain.Approval{ApprovalID: approvalID, CompanyID: suite.companyID, Step: 1}
	acted := *pending
	action := domain.ActionReject
	acted.Action = &action

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, approvalID).Return(pending, nil).Once()
	suite.mockApprovalRepo.On("ApplyAction", ctx, approvalID, domain.ActionReject, "over budget", suite.userID, mock.AnythingOfType("time.Time")).
		Return(&acted, domain.DocStatusRejected, nil).Once()

	_, status, err := suite.service.ProcessApproval(ctx, approvalID, domain.ActionReject, "over budget", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocStatusRejected, status)
}

func (suite *ApprovalServiceTestSuite) TestProcessApproval_UnknownAction() {
	ctx := context.Background()

	_, _, err := suite.service.ProcessApproval(ctx, uuid.NewString(), domain.ApprovalAction("defer"), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "ApplyAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestListPendingForUser_EmptyNeverNil() {
	ctx := context.Background()

	suite.mockApprovalRepo.On("ListPendingApprovalsForUser", ctx, suite.userID).Return(nil, nil).Once()

	approvals, err := suite.service.ListPendingForUser(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(approvals)
	suite.Empty(approvals)
}

func (suite *ApprovalServiceTestSuite) TestListDocumentApprovals_FiltersForeignCompany() {
	ctx := context.Background()
	docID := uuid.NewString()
	mine := domain.Approval{ApprovalID: uuid.NewString(), CompanyID: suite.companyID, DocumentID: docID, Step: 1}
	foreign := domain.Approval{ApprovalID: uuid.NewString(), CompanyID: uuid.NewString(), DocumentID: docID, Step: 1}

	suite.mockApprovalRepo.On("FindApprovalsByDocument", ctx, domain.DocTypePurchaseOrder, docID).
		Return([]domain.Approval{mine, foreign}, nil).Once()

	approvals, err := suite.service.ListDocumentApprovals(ctx, suite.companyID, domain.DocTypePurchaseOrder, docID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 1)
	suite.Equal(mine.ApprovalID, approvals[0].ApprovalID)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
