package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/core/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

type MemberServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockMemberRepository
	service   portssvc.MemberSvcFacade
	companyID string
	userID    string
}

func (suite *MemberServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMemberRepository)
	suite.service = services.NewMemberService(suite.mockRepo, nil)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *MemberServiceTestSuite) TestCreateMember_Success() {
	ctx := context.Background()
	req := dto.CreateMemberRequest{
		Name:              "Alice",
		OrgLevel:          intPtr(3),
		MaxApprovalAmount: decPtr("20000"),
	}

	suite.mockRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.CompanyID == suite.companyID && m.Name == "Alice" && m.IsActive &&
			m.OrgLevel != nil && *m.OrgLevel == 3 && m.CreatedBy == suite.userID
	})).Return(nil).Once()

	member, err := suite.service.CreateMember(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(member)
	suite.Equal("Alice", member.Name)
	suite.True(member.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_ValidReportingChain() {
	ctx := context.Background()
	grandparent := domain.Member{MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "CEO"}
	parent := domain.Member{
		MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "Manager",
		ReportsToMemberID: strPtr(grandparent.MemberID),
	}
	req := dto.CreateMemberRequest{Name: "Report", ReportsToMemberID: strPtr(parent.MemberID)}

	suite.mockRepo.On("FindMemberByID", ctx, parent.MemberID).Return(&parent, nil).Once()
	suite.mockRepo.On("FindMemberByID", ctx, grandparent.MemberID).Return(&grandparent, nil).Once()
	suite.mockRepo.On("SaveMember", ctx, mock.AnythingOfType("domain.Member")).Return(nil).Once()

	member, err := suite.service.CreateMember(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(member)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_ReportsToUnknown() {
	ctx := context.Background()
	missing := uuid.NewString()
	req := dto.CreateMemberRequest{Name: "Orphan", ReportsToMemberID: strPtr(missing)}

	suite.mockRepo.On("FindMemberByID", ctx, missing).Return(nil, apperrors.ErrNotFound).Once()

	member, err := suite.service.CreateMember(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(member)
	suite.ErrorIs(err, services.ErrReportsToUnknown)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestCreateMember_ReportsToForeignCompany() {
	ctx := context.Background()
	foreign := domain.Member{MemberID: uuid.NewString(), CompanyID: uuid.NewString(), Name: "Outsider"}
	req := dto.CreateMemberRequest{Name: "Confused", ReportsToMemberID: strPtr(foreign.MemberID)}

	suite.mockRepo.On("FindMemberByID", ctx, foreign.MemberID).Return(&foreign, nil).Once()

	member, err := suite.service.CreateMember(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(member)
	suite.ErrorIs(err, services.ErrReportsToUnknown)
}

func (suite *MemberServiceTestSuite) TestUpdateMember_ReportingCycleRejected() {
	ctx := context.Background()
	top := domain.Member{MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "Top"}
	mid := domain.Member{
		MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "Mid",
		ReportsToMemberID: strPtr(top.MemberID),
	}

	// Pointing top at mid closes the loop top -> mid -> top.
	suite.mockRepo.On("FindMemberByID", ctx, top.MemberID).Return(&top, nil).Once()
	suite.mockRepo.On("FindMemberByID", ctx, mid.MemberID).Return(&mid, nil).Once()

	member, err := suite.service.UpdateMember(ctx, suite.companyID, top.MemberID,
		dto.UpdateMemberRequest{ReportsToMemberID: strPtr(mid.MemberID)}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(member)
	suite.ErrorIs(err, services.ErrReportingCycle)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestUpdateMember_ResaveUnchangedChainIsIdempotent() {
	ctx := context.Background()
	parent := domain.Member{MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "Parent"}
	child := domain.Member{
		MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "Child",
		ReportsToMemberID: strPtr(parent.MemberID),
	}
	newName := "Child Renamed"

	suite.mockRepo.On("FindMemberByID", ctx, child.MemberID).Return(&child, nil).Once()
	suite.mockRepo.On("FindMemberByID", ctx, parent.MemberID).Return(&parent, nil).Once()
	suite.mockRepo.On("UpdateMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.MemberID == child.MemberID && m.Name == newName
	})).Return(nil).Once()

	member, err := suite.service.UpdateMember(ctx, suite.companyID, child.MemberID,
		dto.UpdateMemberRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, member.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestDeleteMember_Deactivates() {
	ctx := context.Background()
	member := domain.Member{MemberID: uuid.NewString(), CompanyID: suite.companyID, Name: "Leaver", IsActive: true}

	suite.mockRepo.On("FindMemberByID", ctx, member.MemberID).Return(&member, nil).Once()
	suite.mockRepo.On("DeactivateMember", ctx, member.MemberID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteMember(ctx, suite.companyID, member.MemberID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestListMembers_EmptyNeverNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListMembersByCompany", ctx, suite.companyID).Return(nil, nil).Once()

	members, err := suite.service.ListMembers(ctx, suite.companyID, suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(members)
	suite.Empty(members)
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
