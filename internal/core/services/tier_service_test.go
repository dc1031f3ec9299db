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
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

type TierServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockTierRepository
	service   portssvc.TierSvcFacade
	companyID string
	userID    string
}

func (suite *TierServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTierRepository)
	suite.service = services.NewTierService(suite.mockRepo, nil)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *TierServiceTestSuite) tier(min string, max *string) domain.ApprovalTier {
	t := domain.ApprovalTier{
		TierID:       uuid.NewString(),
		CompanyID:    suite.companyID,
		DocumentType: domain.DocTypePurchaseRequisition,
		MinAmount:    decimal.RequireFromString(min),
		Approvers:    []domain.TierApprover{{MemberID: uuid.NewString()}},
	}
	if max != nil {
		t.MaxAmount = decPtr(*max)
	}
	return t
}

func (suite *TierServiceTestSuite) TestCreateTier_Success() {
	ctx := context.Background()
	req := dto.CreateTierRequest{
		DocumentType: domain.DocTypePurchaseRequisition,
		Name:         "Small purchases",
		MinAmount:    decimal.Zero,
		MaxAmount:    decPtr("4999"),
		Approvers:    []dto.TierApproverRequest{{MemberID: uuid.NewString(), Label: "Team Lead"}},
	}

	suite.mockRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, req.DocumentType).
		Return([]domain.ApprovalTier{}, nil).Once()
	suite.mockRepo.On("SaveTier", ctx, mock.MatchedBy(func(t domain.ApprovalTier) bool {
		return t.CompanyID == suite.companyID && t.Name == req.Name && len(t.Approvers) == 1 &&
			t.Approvers[0].Label == "Team Lead" && t.CreatedBy == suite.userID
	})).Return(nil).Once()

	tier, err := suite.service.CreateTier(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(tier)
	suite.Equal(req.Name, tier.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TierServiceTestSuite) TestCreateTier_RangeInverted() {
	ctx := context.Background()
	req := dto.CreateTierRequest{
		DocumentType: domain.DocTypePurchaseRequisition,
		Name:         "Broken",
		MinAmount:    decimal.RequireFromString("5000"),
		MaxAmount:    decPtr("100"),
		Approvers:    []dto.TierApproverRequest{{MemberID: uuid.NewString()}},
	}

	tier, err := suite.service.CreateTier(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(tier)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrTierRangeInverted)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTier", mock.Anything, mock.Anything)
}

func (suite *TierServiceTestSuite) TestCreateTier_OverlapRejected() {
	ctx := context.Background()
	existingMax := "49999"
	existing := suite.tier("5000", &existingMax)
	req := dto.CreateTierRequest{
		DocumentType: domain.DocTypePurchaseRequisition,
		Name:         "Overlapping",
		MinAmount:    decimal.RequireFromString("40000"),
		MaxAmount:    decPtr("60000"),
		Approvers:    []dto.TierApproverRequest{{MemberID: uuid.NewString()}},
	}

	suite.mockRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, req.DocumentType).
		Return([]domain.ApprovalTier{existing}, nil).Once()

	tier, err := suite.service.CreateTier(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(tier)
	suite.ErrorIs(err, services.ErrTierOverlap)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTier", mock.Anything, mock.Anything)
}

func (suite *TierServiceTestSuite) TestUpdateTier_SkipsSelfInOverlapCheck() {
	ctx := context.Background()
	max := "4999"
	existing := suite.tier("0", &max)
	newName := "Renamed"

	suite.mockRepo.On("FindTierByID", ctx, existing.TierID).Return(&existing, nil).Once()
	suite.mockRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, existing.DocumentType).
		Return([]domain.ApprovalTier{existing}, nil).Once()
	suite.mockRepo.On("UpdateTier", ctx, mock.MatchedBy(func(t domain.ApprovalTier) bool {
		return t.TierID == existing.TierID && t.Name == newName
	})).Return(nil).Once()

	tier, err := suite.service.UpdateTier(ctx, suite.companyID, existing.TierID, dto.UpdateTierRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, tier.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TierServiceTestSuite) TestSelectTier_PicksContainingRange() {
	ctx := context.Background()
	lowMax := "4999"
	midMax := "49999"
	low := suite.tier("0", &lowMax)
	mid := suite.tier("5000", &midMax)
	high := suite.tier("50000", nil)

	suite.mockRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, domain.DocTypePurchaseRequisition).
		Return([]domain.ApprovalTier{low, mid, high}, nil)

	tier, err := suite.service.SelectTier(ctx, suite.companyID, domain.DocTypePurchaseRequisition, decPtr("30000"))
	suite.Require().NoError(err)
	suite.Require().NotNil(tier)
	suite.Equal(mid.TierID, tier.TierID)

	// Boundary amounts are inclusive on both ends.
	tier, err = suite.service.SelectTier(ctx, suite.companyID, domain.DocTypePurchaseRequisition, decPtr("4999"))
	suite.Require().NoError(err)
	suite.Require().NotNil(tier)
	suite.Equal(low.TierID, tier.TierID)

	tier, err = suite.service.SelectTier(ctx, suite.companyID, domain.DocTypePurchaseRequisition, decPtr("5000"))
	suite.Require().NoError(err)
	suite.Require().NotNil(tier)
	suite.Equal(mid.TierID, tier.TierID)

	// Unbounded top tier catches everything above its minimum.
	tier, err = suite.service.SelectTier(ctx, suite.companyID, domain.DocTypePurchaseRequisition, decPtr("9999999"))
	suite.Require().NoError(err)
	suite.Require().NotNil(tier)
	suite.Equal(high.TierID, tier.TierID)
}

func (suite *TierServiceTestSuite) TestSelectTier_NilAmount() {
	ctx := context.Background()

	tier, err := suite.service.SelectTier(ctx, suite.companyID, domain.DocTypePurchaseRequisition, nil)

	suite.Require().NoError(err)
	suite.Nil(tier)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListTiersByCompanyAndType", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TierServiceTestSuite) TestSelectTier_NoMatch() {
	ctx := context.Background()
	max := "4999"
	low := suite.tier("1000", &max)

	suite.mockRepo.On("ListTiersByCompanyAndType", ctx, suite.companyID, domain.DocTypePurchaseRequisition).
		Return([]domain.ApprovalTier{low}, nil).Once()

	tier, err := suite.service.SelectTier(ctx, suite.companyID, domain.DocTypePurchaseRequisition, decPtr("500"))

	suite.Require().NoError(err)
	suite.Nil(tier)
}

func (suite *TierServiceTestSuite) TestGetTierByID_ForeignCompany() {
	ctx := context.Background()
	max := "100"
	foreign := suite.tier("0", &max)
	foreign.CompanyID = uuid.NewString()

	suite.mockRepo.On("FindTierByID", ctx, foreign.TierID).Return(&foreign, nil).Once()

	tier, err := suite.service.GetTierByID(ctx, suite.companyID, foreign.TierID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(tier)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestTierServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TierServiceTestSuite))
}
