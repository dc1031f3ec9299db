package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) SubmitForApproval(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) ([]domain.Approval, error) {
	args := m.Called(ctx, companyID, docType, documentID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *MockApprovalService) ProcessApproval(ctx context.Context, approvalID string, action domain.ApprovalAction, comment string, requestingUserID string) (*domain.Approval, domain.DocumentStatus, error) {
	args := m.Called(ctx, approvalID, action, comment, requestingUserID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Approval), args.Get(1).(domain.DocumentStatus), args.Error(2)
}

func (m *MockApprovalService) ListPendingForUser(ctx context.Context, userID string) ([]domain.Approval, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *MockApprovalService) ListDocumentApprovals(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) ([]domain.Approval, error) {
	args := m.Called(ctx, companyID, docType, documentID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Test Suite ---
type ApprovalHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockApprovalService
	jwtSecret   string
	userID      string
}

func (suite *ApprovalHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "approval-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ApprovalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockApprovalService)
	v1 := suite.router.Group("/api/v1")
	registerApprovalRoutes(v1, suite.mockService)
}

func (suite *ApprovalHandlerTestSuite) doRequest(method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ApprovalHandlerTestSuite) TestListPending_Success() {
	pending := []domain.Approval{
		{ApprovalID: uuid.NewString(), DocumentType: domain.DocTypePurchaseRequisition, DocumentID: uuid.NewString(), Step: 1, ApproverID: uuid.NewString()},
	}
	suite.mockService.On("ListPendingForUser", mock.Anything, suite.userID).Return(pending, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/pending", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ApprovalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal(pending[0].ApprovalID, resp[0].ApprovalID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestListPending_Unauthorized() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/approvals/pending", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListPendingForUser", mock.Anything, mock.Anything)
}

func (suite *ApprovalHandlerTestSuite) TestProcessApproval_Approve() {
	approvalID := uuid.NewString()
	action := domain.ActionApprove
	acted := &domain.Approval{ApprovalID: approvalID, Step: 1, Action: &action, Comment: "ok"}

	suite.mockService.On("ProcessApproval", mock.Anything, approvalID, domain.ActionApprove, "ok", suite.userID).
		Return(acted, domain.DocStatusApproved, nil).Once()

	body, _ := json.Marshal(dto.ProcessApprovalRequest{Action: domain.ActionApprove, Comment: "ok"})
	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/"+approvalID+"/action", body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ProcessApprovalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.DocStatusApproved, resp.DocumentStatus)
	suite.Equal(approvalID, resp.Approval.ApprovalID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestProcessApproval_InvalidActionRejectedByBinding() {
	body := []byte(`{"action":"defer"}`)
	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/"+uuid.NewString()+"/action", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ProcessApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalHandlerTestSuite) TestProcessApproval_NotFound() {
	approvalID := uuid.NewString()

	suite.mockService.On("ProcessApproval", mock.Anything, approvalID, domain.ActionReject, "", suite.userID).
		Return(nil, domain.DocumentStatus(""), apperrors.ErrNotFound).Once()

	body, _ := json.Marshal(dto.ProcessApprovalRequest{Action: domain.ActionReject})
	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/"+approvalID+"/action", body)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestApprovalHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalHandlerTestSuite))
}
