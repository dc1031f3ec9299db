package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// companyHandler handles HTTP requests related to companies and memberships.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers the company routes and delegates the
// company-scoped resources (flows, tiers, members, documents) to their own
// handlers under /companies/:companyID.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listUserCompanies)
		companies.GET("/:companyID", h.getCompany)
		companies.POST("/:companyID/users", h.addUserToCompany)
	}

	scoped := companies.Group("/:companyID")
	registerFlowRoutes(scoped, services.Flow)
	registerTierRoutes(scoped, services.Tier)
	registerMemberRoutes(scoped, services.Member)
	registerDocumentRoutes(scoped, services.Document, services.Approval)
}

// createCompany godoc
// @Summary Create a company
// @Description Creates a new company; the creator becomes its admin.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create company")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listUserCompanies godoc
// @Summary List my companies
// @Description Retrieves the companies the authenticated user belongs to.
// @Tags companies
// @Produce json
// @Success 200 {array} dto.CompanyResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCompanyResponse(companies))
}

// getCompany godoc
// @Summary Get a company
// @Description Retrieves one company the user is a member of.
// @Tags companies
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), c.Param("companyID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// addUserToCompany godoc
// @Summary Add a user to a company
// @Description Adds an existing user to a company with a role. Admin only.
// @Tags companies
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param membership body dto.AddUserToCompanyRequest true "User and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/users [post]
func (h *companyHandler) addUserToCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AddUserToCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.companyService.AddUserToCompany(c.Request.Context(), c.Param("companyID"), req, userID); err != nil {
		respondError(c, logger, err, "Failed to add user to company")
		return
	}
	c.Status(http.StatusNoContent)
}
