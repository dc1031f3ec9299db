package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// tierHandler handles HTTP requests related to approval tiers.
type tierHandler struct {
	tierService portssvc.TierSvcFacade
}

func newTierHandler(ts portssvc.TierSvcFacade) *tierHandler {
	return &tierHandler{tierService: ts}
}

// registerTierRoutes registers the tier routes under a company scope.
func registerTierRoutes(rg *gin.RouterGroup, tierService portssvc.TierSvcFacade) {
	h := newTierHandler(tierService)

	tiers := rg.Group("/tiers")
	{
		tiers.POST("", h.createTier)
		tiers.GET("", h.listTiers)
		tiers.GET("/:tierID", h.getTier)
		tiers.PUT("/:tierID", h.updateTier)
		tiers.DELETE("/:tierID", h.deleteTier)
	}
}

// createTier godoc
// @Summary Create an approval tier
// @Description Creates an amount-range tier with a fixed approver list. Ranges must not overlap sibling tiers. Admin only.
// @Tags tiers
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param tier body dto.CreateTierRequest true "Tier details"
// @Success 201 {object} dto.TierResponse
// @Failure 400 {object} ErrorResponse "Invalid input or overlapping range"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/tiers [post]
func (h *tierHandler) createTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tier, err := h.tierService.CreateTier(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create tier")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTierResponse(tier))
}

// listTiers godoc
// @Summary List tiers
// @Description Retrieves the tiers of a company for one document type, ordered by min amount.
// @Tags tiers
// @Produce json
// @Param companyID path string true "Company ID"
// @Param documentType query string true "Document type (pr, po, ap)"
// @Success 200 {array} dto.TierResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/tiers [get]
func (h *tierHandler) listTiers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	docType := domain.DocumentType(c.Query("documentType"))
	if !domain.ValidDocumentType(docType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "documentType must be one of pr, po, ap"})
		return
	}

	tiers, err := h.tierService.ListTiers(c.Request.Context(), c.Param("companyID"), docType, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list tiers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTierResponse(tiers))
}

// getTier godoc
// @Summary Get a tier
// @Description Retrieves one approval tier.
// @Tags tiers
// @Produce json
// @Param companyID path string true "Company ID"
// @Param tierID path string true "Tier ID"
// @Success 200 {object} dto.TierResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/tiers/{tierID} [get]
func (h *tierHandler) getTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tier, err := h.tierService.GetTierByID(c.Request.Context(), c.Param("companyID"), c.Param("tierID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve tier")
		return
	}
	c.JSON(http.StatusOK, dto.ToTierResponse(tier))
}

// updateTier godoc
// @Summary Update a tier
// @Description Updates a tier after re-validating non-overlap. Admin only.
// @Tags tiers
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param tierID path string true "Tier ID"
// @Param tier body dto.UpdateTierRequest true "Fields to update"
// @Success 200 {object} dto.TierResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/tiers/{tierID} [put]
func (h *tierHandler) updateTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tier, err := h.tierService.UpdateTier(c.Request.Context(), c.Param("companyID"), c.Param("tierID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update tier")
		return
	}
	c.JSON(http.StatusOK, dto.ToTierResponse(tier))
}

// deleteTier godoc
// @Summary Delete a tier
// @Description Removes a tier. Admin only.
// @Tags tiers
// @Produce json
// @Param companyID path string true "Company ID"
// @Param tierID path string true "Tier ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/tiers/{tierID} [delete]
func (h *tierHandler) deleteTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.tierService.DeleteTier(c.Request.Context(), c.Param("companyID"), c.Param("tierID"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete tier")
		return
	}
	c.Status(http.StatusNoContent)
}
