package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// approvalHandler handles user-scoped approval queries and actions.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: as}
}

// registerApprovalRoutes registers the approval inbox routes. These are
// user scoped rather than company scoped.
func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/pending", h.listPending)
		approvals.POST("/:approvalID/action", h.processApproval)
	}
}

// listPending godoc
// @Summary List pending approvals
// @Description Retrieves the unacted approval steps assigned to the authenticated user across all their companies.
// @Tags approvals
// @Produce json
// @Success 200 {array} dto.ApprovalResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /approvals/pending [get]
func (h *approvalHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	approvals, err := h.approvalService.ListPendingForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list pending approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListApprovalResponse(approvals))
}

// processApproval godoc
// @Summary Act on an approval step
// @Description Records an approve, reject or revision decision on one approval step and returns the resulting document status.
// @Tags approvals
// @Accept json
// @Produce json
// @Param approvalID path string true "Approval ID"
// @Param action body dto.ProcessApprovalRequest true "Decision"
// @Success 200 {object} dto.ProcessApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /approvals/{approvalID}/action [post]
func (h *approvalHandler) processApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ProcessApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	approval, status, err := h.approvalService.ProcessApproval(c.Request.Context(), c.Param("approvalID"), req.Action, req.Comment, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to process approval")
		return
	}
	c.JSON(http.StatusOK, dto.ProcessApprovalResponse{
		Approval:       dto.ToApprovalResponse(approval),
		DocumentStatus: status,
	})
}
