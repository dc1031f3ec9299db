package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// flowHandler handles HTTP requests related to approval flows.
type flowHandler struct {
	flowService portssvc.FlowSvcFacade
}

func newFlowHandler(fs portssvc.FlowSvcFacade) *flowHandler {
	return &flowHandler{flowService: fs}
}

// registerFlowRoutes registers the flow routes under a company scope.
func registerFlowRoutes(rg *gin.RouterGroup, flowService portssvc.FlowSvcFacade) {
	h := newFlowHandler(flowService)

	flows := rg.Group("/flows")
	{
		flows.POST("", h.createFlow)
		flows.GET("", h.listFlows)
		flows.GET("/:flowID", h.getFlow)
		flows.PUT("/:flowID", h.updateFlow)
		flows.PUT("/:flowID/graph", h.replaceFlowGraph)
		flows.DELETE("/:flowID", h.deleteFlow)
	}
}

// createFlow godoc
// @Summary Create an approval flow
// @Description Creates a flow with a skeleton start-to-end graph. Admin only.
// @Tags flows
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param flow body dto.CreateFlowRequest true "Flow details"
// @Success 201 {object} dto.FlowResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/flows [post]
func (h *flowHandler) createFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	flow, err := h.flowService.CreateFlow(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create flow")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFlowResponse(flow))
}

// listFlows godoc
// @Summary List flows
// @Description Retrieves all active flows of a company.
// @Tags flows
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.FlowResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/flows [get]
func (h *flowHandler) listFlows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flows, err := h.flowService.ListFlows(c.Request.Context(), c.Param("companyID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list flows")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFlowResponse(flows))
}

// getFlow godoc
// @Summary Get a flow with its graph
// @Description Retrieves one flow together with its full node/edge set.
// @Tags flows
// @Produce json
// @Param companyID path string true "Company ID"
// @Param flowID path string true "Flow ID"
// @Success 200 {object} dto.FlowGraphResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/flows/{flowID} [get]
func (h *flowHandler) getFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flow, nodes, edges, err := h.flowService.GetFlowByID(c.Request.Context(), c.Param("companyID"), c.Param("flowID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve flow")
		return
	}
	c.JSON(http.StatusOK, dto.FlowGraphResponse{
		Flow:  dto.ToFlowResponse(flow),
		Nodes: nodes,
		Edges: edges,
	})
}

// updateFlow godoc
// @Summary Update flow metadata
// @Description Updates a flow's name and flags. Admin only.
// @Tags flows
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param flowID path string true "Flow ID"
// @Param flow body dto.UpdateFlowRequest true "Fields to update"
// @Success 200 {object} dto.FlowResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/flows/{flowID} [put]
func (h *flowHandler) updateFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	flow, err := h.flowService.UpdateFlow(c.Request.Context(), c.Param("companyID"), c.Param("flowID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToFlowResponse(flow))
}

// replaceFlowGraph godoc
// @Summary Replace a flow's graph
// @Description Atomically replaces the full node/edge set of a flow after validation. Admin only.
// @Tags flows
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param flowID path string true "Flow ID"
// @Param graph body dto.ReplaceFlowGraphRequest true "Replacement graph"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/flows/{flowID}/graph [put]
func (h *flowHandler) replaceFlowGraph(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ReplaceFlowGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.flowService.ReplaceFlowGraph(c.Request.Context(), c.Param("companyID"), c.Param("flowID"), req, userID); err != nil {
		respondError(c, logger, err, "Failed to replace flow graph")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteFlow godoc
// @Summary Delete a flow
// @Description Soft-deletes a flow. Admin only.
// @Tags flows
// @Produce json
// @Param companyID path string true "Company ID"
// @Param flowID path string true "Flow ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/flows/{flowID} [delete]
func (h *flowHandler) deleteFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.flowService.DeleteFlow(c.Request.Context(), c.Param("companyID"), c.Param("flowID"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete flow")
		return
	}
	c.Status(http.StatusNoContent)
}
