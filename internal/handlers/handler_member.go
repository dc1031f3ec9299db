package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// memberHandler handles HTTP requests related to organization members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerMemberRoutes registers the member routes under a company scope.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	members := rg.Group("/members")
	{
		members.POST("", h.createMember)
		members.GET("", h.listMembers)
		members.GET("/:memberID", h.getMember)
		members.PUT("/:memberID", h.updateMember)
		members.DELETE("/:memberID", h.deleteMember)
	}
}

// createMember godoc
// @Summary Create a member
// @Description Adds a member to the company hierarchy. The reporting relationship is rejected when it would introduce a cycle. Admin only.
// @Tags members
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse "Invalid input or reporting cycle"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List members
// @Description Retrieves the active members of a company.
// @Tags members
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), c.Param("companyID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// getMember godoc
// @Summary Get a member
// @Description Retrieves one member.
// @Tags members
// @Produce json
// @Param companyID path string true "Company ID"
// @Param memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), c.Param("companyID"), c.Param("memberID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a member
// @Description Updates a member after re-validating the reporting chain. Admin only.
// @Tags members
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param memberID path string true "Member ID"
// @Param member body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members/{memberID} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), c.Param("companyID"), c.Param("memberID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// deleteMember godoc
// @Summary Deactivate a member
// @Description Soft-deletes a member so they are skipped during chain resolution. Admin only.
// @Tags members
// @Produce json
// @Param companyID path string true "Company ID"
// @Param memberID path string true "Member ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/members/{memberID} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), c.Param("companyID"), c.Param("memberID"), userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate member")
		return
	}
	c.Status(http.StatusNoContent)
}
