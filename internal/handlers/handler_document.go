package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
	"github.com/Ieproduct/nokplus-sub000/internal/middleware"
)

// documentHandler handles HTTP requests for procurement documents and
// their submission into the approval workflow.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	approvalService portssvc.ApprovalSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade, as portssvc.ApprovalSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds, approvalService: as}
}

// registerDocumentRoutes registers the document routes under a company scope.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, approvalService portssvc.ApprovalSvcFacade) {
	h := newDocumentHandler(documentService, approvalService)

	docs := rg.Group("/documents/:docType")
	{
		docs.POST("", h.createDocument)
		docs.GET("", h.listDocuments)
		docs.GET("/:documentID", h.getDocument)
		docs.PUT("/:documentID", h.updateDocument)
		docs.POST("/:documentID/submit", h.submitForApproval)
		docs.GET("/:documentID/approvals", h.listDocumentApprovals)
	}
}

func (h *documentHandler) docType(c *gin.Context) (domain.DocumentType, bool) {
	dt := domain.DocumentType(c.Param("docType"))
	if !domain.ValidDocumentType(dt) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "docType must be one of pr, po, ap"})
		return "", false
	}
	return dt, true
}

// createDocument godoc
// @Summary Create a document
// @Description Creates a purchase requisition, purchase order or AP voucher in draft state.
// @Tags documents
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param docType path string true "Document type (pr, po, ap)"
// @Param document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/documents/{docType} [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	dt, ok := h.docType(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), c.Param("companyID"), dt, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves a page of documents of one type for a company, newest first.
// @Tags documents
// @Produce json
// @Param companyID path string true "Company ID"
// @Param docType path string true "Document type (pr, po, ap)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset (default 0)"
// @Success 200 {array} dto.DocumentResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/documents/{docType} [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	dt, ok := h.docType(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	docs, err := h.documentService.ListDocuments(c.Request.Context(), c.Param("companyID"), dt, limit, offset, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDocumentResponse(docs))
}

// getDocument godoc
// @Summary Get a document
// @Description Retrieves one document.
// @Tags documents
// @Produce json
// @Param companyID path string true "Company ID"
// @Param docType path string true "Document type (pr, po, ap)"
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/documents/{docType}/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	dt, ok := h.docType(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("companyID"), dt, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// updateDocument godoc
// @Summary Update a document
// @Description Updates a document that is still in draft or revision state.
// @Tags documents
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param docType path string true "Document type (pr, po, ap)"
// @Param documentID path string true "Document ID"
// @Param document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Document is not editable"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/documents/{docType}/{documentID} [put]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	dt, ok := h.docType(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), c.Param("companyID"), dt, c.Param("documentID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// submitForApproval godoc
// @Summary Submit a document for approval
// @Description Resolves the approval chain for the document and replaces any prior approval records. The document moves to pending approval.
// @Tags documents
// @Produce json
// @Param companyID path string true "Company ID"
// @Param docType path string true "Document type (pr, po, ap)"
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.SubmitForApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/documents/{docType}/{documentID}/submit [post]
func (h *documentHandler) submitForApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	dt, ok := h.docType(c)
	if !ok {
		return
	}

	approvals, err := h.approvalService.SubmitForApproval(c.Request.Context(), c.Param("companyID"), dt, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to submit document for approval")
		return
	}
	c.JSON(http.StatusOK, dto.SubmitForApprovalResponse{
		DocumentStatus: domain.DocStatusPendingApproval,
		Steps:          dto.ToListApprovalResponse(approvals),
	})
}

// listDocumentApprovals godoc
// @Summary List a document's approval records
// @Description Retrieves every approval step of the document in chain order.
// @Tags documents
// @Produce json
// @Param companyID path string true "Company ID"
// @Param docType path string true "Document type (pr, po, ap)"
// @Param documentID path string true "Document ID"
// @Success 200 {array} dto.ApprovalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/documents/{docType}/{documentID}/approvals [get]
func (h *documentHandler) listDocumentApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	dt, ok := h.docType(c)
	if !ok {
		return
	}

	approvals, err := h.approvalService.ListDocumentApprovals(c.Request.Context(), c.Param("companyID"), dt, c.Param("documentID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list document approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListApprovalResponse(approvals))
}
