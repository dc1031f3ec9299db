package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

// ErrDocumentNotEditable is returned when a document is updated while the
// approval workflow holds it.
var ErrDocumentNotEditable = errors.New("document is not editable in its current status")

// documentService provides procurement document CRUD operations.
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepositoryFacade
}

// NewDocumentService creates a new document service.
func NewDocumentService(documentRepo portsrepo.DocumentRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.DocumentSvcFacade {
	return &documentService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		documentRepo: documentRepo,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// CreateDocument creates a document in draft state.
func (s *documentService) CreateDocument(ctx context.Context, companyID string, docType domain.DocumentType, req dto.CreateDocumentRequest, userID string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !domain.ValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}

	now := time.Now()
	doc := domain.Document{
		DocumentID:  uuid.New().String(),
		CompanyID:   companyID,
		Type:        docType,
		DocNo:       req.DocNo,
		Description: req.Description,
		Department:  req.Department,
		VendorName:  req.VendorName,
		DocDate:     req.DocDate,
		TotalAmount: req.TotalAmount,
		Status:      domain.DocStatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "failed to create document",
			slog.String("company_id", companyID), slog.String("doc_type", string(docType)))
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

// UpdateDocument updates an editable document. Documents under approval or
// already decided are frozen; a revision outcome reopens them.
func (s *documentService) UpdateDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	doc, err := s.findCompanyDocument(ctx, companyID, docType, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocStatusDraft && doc.Status != domain.DocStatusRevision {
		return nil, fmt.Errorf("%w: %w (%s)", apperrors.ErrValidation, ErrDocumentNotEditable, doc.Status)
	}

	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Department != nil {
		doc.Department = *req.Department
	}
	if req.VendorName != nil {
		doc.VendorName = *req.VendorName
	}
	if req.TotalAmount != nil {
		doc.TotalAmount = req.TotalAmount
	}
	doc.LastUpdatedAt = time.Now()
	doc.LastUpdatedBy = userID

	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return doc, nil
}

// GetDocument retrieves one document of the given type.
func (s *documentService) GetDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findCompanyDocument(ctx, companyID, docType, documentID)
}

// ListDocuments retrieves a page of documents of one type for a company.
func (s *documentService) ListDocuments(ctx context.Context, companyID string, docType domain.DocumentType, limit, offset int, requestingUserID string) ([]domain.Document, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	docs, err := s.documentRepo.ListDocumentsByCompany(ctx, companyID, docType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		return []domain.Document{}, nil
	}
	return docs, nil
}

// findCompanyDocument loads a document and verifies it belongs to the company.
func (s *documentService) findCompanyDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocument(ctx, docType, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if doc.CompanyID != companyID {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}
	return doc, nil
}
