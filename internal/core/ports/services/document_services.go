package services

import (
	"context"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

// DocumentReaderSvc defines read operations for procurement documents.
type DocumentReaderSvc interface {
	// GetDocument retrieves one document of the given type.
	GetDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, requestingUserID string) (*domain.Document, error)

	// ListDocuments retrieves a page of documents of one type for a company.
	ListDocuments(ctx context.Context, companyID string, docType domain.DocumentType, limit, offset int, requestingUserID string) ([]domain.Document, error)
}

// DocumentWriterSvc defines write operations for procurement documents.
type DocumentWriterSvc interface {
	// CreateDocument creates a document in draft state.
	CreateDocument(ctx context.Context, companyID string, docType domain.DocumentType, req dto.CreateDocumentRequest, userID string) (*domain.Document, error)

	// UpdateDocument updates an editable document.
	UpdateDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
