package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// DocumentReader defines read operations for procurement documents.
type DocumentReader interface {
	// FindDocument retrieves a document of the given type by its identifier.
	FindDocument(ctx context.Context, docType domain.DocumentType, documentID string) (*domain.Document, error)

	// ListDocumentsByCompany retrieves documents of one type for a company.
	ListDocumentsByCompany(ctx context.Context, companyID string, docType domain.DocumentType, limit, offset int) ([]domain.Document, error)
}

// DocumentWriter defines write operations for procurement documents.
type DocumentWriter interface {
	// SaveDocument persists a new document.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocument updates a document's editable fields.
	UpdateDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentStatus writes back the document lifecycle status.
	UpdateDocumentStatus(ctx context.Context, docType domain.DocumentType, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error

	// UpdateDocumentStatusInTx writes back the status using an existing
	// transaction; used by the approval repository so that chain writes and
	// status write-back commit atomically.
	UpdateDocumentStatusInTx(ctx context.Context, tx pgx.Tx, docType domain.DocumentType, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
