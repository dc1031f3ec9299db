package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	"github.com/Ieproduct/nokplus-sub000/internal/models"
)

// documentTables maps a document type to its backing table. The three
// tables share one column layout.
var documentTables = map[domain.DocumentType]string{
	domain.DocTypePurchaseRequisition: "purchase_requisitions",
	domain.DocTypePurchaseOrder:       "purchase_orders",
	domain.DocTypeAPVoucher:           "ap_vouchers",
}

// documentTable resolves the table for a document type. Unknown types fail
// loudly rather than interpolating arbitrary strings into SQL.
func documentTable(docType domain.DocumentType) (string, error) {
	table, ok := documentTables[docType]
	if !ok {
		return "", fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}
	return table, nil
}

type PgxDocumentRepository struct {
	pool *pgxpool.Pool
}

// newPgxDocumentRepository creates a new repository for procurement documents.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{pool: pool}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func toDomainDocument(m models.Document, docType domain.DocumentType) domain.Document {
	return domain.Document{
		DocumentID:  m.DocumentID,
		CompanyID:   m.CompanyID,
		Type:        docType,
		DocNo:       m.DocNo,
		Description: m.Description,
		Department:  m.Department,
		VendorName:  m.VendorName,
		DocDate:     m.DocDate,
		TotalAmount: m.TotalAmount,
		Status:      domain.DocumentStatus(m.Status),
		SubmittedBy: m.SubmittedBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const documentColumns = `document_id, company_id, doc_no, description, department, vendor_name, doc_date, total_amount, status, submitted_by, created_at, created_by, last_updated_at, last_updated_by`

func scanDocumentRow(row pgx.Row) (*models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID, &m.CompanyID, &m.DocNo, &m.Description, &m.Department, &m.VendorName,
		&m.DocDate, &m.TotalAmount, &m.Status, &m.SubmittedBy,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveDocument inserts a new document.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	table, err := documentTable(doc.Type)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + table + ` (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = r.pool.Exec(ctx, query,
		doc.DocumentID, doc.CompanyID, doc.DocNo, doc.Description, doc.Department, doc.VendorName,
		doc.DocDate, doc.TotalAmount, string(doc.Status), doc.SubmittedBy,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: document %s already exists", apperrors.ErrDuplicate, doc.DocumentID)
		}
		return fmt.Errorf("failed to save document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// UpdateDocument updates a document's editable fields.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	table, err := documentTable(doc.Type)
	if err != nil {
		return err
	}

	query := `
		UPDATE ` + table + `
		SET description = $2, department = $3, vendor_name = $4, total_amount = $5, last_updated_at = $6, last_updated_by = $7
		WHERE document_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		doc.DocumentID, doc.Description, doc.Department, doc.VendorName, doc.TotalAmount,
		doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, doc.DocumentID)
	}
	return nil
}

// UpdateDocumentStatus writes back the document lifecycle status.
func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, docType domain.DocumentType, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	table, err := documentTable(docType)
	if err != nil {
		return err
	}
	return execUpdateStatus(ctx, r.pool, table, documentID, status, updatedBy, now)
}

// UpdateDocumentStatusInTx writes back the status using an existing
// transaction, so chain writes and status write-back commit atomically.
func (r *PgxDocumentRepository) UpdateDocumentStatusInTx(ctx context.Context, tx pgx.Tx, docType domain.DocumentType, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	table, err := documentTable(docType)
	if err != nil {
		return err
	}
	return execUpdateStatus(ctx, tx, table, documentID, status, updatedBy, now)
}

// execer is the subset of pgxpool.Pool and pgx.Tx needed for status updates.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func execUpdateStatus(ctx context.Context, db execer, table, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE ` + table + `
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`
	tag, err := db.Exec(ctx, query, documentID, string(status), now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}
	return nil
}

// FindDocument retrieves a document of the given type by its identifier.
func (r *PgxDocumentRepository) FindDocument(ctx context.Context, docType domain.DocumentType, documentID string) (*domain.Document, error) {
	table, err := documentTable(docType)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + documentColumns + ` FROM ` + table + ` WHERE document_id = $1;`
	m, err := scanDocumentRow(r.pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	d := toDomainDocument(*m, docType)
	return &d, nil
}

// ListDocumentsByCompany retrieves a page of documents of one type for a
// company, most recent first.
func (r *PgxDocumentRepository) ListDocumentsByCompany(ctx context.Context, companyID string, docType domain.DocumentType, limit, offset int) ([]domain.Document, error) {
	table, err := documentTable(docType)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + documentColumns + `
		FROM ` + table + `
		WHERE company_id = $1
		ORDER BY created_at DESC, document_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		m, err := scanDocumentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, toDomainDocument(*m, docType))
	}
	return docs, rows.Err()
}
