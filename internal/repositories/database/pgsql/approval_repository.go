package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	"github.com/Ieproduct/nokplus-sub000/internal/models"
)

type PgxApprovalRepository struct {
	BaseRepository
	docWriter portsrepo.DocumentWriter
}

// newPgxApprovalRepository creates a new repository for approval step records.
// It takes the document writer so that chain replacement and action recording
// can write the document status inside the same transaction.
func newPgxApprovalRepository(pool *pgxpool.Pool, docWriter portsrepo.DocumentWriter) portsrepo.ApprovalRepositoryWithTx {
	return &PgxApprovalRepository{BaseRepository: BaseRepository{Pool: pool}, docWriter: docWriter}
}

var _ portsrepo.ApprovalRepositoryWithTx = (*PgxApprovalRepository)(nil)

func toDomainApproval(m models.Approval) domain.Approval {
	a := domain.Approval{
		ApprovalID:   m.ApprovalID,
		CompanyID:    m.CompanyID,
		DocumentType: domain.DocumentType(m.DocumentType),
		DocumentID:   m.DocumentID,
		Step:         m.Step,
		ApproverID:   m.ApproverID,
		Label:        m.Label,
		ActedAt:      m.ActedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.Action != nil {
		action := domain.ApprovalAction(*m.Action)
		a.Action = &action
	}
	if m.Comment != nil {
		a.Comment = *m.Comment
	}
	return a
}

const approvalColumns = `approval_id, company_id, document_type, document_id, step, approver_id, label, action, comment, acted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanApprovalRow(row pgx.Row) (*models.Approval, error) {
	var m models.Approval
	err := row.Scan(
		&m.ApprovalID, &m.CompanyID, &m.DocumentType, &m.DocumentID, &m.Step,
		&m.ApproverID, &m.Label, &m.Action, &m.Comment, &m.ActedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindApprovalByID retrieves a specific approval record.
func (r *PgxApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE approval_id = $1;`
	m, err := scanApprovalRow(r.Pool.QueryRow(ctx, query, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: approval %s", apperrors.ErrNotFound, approvalID)
		}
		return nil, fmt.Errorf("failed to find approval %s: %w", approvalID, err)
	}
	a := toDomainApproval(*m)
	return &a, nil
}

// FindApprovalsByDocument retrieves all approval records of a document
// ordered by step.
func (r *PgxApprovalRepository) FindApprovalsByDocument(ctx context.Context, docType domain.DocumentType, documentID string) ([]domain.Approval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE document_type = $1 AND document_id = $2
		ORDER BY step;
	`
	rows, err := r.Pool.Query(ctx, query, string(docType), documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals for document %s: %w", documentID, err)
	}
	defer rows.Close()
	return collectApprovals(rows)
}

// ListPendingApprovalsForUser retrieves unacted approval records whose
// approver member is linked to the given login user, oldest first.
func (r *PgxApprovalRepository) ListPendingApprovalsForUser(ctx context.Context, userID string) ([]domain.Approval, error) {
	query := `
		SELECT ` + approvalPrefixedColumns + `
		FROM approvals a
		JOIN members m ON m.member_id = a.approver_id
		WHERE m.user_id = $1 AND a.action IS NULL
		ORDER BY a.created_at, a.approval_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals for user %s: %w", userID, err)
	}
	defer rows.Close()
	return collectApprovals(rows)
}

const approvalPrefixedColumns = `a.approval_id, a.company_id, a.document_type, a.document_id, a.step, a.approver_id, a.label, a.action, a.comment, a.acted_at, a.created_at, a.created_by, a.last_updated_at, a.last_updated_by`

func collectApprovals(rows pgx.Rows) ([]domain.Approval, error) {
	var approvals []domain.Approval
	for rows.Next() {
		m, err := scanApprovalRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval row: %w", err)
		}
		approvals = append(approvals, toDomainApproval(*m))
	}
	return approvals, rows.Err()
}

// ReplaceDocumentApprovals deletes any prior approval records of the document,
// bulk-inserts the new chain and sets the document status to pending approval,
// all within one transaction. Resubmission is destructive: old steps are
// discarded, never merged.
func (r *PgxApprovalRepository) ReplaceDocumentApprovals(ctx context.Context, doc domain.Document, approvals []domain.Approval) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	deleteQuery := `DELETE FROM approvals WHERE document_type = $1 AND document_id = $2;`
	if _, err := tx.Exec(ctx, deleteQuery, string(doc.Type), doc.DocumentID); err != nil {
		return fmt.Errorf("failed to clear approvals for document %s: %w", doc.DocumentID, err)
	}

	insertQuery := `
		INSERT INTO approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NULL, NULL, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, a := range approvals {
		batch.Queue(insertQuery,
			a.ApprovalID, a.CompanyID, string(a.DocumentType), a.DocumentID, a.Step,
			a.ApproverID, a.Label,
			a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		for range approvals {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert approval chain for document %s: %w", doc.DocumentID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close approval insert batch: %w", err)
		}
	}

	var updatedBy string
	if doc.SubmittedBy != nil {
		updatedBy = *doc.SubmittedBy
	}
	if err := r.docWriter.UpdateDocumentStatusInTx(ctx, tx, doc.Type, doc.DocumentID, domain.DocStatusPendingApproval, updatedBy, time.Now()); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ApplyAction records an approver's decision on one step and writes the
// resulting document status within the same transaction. The record update
// and the subsequent re-read run in one transaction so two concurrent final
// approvals cannot both observe an incomplete chain.
func (r *PgxApprovalRepository) ApplyAction(ctx context.Context, approvalID string, action domain.ApprovalAction, comment string, actedBy string, now time.Time) (*domain.Approval, domain.DocumentStatus, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	updateQuery := `
		UPDATE approvals
		SET action = $2, comment = $3, acted_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE approval_id = $1
		RETURNING ` + approvalColumns + `;
	`
	m, err := scanApprovalRow(tx.QueryRow(ctx, updateQuery, approvalID, string(action), comment, now, actedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: approval %s", apperrors.ErrNotFound, approvalID)
		}
		return nil, "", fmt.Errorf("failed to record action on approval %s: %w", approvalID, err)
	}
	updated := toDomainApproval(*m)

	siblingsQuery := `
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE document_type = $1 AND document_id = $2
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, siblingsQuery, string(updated.DocumentType), updated.DocumentID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read approvals of document %s: %w", updated.DocumentID, err)
	}
	siblings, err := collectApprovals(rows)
	rows.Close()
	if err != nil {
		return nil, "", err
	}

	status := domain.NextDocumentStatus(action, domain.AllApproved(siblings))
	if err := r.docWriter.UpdateDocumentStatusInTx(ctx, tx, updated.DocumentType, updated.DocumentID, status, actedBy, now); err != nil {
		return nil, "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, "", err
	}
	return &updated, status, nil
}
