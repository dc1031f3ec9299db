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

type PgxFlowRepository struct {
	BaseRepository
}

// newPgxFlowRepository creates a new repository for approval flow data.
func newPgxFlowRepository(pool *pgxpool.Pool) portsrepo.FlowRepositoryWithTx {
	return &PgxFlowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FlowRepositoryWithTx = (*PgxFlowRepository)(nil)

func toModelFlow(d domain.Flow) models.Flow {
	return models.Flow{
		FlowID:       d.FlowID,
		CompanyID:    d.CompanyID,
		DocumentType: string(d.DocumentType),
		Name:         d.Name,
		IsDefault:    d.IsDefault,
		AutoEscalate: d.AutoEscalate,
		IsActive:     d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainFlow(m models.Flow) domain.Flow {
	return domain.Flow{
		FlowID:       m.FlowID,
		CompanyID:    m.CompanyID,
		DocumentType: domain.DocumentType(m.DocumentType),
		Name:         m.Name,
		IsDefault:    m.IsDefault,
		AutoEscalate: m.AutoEscalate,
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainFlowNode(m models.FlowNode) domain.FlowNode {
	n := domain.FlowNode{
		NodeID:             m.NodeID,
		FlowID:             m.FlowID,
		Type:               domain.FlowNodeType(m.Type),
		Name:               m.Name,
		MemberID:           m.MemberID,
		OrgLevel:           m.OrgLevel,
		MaxAmount:          m.MaxAmount,
		ConditionThreshold: m.ConditionThreshold,
	}
	if m.ConditionField != nil {
		n.ConditionField = *m.ConditionField
	}
	if m.ConditionOperator != nil {
		n.ConditionOperator = domain.ConditionOperator(*m.ConditionOperator)
	}
	return n
}

const flowColumns = `flow_id, company_id, document_type, name, is_default, auto_escalate, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanFlowRow(row pgx.Row) (*models.Flow, error) {
	var m models.Flow
	err := row.Scan(
		&m.FlowID, &m.CompanyID, &m.DocumentType, &m.Name, &m.IsDefault, &m.AutoEscalate, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveFlow inserts a new flow and its initial graph. When the flow is marked
// default, any prior default for the same company+document type is unset in
// the same transaction so the one-default invariant always holds.
func (r *PgxFlowRepository) SaveFlow(ctx context.Context, flow domain.Flow, nodes []domain.FlowNode, edges []domain.FlowEdge) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if flow.IsDefault {
		if err := unsetDefaultFlow(ctx, tx, flow.CompanyID, flow.DocumentType, flow.LastUpdatedBy, flow.LastUpdatedAt); err != nil {
			return err
		}
	}

	m := toModelFlow(flow)
	query := `
		INSERT INTO approval_flows (` + flowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		m.FlowID, m.CompanyID, m.DocumentType, m.Name, m.IsDefault, m.AutoEscalate, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: flow with ID %s already exists", apperrors.ErrDuplicate, m.FlowID)
		}
		return fmt.Errorf("failed to save flow %s: %w", m.FlowID, err)
	}

	if err := insertGraph(ctx, tx, flow.FlowID, nodes, edges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateFlow updates a flow's metadata, handling the default flag the same
// way SaveFlow does.
func (r *PgxFlowRepository) UpdateFlow(ctx context.Context, flow domain.Flow) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if flow.IsDefault {
		if err := unsetDefaultFlow(ctx, tx, flow.CompanyID, flow.DocumentType, flow.LastUpdatedBy, flow.LastUpdatedAt); err != nil {
			return err
		}
	}

	query := `
		UPDATE approval_flows
		SET name = $2, is_default = $3, auto_escalate = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE flow_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		flow.FlowID, flow.Name, flow.IsDefault, flow.AutoEscalate, flow.IsActive, flow.LastUpdatedAt, flow.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update flow %s: %w", flow.FlowID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: flow %s", apperrors.ErrNotFound, flow.FlowID)
	}

	return r.Commit(ctx, tx)
}

// unsetDefaultFlow clears the default flag from any flow of the given
// company+document type.
func unsetDefaultFlow(ctx context.Context, tx pgx.Tx, companyID string, docType domain.DocumentType, updatedBy string, now time.Time) error {
	query := `
		UPDATE approval_flows
		SET is_default = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND document_type = $2 AND is_default = TRUE;
	`
	if _, err := tx.Exec(ctx, query, companyID, string(docType), now, updatedBy); err != nil {
		return fmt.Errorf("failed to unset prior default flow: %w", err)
	}
	return nil
}

// ReplaceGraph atomically replaces the full node/edge set of a flow:
// delete-then-insert in one transaction.
func (r *PgxFlowRepository) ReplaceGraph(ctx context.Context, flowID string, nodes []domain.FlowNode, edges []domain.FlowEdge, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Edges first to satisfy FK references onto nodes.
	if _, err := tx.Exec(ctx, `DELETE FROM approval_flow_edges WHERE flow_id = $1;`, flowID); err != nil {
		return fmt.Errorf("failed to delete edges of flow %s: %w", flowID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM approval_flow_nodes WHERE flow_id = $1;`, flowID); err != nil {
		return fmt.Errorf("failed to delete nodes of flow %s: %w", flowID, err)
	}

	if err := insertGraph(ctx, tx, flowID, nodes, edges); err != nil {
		return err
	}

	now := time.Now()
	if _, err := tx.Exec(ctx,
		`UPDATE approval_flows SET last_updated_at = $2, last_updated_by = $3 WHERE flow_id = $1;`,
		flowID, now, updatedBy,
	); err != nil {
		return fmt.Errorf("failed to touch flow %s: %w", flowID, err)
	}

	return r.Commit(ctx, tx)
}

func insertGraph(ctx context.Context, tx pgx.Tx, flowID string, nodes []domain.FlowNode, edges []domain.FlowEdge) error {
	batch := &pgx.Batch{}

	nodeQuery := `
		INSERT INTO approval_flow_nodes (node_id, flow_id, node_type, name, member_id, org_level, max_amount, condition_field, condition_operator, condition_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, n := range nodes {
		var condField, condOp *string
		if n.ConditionField != "" {
			f := n.ConditionField
			condField = &f
		}
		if n.ConditionOperator != "" {
			op := string(n.ConditionOperator)
			condOp = &op
		}
		batch.Queue(nodeQuery,
			n.NodeID, flowID, string(n.Type), n.Name,
			n.MemberID, n.OrgLevel, n.MaxAmount,
			condField, condOp, n.ConditionThreshold,
		)
	}

	edgeQuery := `
		INSERT INTO approval_flow_edges (edge_id, flow_id, from_node_id, to_node_id, branch, ordinal)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, e := range edges {
		batch.Queue(edgeQuery, e.EdgeID, flowID, e.FromNodeID, e.ToNodeID, e.Branch, e.Ordinal)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert graph of flow %s: %w", flowID, err)
	}
	return nil
}

// DeactivateFlow soft-deletes a flow.
func (r *PgxFlowRepository) DeactivateFlow(ctx context.Context, flowID string, updatedBy string) error {
	query := `
		UPDATE approval_flows
		SET is_active = FALSE, is_default = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE flow_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, flowID, time.Now(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate flow %s: %w", flowID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: flow %s", apperrors.ErrNotFound, flowID)
	}
	return nil
}

// FindFlowByID retrieves a flow by its ID.
func (r *PgxFlowRepository) FindFlowByID(ctx context.Context, flowID string) (*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM approval_flows WHERE flow_id = $1;`
	m, err := scanFlowRow(r.Pool.QueryRow(ctx, query, flowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: flow %s", apperrors.ErrNotFound, flowID)
		}
		return nil, fmt.Errorf("failed to find flow %s: %w", flowID, err)
	}
	f := toDomainFlow(*m)
	return &f, nil
}

// FindDefaultFlow retrieves the active default flow for a company and
// document type.
func (r *PgxFlowRepository) FindDefaultFlow(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.Flow, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM approval_flows
		WHERE company_id = $1 AND document_type = $2 AND is_default = TRUE AND is_active = TRUE;
	`
	m, err := scanFlowRow(r.Pool.QueryRow(ctx, query, companyID, string(docType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no default flow for company %s type %s", apperrors.ErrNotFound, companyID, docType)
		}
		return nil, fmt.Errorf("failed to find default flow: %w", err)
	}
	f := toDomainFlow(*m)
	return &f, nil
}

// ListFlowsByCompany retrieves all active flows of a company.
func (r *PgxFlowRepository) ListFlowsByCompany(ctx context.Context, companyID string) ([]domain.Flow, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM approval_flows
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY document_type, name;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var flows []domain.Flow
	for rows.Next() {
		m, err := scanFlowRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flow row: %w", err)
		}
		flows = append(flows, toDomainFlow(*m))
	}
	return flows, rows.Err()
}

// FindNodesByFlowID retrieves all nodes of a flow.
func (r *PgxFlowRepository) FindNodesByFlowID(ctx context.Context, flowID string) ([]domain.FlowNode, error) {
	query := `
		SELECT node_id, flow_id, node_type, name, member_id, org_level, max_amount, condition_field, condition_operator, condition_threshold
		FROM approval_flow_nodes
		WHERE flow_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes of flow %s: %w", flowID, err)
	}
	defer rows.Close()

	var nodes []domain.FlowNode
	for rows.Next() {
		var m models.FlowNode
		if err := rows.Scan(
			&m.NodeID, &m.FlowID, &m.Type, &m.Name,
			&m.MemberID, &m.OrgLevel, &m.MaxAmount,
			&m.ConditionField, &m.ConditionOperator, &m.ConditionThreshold,
		); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		nodes = append(nodes, toDomainFlowNode(m))
	}
	return nodes, rows.Err()
}

// FindEdgesByFlowID retrieves all edges of a flow ordered by ordinal, so
// "first outgoing edge" picks are reproducible.
func (r *PgxFlowRepository) FindEdgesByFlowID(ctx context.Context, flowID string) ([]domain.FlowEdge, error) {
	query := `
		SELECT edge_id, flow_id, from_node_id, to_node_id, branch, ordinal
		FROM approval_flow_edges
		WHERE flow_id = $1
		ORDER BY ordinal;
	`
	rows, err := r.Pool.Query(ctx, query, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edges of flow %s: %w", flowID, err)
	}
	defer rows.Close()

	var edges []domain.FlowEdge
	for rows.Next() {
		var m models.FlowEdge
		if err := rows.Scan(&m.EdgeID, &m.FlowID, &m.FromNodeID, &m.ToNodeID, &m.Branch, &m.Ordinal); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		edges = append(edges, domain.FlowEdge{
			EdgeID:     m.EdgeID,
			FlowID:     m.FlowID,
			FromNodeID: m.FromNodeID,
			ToNodeID:   m.ToNodeID,
			Branch:     m.Branch,
			Ordinal:    m.Ordinal,
		})
	}
	return edges, rows.Err()
}
