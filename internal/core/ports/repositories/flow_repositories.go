package repositories

import (
	"context"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// FlowReader defines read operations for flow definitions and their graphs.
type FlowReader interface {
	// FindFlowByID retrieves a specific flow by its unique identifier.
	FindFlowByID(ctx context.Context, flowID string) (*domain.Flow, error)

	// FindDefaultFlow retrieves the default flow for a company and document type.
	FindDefaultFlow(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.Flow, error)

	// ListFlowsByCompany retrieves all active flows owned by a company.
	ListFlowsByCompany(ctx context.Context, companyID string) ([]domain.Flow, error)

	// FindNodesByFlowID retrieves all nodes of a flow.
	FindNodesByFlowID(ctx context.Context, flowID string) ([]domain.FlowNode, error)

	// FindEdgesByFlowID retrieves all edges of a flow ordered by ordinal.
	FindEdgesByFlowID(ctx context.Context, flowID string) ([]domain.FlowEdge, error)
}

// FlowWriter defines write operations for flow definitions.
type FlowWriter interface {
	// SaveFlow persists a new flow together with its initial node/edge set.
	// When the flow is marked default, any prior default for the same
	// company+document type is unset within the same transaction.
	SaveFlow(ctx context.Context, flow domain.Flow, nodes []domain.FlowNode, edges []domain.FlowEdge) error

	// UpdateFlow updates a flow's metadata (name, flags, active state).
	// Default-flag handling matches SaveFlow.
	UpdateFlow(ctx context.Context, flow domain.Flow) error

	// ReplaceGraph atomically replaces the full node/edge set of a flow
	// (delete-then-insert in one transaction).
	ReplaceGraph(ctx context.Context, flowID string, nodes []domain.FlowNode, edges []domain.FlowEdge, updatedBy string) error

	// DeactivateFlow soft-deletes a flow.
	DeactivateFlow(ctx context.Context, flowID string, updatedBy string) error
}

// FlowRepositoryFacade combines all flow-related repository interfaces.
type FlowRepositoryFacade interface {
	FlowReader
	FlowWriter
}

// FlowRepositoryWithTx extends FlowRepositoryFacade with transaction capabilities.
type FlowRepositoryWithTx interface {
	FlowRepositoryFacade
	TransactionManager
}
