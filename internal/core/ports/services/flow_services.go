package services

import (
	"context"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	"github.com/Ieproduct/nokplus-sub000/internal/dto"
)

// FlowReaderSvc defines read operations for approval flows.
type FlowReaderSvc interface {
	// GetFlowByID retrieves a flow with its full graph.
	GetFlowByID(ctx context.Context, companyID, flowID string, requestingUserID string) (*domain.Flow, []domain.FlowNode, []domain.FlowEdge, error)

	// ListFlows retrieves all active flows of a company.
	ListFlows(ctx context.Context, companyID string, requestingUserID string) ([]domain.Flow, error)
}

// FlowWriterSvc defines write operations for approval flows.
type FlowWriterSvc interface {
	// CreateFlow creates a flow with a skeleton start→end graph.
	CreateFlow(ctx context.Context, companyID string, req dto.CreateFlowRequest, userID string) (*domain.Flow, error)

	// UpdateFlow updates flow metadata.
	UpdateFlow(ctx context.Context, companyID, flowID string, req dto.UpdateFlowRequest, userID string) (*domain.Flow, error)

	// ReplaceFlowGraph atomically replaces the flow's node/edge set after
	// validating it (exactly one start node, at least one end node).
	ReplaceFlowGraph(ctx context.Context, companyID, flowID string, req dto.ReplaceFlowGraphRequest, userID string) error

	// DeleteFlow soft-deletes a flow.
	DeleteFlow(ctx context.Context, companyID, flowID string, userID string) error
}

// FlowSvcFacade combines all flow-related service interfaces.
type FlowSvcFacade interface {
	FlowReaderSvc
	FlowWriterSvc
}
