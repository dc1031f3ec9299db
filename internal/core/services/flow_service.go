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

var (
	ErrGraphNoStartNode        = errors.New("flow graph must have exactly one start node")
	ErrGraphNoEndNode          = errors.New("flow graph must have at least one end node")
	ErrGraphDanglingEdge       = errors.New("flow graph edge references an unknown node")
	ErrGraphDuplicateNode      = errors.New("flow graph contains duplicate node identifiers")
	ErrGraphApproverUnresolved = errors.New("approver node must carry a member or an org level")
	ErrGraphConditionInvalid   = errors.New("condition node must carry an operator and threshold")
)

// flowService provides approval flow definition operations.
type flowService struct {
	BaseService
	flowRepo portsrepo.FlowRepositoryWithTx
}

// NewFlowService creates a new flow service.
func NewFlowService(flowRepo portsrepo.FlowRepositoryWithTx, authorizer portssvc.CompanyAuthorizerSvc) portssvc.FlowSvcFacade {
	return &flowService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		flowRepo:    flowRepo,
	}
}

var _ portssvc.FlowSvcFacade = (*flowService)(nil)

// CreateFlow creates a flow with a skeleton start→end graph. The graph is
// replaced later through ReplaceFlowGraph.
func (s *flowService) CreateFlow(ctx context.Context, companyID string, req dto.CreateFlowRequest, userID string) (*domain.Flow, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	flow := domain.Flow{
		FlowID:       uuid.New().String(),
		CompanyID:    companyID,
		DocumentType: req.DocumentType,
		Name:         req.Name,
		IsDefault:    req.IsDefault,
		AutoEscalate: req.AutoEscalate,
		IsActive:     true,
		AuditFields:  audit,
	}

	startNode := domain.FlowNode{
		NodeID: uuid.New().String(),
		FlowID: flow.FlowID,
		Type:   domain.NodeStart,
		Name:   "Start",
	}
	endNode := domain.FlowNode{
		NodeID: uuid.New().String(),
		FlowID: flow.FlowID,
		Type:   domain.NodeEnd,
		Name:   "End",
	}
	edge := domain.FlowEdge{
		EdgeID:     uuid.New().String(),
		FlowID:     flow.FlowID,
		FromNodeID: startNode.NodeID,
		ToNodeID:   endNode.NodeID,
		Ordinal:    0,
	}

	if err := s.flowRepo.SaveFlow(ctx, flow, []domain.FlowNode{startNode, endNode}, []domain.FlowEdge{edge}); err != nil {
		s.LogError(ctx, err, "failed to create flow", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to create flow: %w", err)
	}
	return &flow, nil
}

// UpdateFlow updates flow metadata. Setting the default flag unsets the
// previous default for the same company and document type.
func (s *flowService) UpdateFlow(ctx context.Context, companyID, flowID string, req dto.UpdateFlowRequest, userID string) (*domain.Flow, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	flow, err := s.findCompanyFlow(ctx, companyID, flowID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		flow.Name = *req.Name
	}
	if req.IsDefault != nil {
		flow.IsDefault = *req.IsDefault
	}
	if req.AutoEscalate != nil {
		flow.AutoEscalate = *req.AutoEscalate
	}
	flow.LastUpdatedAt = time.Now()
	flow.LastUpdatedBy = userID

	if err := s.flowRepo.UpdateFlow(ctx, *flow); err != nil {
		return nil, fmt.Errorf("failed to update flow %s: %w", flowID, err)
	}
	return flow, nil
}

// ReplaceFlowGraph atomically replaces the flow's node/edge set after
// validating it.
func (s *flowService) ReplaceFlowGraph(ctx context.Context, companyID, flowID string, req dto.ReplaceFlowGraphRequest, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	flow, err := s.findCompanyFlow(ctx, companyID, flowID)
	if err != nil {
		return err
	}

	nodes := make([]domain.FlowNode, len(req.Nodes))
	for i, n := range req.Nodes {
		nodes[i] = domain.FlowNode{
			NodeID:             n.NodeID,
			FlowID:             flow.FlowID,
			Type:               n.Type,
			Name:               n.Name,
			MemberID:           n.MemberID,
			OrgLevel:           n.OrgLevel,
			MaxAmount:          n.MaxAmount,
			ConditionField:     n.ConditionField,
			ConditionOperator:  n.ConditionOperator,
			ConditionThreshold: n.ConditionThreshold,
		}
	}
	edges := make([]domain.FlowEdge, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = domain.FlowEdge{
			EdgeID:     uuid.New().String(),
			FlowID:     flow.FlowID,
			FromNodeID: e.FromNodeID,
			ToNodeID:   e.ToNodeID,
			Branch:     e.Branch,
			Ordinal:    i,
		}
	}

	if err := validateFlowGraph(nodes, edges); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.flowRepo.ReplaceGraph(ctx, flow.FlowID, nodes, edges, userID); err != nil {
		s.LogError(ctx, err, "failed to replace flow graph", slog.String("flow_id", flowID))
		return fmt.Errorf("failed to replace flow graph: %w", err)
	}
	return nil
}

// DeleteFlow soft-deletes a flow.
func (s *flowService) DeleteFlow(ctx context.Context, companyID, flowID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.findCompanyFlow(ctx, companyID, flowID); err != nil {
		return err
	}
	if err := s.flowRepo.DeactivateFlow(ctx, flowID, userID); err != nil {
		return fmt.Errorf("failed to delete flow %s: %w", flowID, err)
	}
	return nil
}

// GetFlowByID retrieves a flow with its full graph.
func (s *flowService) GetFlowByID(ctx context.Context, companyID, flowID string, requestingUserID string) (*domain.Flow, []domain.FlowNode, []domain.FlowEdge, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, nil, nil, err
	}

	flow, err := s.findCompanyFlow(ctx, companyID, flowID)
	if err != nil {
		return nil, nil, nil, err
	}
	nodes, err := s.flowRepo.FindNodesByFlowID(ctx, flowID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load flow nodes: %w", err)
	}
	edges, err := s.flowRepo.FindEdgesByFlowID(ctx, flowID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load flow edges: %w", err)
	}
	return flow, nodes, edges, nil
}

// ListFlows retrieves all active flows of a company.
func (s *flowService) ListFlows(ctx context.Context, companyID string, requestingUserID string) ([]domain.Flow, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	flows, err := s.flowRepo.ListFlowsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	if flows == nil {
		return []domain.Flow{}, nil
	}
	return flows, nil
}

// findCompanyFlow loads a flow and verifies it belongs to the company.
func (s *flowService) findCompanyFlow(ctx context.Context, companyID, flowID string) (*domain.Flow, error) {
	flow, err := s.flowRepo.FindFlowByID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flow %s: %w", flowID, err)
	}
	if flow.CompanyID != companyID {
		return nil, fmt.Errorf("%w: flow %s", apperrors.ErrNotFound, flowID)
	}
	return flow, nil
}

// validateFlowGraph enforces the structural rules of a flow graph: unique
// node IDs, exactly one start node, at least one end node, every edge
// endpoint resolving to a submitted node, and per-type payload completeness.
func validateFlowGraph(nodes []domain.FlowNode, edges []domain.FlowEdge) error {
	nodeIDs := make(map[string]struct{}, len(nodes))
	startCount := 0
	endCount := 0
	for _, n := range nodes {
		if _, dup := nodeIDs[n.NodeID]; dup {
			return fmt.Errorf("%w: %s", ErrGraphDuplicateNode, n.NodeID)
		}
		nodeIDs[n.NodeID] = struct{}{}

		switch n.Type {
		case domain.NodeStart:
			startCount++
		case domain.NodeEnd:
			endCount++
		case domain.NodeApprover:
			if n.MemberID == nil && n.OrgLevel == nil {
				return fmt.Errorf("%w: node %s", ErrGraphApproverUnresolved, n.NodeID)
			}
		case domain.NodeCondition:
			if n.ConditionOperator == "" || n.ConditionThreshold == nil {
				return fmt.Errorf("%w: node %s", ErrGraphConditionInvalid, n.NodeID)
			}
		}
	}
	if startCount != 1 {
		return ErrGraphNoStartNode
	}
	if endCount < 1 {
		return ErrGraphNoEndNode
	}
	for _, e := range edges {
		if _, ok := nodeIDs[e.FromNodeID]; !ok {
			return fmt.Errorf("%w: %s", ErrGraphDanglingEdge, e.FromNodeID)
		}
		if _, ok := nodeIDs[e.ToNodeID]; !ok {
			return fmt.Errorf("%w: %s", ErrGraphDanglingEdge, e.ToNodeID)
		}
	}
	return nil
}
