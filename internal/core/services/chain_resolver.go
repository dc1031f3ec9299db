package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/apperrors"
	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
)

// RoutingContext carries the document fields the resolvers route on.
type RoutingContext struct {
	TotalAmount *decimal.Decimal
	Department  string
}

// chainResolver walks a flow graph and resolves its approver nodes into a
// concrete ordered chain.
type chainResolver struct {
	BaseService
	flowRepo   portsrepo.FlowReader
	memberRepo portsrepo.MemberReader
}

func newChainResolver(flowRepo portsrepo.FlowReader, memberRepo portsrepo.MemberReader) *chainResolver {
	return &chainResolver{flowRepo: flowRepo, memberRepo: memberRepo}
}

// ResolveChain traverses the flow graph from its start node, evaluating
// condition nodes against the routing context and resolving approver nodes to
// member identities. A missing start node yields an empty chain, never an
// error; an approver node with no resolvable identity contributes no step.
// A visited set bounds the walk on malformed graphs: the traversal halts the
// moment it would revisit a node.
func (r *chainResolver) ResolveChain(ctx context.Context, flowID string, companyID string, rc RoutingContext) ([]domain.ChainStep, error) {
	nodes, err := r.flowRepo.FindNodesByFlowID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes of flow %s: %w", flowID, err)
	}
	edges, err := r.flowRepo.FindEdgesByFlowID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges of flow %s: %w", flowID, err)
	}

	nodeByID := make(map[string]domain.FlowNode, len(nodes))
	var start *domain.FlowNode
	for i := range nodes {
		nodeByID[nodes[i].NodeID] = nodes[i]
		if nodes[i].Type == domain.NodeStart && start == nil {
			start = &nodes[i]
		}
	}
	if start == nil {
		r.LogDebug(ctx, "flow has no start node, resolving empty chain", slog.String("flow_id", flowID))
		return nil, nil
	}

	// Outgoing edges grouped by source node; repository order (ordinal
	// ascending) decides every "first edge" pick.
	outgoing := make(map[string][]domain.FlowEdge, len(nodes))
	for _, e := range edges {
		outgoing[e.FromNodeID] = append(outgoing[e.FromNodeID], e)
	}

	var chain []domain.ChainStep
	visited := make(map[string]struct{}, len(nodes))
	current := *start

	for {
		if _, seen := visited[current.NodeID]; seen {
			break
		}
		visited[current.NodeID] = struct{}{}

		var nextID string
		switch current.Type {
		case domain.NodeEnd:
			return chain, nil

		case domain.NodeStart:
			nextID = firstEdgeTarget(outgoing[current.NodeID])

		case domain.NodeApprover:
			step, err := r.resolveApprover(ctx, current, companyID)
			if err != nil {
				return nil, err
			}
			if step != nil {
				step.Step = len(chain) + 1
				chain = append(chain, *step)
			}
			nextID = firstEdgeTarget(outgoing[current.NodeID])

		case domain.NodeCondition:
			outcome := current.EvaluateCondition(rc.TotalAmount)
			nextID = branchEdgeTarget(outgoing[current.NodeID], outcome)
		}

		next, ok := nodeByID[nextID]
		if !ok {
			break
		}
		current = next
	}
	return chain, nil
}

// resolveApprover maps an approver node to a concrete member. A direct member
// reference wins; otherwise the node's org level selects one active company
// member at exactly that level (lowest member id on ties). nil means the node
// contributes no step.
func (r *chainResolver) resolveApprover(ctx context.Context, node domain.FlowNode, companyID string) (*domain.ChainStep, error) {
	var member *domain.Member
	var err error
	switch {
	case node.MemberID != nil:
		member, err = r.memberRepo.FindMemberByID(ctx, *node.MemberID)
	case node.OrgLevel != nil:
		member, err = r.memberRepo.FindMemberAtLevel(ctx, companyID, *node.OrgLevel)
	default:
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.LogDebug(ctx, "approver node resolved no member, skipping",
				slog.String("node_id", node.NodeID), slog.String("node_name", node.Name))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve approver node %s: %w", node.NodeID, err)
	}
	if !member.IsActive || member.CompanyID != companyID {
		return nil, nil
	}

	label := node.Name
	if label == "" {
		label = member.Name
	}
	return &domain.ChainStep{ApproverID: member.MemberID, Label: label}, nil
}

// firstEdgeTarget returns the lowest-ordinal edge's target, or "" when the
// node has no outgoing edges.
func firstEdgeTarget(edges []domain.FlowEdge) string {
	if len(edges) == 0 {
		return ""
	}
	return edges[0].ToNodeID
}

// branchEdgeTarget picks the lowest-ordinal edge labeled with the condition
// outcome, falling back to the first outgoing edge when no label matches.
func branchEdgeTarget(edges []domain.FlowEdge, outcome bool) string {
	for _, e := range edges {
		if e.Branch != nil && *e.Branch == outcome {
			return e.ToNodeID
		}
	}
	return firstEdgeTarget(edges)
}
