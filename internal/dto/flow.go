package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// CreateFlowRequest defines the data needed to create a new approval flow.
// The flow is created with a skeleton start→end graph; the full graph is
// supplied later via ReplaceFlowGraphRequest.
type CreateFlowRequest struct {
	DocumentType domain.DocumentType `json:"documentType" binding:"required,oneof=pr po ap"`
	Name         string              `json:"name" binding:"required"`
	IsDefault    bool                `json:"isDefault"`
	AutoEscalate bool                `json:"autoEscalate"`
}

// UpdateFlowRequest defines the flow metadata fields allowed to change.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateFlowRequest struct {
	Name         *string `json:"name"`
	IsDefault    *bool   `json:"isDefault"`
	AutoEscalate *bool   `json:"autoEscalate"`
}

// FlowNodeRequest is one node of a submitted flow graph.
type FlowNodeRequest struct {
	NodeID string              `json:"nodeID" binding:"required"`
	Type   domain.FlowNodeType `json:"type" binding:"required,oneof=start approver condition end"`
	Name   string              `json:"name"`

	MemberID  *string          `json:"memberID"`
	OrgLevel  *int             `json:"orgLevel"`
	MaxAmount *decimal.Decimal `json:"maxAmount"`

	ConditionField     string                   `json:"conditionField"`
	ConditionOperator  domain.ConditionOperator `json:"conditionOperator"`
	ConditionThreshold *decimal.Decimal         `json:"conditionThreshold"`
}

// FlowEdgeRequest is one edge of a submitted flow graph. Edges are applied
// in slice order; the index becomes the edge ordinal.
type FlowEdgeRequest struct {
	FromNodeID string `json:"fromNodeID" binding:"required"`
	ToNodeID   string `json:"toNodeID" binding:"required"`
	Branch     *bool  `json:"branch"`
}

// ReplaceFlowGraphRequest carries the full replacement node/edge set for a flow.
type ReplaceFlowGraphRequest struct {
	Nodes []FlowNodeRequest `json:"nodes" binding:"required,min=2,dive"`
	Edges []FlowEdgeRequest `json:"edges" binding:"required,min=1,dive"`
}

// FlowResponse defines the data returned for a flow.
type FlowResponse struct {
	FlowID       string              `json:"flowID"`
	CompanyID    string              `json:"companyID"`
	DocumentType domain.DocumentType `json:"documentType"`
	Name         string              `json:"name"`
	IsDefault    bool                `json:"isDefault"`
	AutoEscalate bool                `json:"autoEscalate"`
	IsActive     bool                `json:"isActive"`
	CreatedAt    time.Time           `json:"createdAt"`
	CreatedBy    string              `json:"createdBy"`
}

// FlowGraphResponse returns a flow together with its full graph.
type FlowGraphResponse struct {
	Flow  FlowResponse      `json:"flow"`
	Nodes []domain.FlowNode `json:"nodes"`
	Edges []domain.FlowEdge `json:"edges"`
}

// ToFlowResponse converts a domain.Flow to FlowResponse.
func ToFlowResponse(f *domain.Flow) FlowResponse {
	return FlowResponse{
		FlowID:       f.FlowID,
		CompanyID:    f.CompanyID,
		DocumentType: f.DocumentType,
		Name:         f.Name,
		IsDefault:    f.IsDefault,
		AutoEscalate: f.AutoEscalate,
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
		CreatedBy:    f.CreatedBy,
	}
}

// ToListFlowResponse converts a slice of domain.Flow to FlowResponse DTOs.
func ToListFlowResponse(flows []domain.Flow) []FlowResponse {
	res := make([]FlowResponse, len(flows))
	for i := range flows {
		res[i] = ToFlowResponse(&flows[i])
	}
	return res
}
