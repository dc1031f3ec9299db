package domain

import "github.com/shopspring/decimal"

// FlowNodeType is the closed set of node kinds an approval flow graph may contain.
// The chain resolver switches exhaustively over this type.
type FlowNodeType string

const (
	NodeStart     FlowNodeType = "start"
	NodeApprover  FlowNodeType = "approver"
	NodeCondition FlowNodeType = "condition"
	NodeEnd       FlowNodeType = "end"
)

// ConditionOperator is a comparison applied by condition nodes.
type ConditionOperator string

const (
	OpGreaterThan    ConditionOperator = "gt"
	OpGreaterOrEqual ConditionOperator = "gte"
	OpLessThan       ConditionOperator = "lt"
	OpLessOrEqual    ConditionOperator = "lte"
	OpEqual          ConditionOperator = "eq"
)

// ConditionFieldTotalAmount is the only condition field the resolver evaluates.
// Conditions on any other field are vacuously true.
const ConditionFieldTotalAmount = "total_amount"

// Flow is a named approval process for one document type within one company.
// At most one flow per company+document type carries IsDefault; AutoEscalate
// selects hierarchy escalation instead of graph traversal when the flow is used.
type Flow struct {
	FlowID       string       `json:"flowID"`
	CompanyID    string       `json:"companyID"`
	DocumentType DocumentType `json:"documentType"`
	Name         string       `json:"name"`
	IsDefault    bool         `json:"isDefault"`
	AutoEscalate bool         `json:"autoEscalate"`
	IsActive     bool         `json:"isActive"`
	AuditFields
}

// FlowNode is one node of a flow graph. The payload fields are populated
// according to Type: approver nodes carry either a direct MemberID or an
// OrgLevel requirement (MaxAmount is a display hint only); condition nodes
// carry ConditionField/ConditionOperator/ConditionThreshold.
type FlowNode struct {
	NodeID string       `json:"nodeID"`
	FlowID string       `json:"flowID"`
	Type   FlowNodeType `json:"type"`
	Name   string       `json:"name"`

	// approver payload
	MemberID  *string          `json:"memberID,omitempty"`
	OrgLevel  *int             `json:"orgLevel,omitempty"`
	MaxAmount *decimal.Decimal `json:"maxAmount,omitempty"`

	// condition payload
	ConditionField     string             `json:"conditionField,omitempty"`
	ConditionOperator  ConditionOperator  `json:"conditionOperator,omitempty"`
	ConditionThreshold *decimal.Decimal   `json:"conditionThreshold,omitempty"`
}

// FlowEdge is a directed edge between two nodes of the same flow. Branch
// labels the condition outcome the edge corresponds to when the source is a
// condition node. Ordinal is the explicit creation order; every "first edge"
// pick in the resolver is lowest-ordinal, never accidental array order.
type FlowEdge struct {
	EdgeID     string `json:"edgeID"`
	FlowID     string `json:"flowID"`
	FromNodeID string `json:"fromNodeID"`
	ToNodeID   string `json:"toNodeID"`
	Branch     *bool  `json:"branch,omitempty"`
	Ordinal    int    `json:"ordinal"`
}

// EvaluateCondition applies the node's condition to the given total amount.
// A nil amount or a condition on an unsupported field evaluates to true.
func (n FlowNode) EvaluateCondition(totalAmount *decimal.Decimal) bool {
	if n.ConditionField != ConditionFieldTotalAmount || n.ConditionThreshold == nil || totalAmount == nil {
		return true
	}
	cmp := totalAmount.Cmp(*n.ConditionThreshold)
	switch n.ConditionOperator {
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpEqual:
		return cmp == 0
	}
	return true
}
