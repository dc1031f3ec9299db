package models

import "github.com/shopspring/decimal"

// Flow represents a row in the approval_flows table.
type Flow struct {
	FlowID       string `db:"flow_id"`
	CompanyID    string `db:"company_id"`
	DocumentType string `db:"document_type"`
	Name         string `db:"name"`
	IsDefault    bool   `db:"is_default"`
	AutoEscalate bool   `db:"auto_escalate"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// FlowNode represents a row in the approval_flow_nodes table. Payload
// columns are nullable and populated per node type.
type FlowNode struct {
	NodeID string `db:"node_id"`
	FlowID string `db:"flow_id"`
	Type   string `db:"node_type"`
	Name   string `db:"name"`

	MemberID  *string          `db:"member_id"`
	OrgLevel  *int             `db:"org_level"`
	MaxAmount *decimal.Decimal `db:"max_amount"`

	ConditionField     *string          `db:"condition_field"`
	ConditionOperator  *string          `db:"condition_operator"`
	ConditionThreshold *decimal.Decimal `db:"condition_threshold"`
}

// FlowEdge represents a row in the approval_flow_edges table.
type FlowEdge struct {
	EdgeID     string `db:"edge_id"`
	FlowID     string `db:"flow_id"`
	FromNodeID string `db:"from_node_id"`
	ToNodeID   string `db:"to_node_id"`
	Branch     *bool  `db:"branch"`
	Ordinal    int    `db:"ordinal"`
}
