package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

func actionPtr(a domain.ApprovalAction) *domain.ApprovalAction {
	return &a
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestNextDocumentStatus(t *testing.T) {
	tests := []struct {
		name        string
		action      domain.ApprovalAction
		allApproved bool
		want        domain.DocumentStatus
	}{
		{
			name:        "reject short-circuits regardless of other steps",
			action:      domain.ActionReject,
			allApproved: false,
			want:        domain.DocStatusRejected,
		},
		{
			name:        "revision short-circuits regardless of other steps",
			action:      domain.ActionRevision,
			allApproved: false,
			want:        domain.DocStatusRevision,
		},
		{
			name:        "approve with remaining steps keeps document pending",
			action:      domain.ActionApprove,
			allApproved: false,
			want:        domain.DocStatusPendingApproval,
		},
		{
			name:        "final approve completes the document",
			action:      domain.ActionApprove,
			allApproved: true,
			want:        domain.DocStatusApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.NextDocumentStatus(tt.action, tt.allApproved)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllApproved(t *testing.T) {
	approve := actionPtr(domain.ActionApprove)
	reject := actionPtr(domain.ActionReject)

	tests := []struct {
		name      string
		approvals []domain.Approval
		want      bool
	}{
		{
			name:      "empty chain is never complete",
			approvals: nil,
			want:      false,
		},
		{
			name: "unacted step blocks completion",
			approvals: []domain.Approval{
				{Step: 1, Action: approve},
				{Step: 2, Action: nil},
			},
			want: false,
		},
		{
			name: "rejection blocks completion",
			approvals: []domain.Approval{
				{Step: 1, Action: approve},
				{Step: 2, Action: reject},
			},
			want: false,
		},
		{
			name: "completeness ignores step order",
			approvals: []domain.Approval{
				{Step: 2, Action: approve},
				{Step: 1, Action: approve},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AllApproved(tt.approvals))
		})
	}
}

func TestFlowNode_EvaluateCondition(t *testing.T) {
	threshold := decimal.RequireFromString("50000")
	node := func(op domain.ConditionOperator) domain.FlowNode {
		return domain.FlowNode{
			Type:               domain.NodeCondition,
			ConditionField:     domain.ConditionFieldTotalAmount,
			ConditionOperator:  op,
			ConditionThreshold: &threshold,
		}
	}
	amount := func(s string) *decimal.Decimal {
		return decimalPtr(decimal.RequireFromString(s))
	}

	assert.True(t, node(domain.OpGreaterThan).EvaluateCondition(amount("50001")))
	assert.False(t, node(domain.OpGreaterThan).EvaluateCondition(amount("50000")))
	assert.True(t, node(domain.OpGreaterOrEqual).EvaluateCondition(amount("50000")))
	assert.True(t, node(domain.OpLessThan).EvaluateCondition(amount("49999")))
	assert.False(t, node(domain.OpLessThan).EvaluateCondition(amount("50000")))
	assert.True(t, node(domain.OpLessOrEqual).EvaluateCondition(amount("50000")))
	assert.True(t, node(domain.OpEqual).EvaluateCondition(amount("50000")))
	assert.False(t, node(domain.OpEqual).EvaluateCondition(amount("1")))

	// Nil amounts and unsupported fields evaluate to true.
	assert.True(t, node(domain.OpGreaterThan).EvaluateCondition(nil))
	other := node(domain.OpGreaterThan)
	other.ConditionField = "department"
	assert.True(t, other.EvaluateCondition(amount("1")))
}

func TestApprovalTier_Contains(t *testing.T) {
	max := decimal.RequireFromString("4999")
	tier := domain.ApprovalTier{
		MinAmount: decimal.Zero,
		MaxAmount: &max,
	}

	assert.True(t, tier.Contains(decimal.Zero))
	assert.True(t, tier.Contains(decimal.RequireFromString("4999")))
	assert.False(t, tier.Contains(decimal.RequireFromString("5000")))
	assert.False(t, tier.Contains(decimal.RequireFromString("-1")))

	unbounded := domain.ApprovalTier{MinAmount: decimal.RequireFromString("50000")}
	assert.True(t, unbounded.Contains(decimal.RequireFromString("123456789")))
	assert.False(t, unbounded.Contains(decimal.RequireFromString("49999")))
}

func TestApprovalTier_Overlaps(t *testing.T) {
	rng := func(min string, max *string) domain.ApprovalTier {
		tier := domain.ApprovalTier{MinAmount: decimal.RequireFromString(min)}
		if max != nil {
			d := decimal.RequireFromString(*max)
			tier.MaxAmount = &d
		}
		return tier
	}
	str := func(s string) *string { return &s }

	assert.False(t, rng("0", str("4999")).Overlaps(rng("5000", str("49999"))))
	assert.True(t, rng("0", str("5000")).Overlaps(rng("5000", str("49999"))))
	assert.True(t, rng("0", nil).Overlaps(rng("99999", nil)))
	assert.True(t, rng("1000", str("2000")).Overlaps(rng("0", nil)))
	assert.False(t, rng("50000", nil).Overlaps(rng("0", str("49999"))))
}

func TestMember_CanApprove(t *testing.T) {
	capped := domain.Member{MaxApprovalAmount: decimalPtr(decimal.RequireFromString("20000"))}
	uncapped := domain.Member{}

	assert.True(t, capped.CanApprove(decimal.RequireFromString("20000")))
	assert.False(t, capped.CanApprove(decimal.RequireFromString("20001")))
	assert.True(t, uncapped.CanApprove(decimal.RequireFromString("999999999")))
}

func TestMember_EffectiveOrgLevel(t *testing.T) {
	level := 4
	assert.Equal(t, 4, domain.Member{OrgLevel: &level}.EffectiveOrgLevel())
	assert.Equal(t, 1, domain.Member{}.EffectiveOrgLevel())
}
