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

// escalationResolver builds an approval chain by climbing the organization
// hierarchy level by level instead of traversing a designed graph.
type escalationResolver struct {
	BaseService
	memberRepo portsrepo.MemberReader
}

func newEscalationResolver(memberRepo portsrepo.MemberReader) *escalationResolver {
	return &escalationResolver{memberRepo: memberRepo}
}

// ResolveEscalation climbs from the submitter's organizational level upward,
// appending one representative member per level (lowest member id on ties)
// until a member's approval cap covers the document total or has no cap.
// Exhausting the candidate list before reaching sufficient authority is
// accepted silently; the chain simply ends uncovered.
func (r *escalationResolver) ResolveEscalation(ctx context.Context, companyID string, submitterID string, totalAmount *decimal.Decimal) ([]domain.ChainStep, error) {
	submitterLevel := 1
	if submitterID != "" {
		submitter, err := r.memberRepo.FindMemberByID(ctx, submitterID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("failed to load submitter %s: %w", submitterID, err)
			}
			r.LogDebug(ctx, "escalation submitter not found, defaulting to level 1",
				slog.String("submitter_id", submitterID))
		} else {
			submitterLevel = submitter.EffectiveOrgLevel()
		}
	}

	candidates, err := r.memberRepo.ListMembersAboveLevel(ctx, companyID, submitterLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation candidates: %w", err)
	}

	var chain []domain.ChainStep
	lastLevel := submitterLevel
	for _, m := range candidates {
		level := m.EffectiveOrgLevel()
		if level <= lastLevel {
			// Sorted ascending; later members at an already-covered level
			// are non-representative duplicates.
			continue
		}
		lastLevel = level

		chain = append(chain, domain.ChainStep{
			Step:       len(chain) + 1,
			ApproverID: m.MemberID,
			Label:      fmt.Sprintf("Level %d: %s", level, m.Name),
		})
		if m.MaxApprovalAmount == nil || totalAmount == nil || m.CanApprove(*totalAmount) {
			break
		}
	}
	return chain, nil
}
