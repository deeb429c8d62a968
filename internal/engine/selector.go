package engine

import (
	"fmt"
	"sort"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// Recommend ranks the candidate cards for the resolved merchant and
// returns the winner with alternatives in sorted order. A nil result
// means insufficient input (no candidates), not a failure.
//
// Sort order: non-excluded before excluded, then descending effective
// multiplier, then ascending annual fee. The sort is stable so a full tie
// preserves the caller's original candidate order.
func Recommend(merchant domain.MerchantInfo, candidates []domain.Card, rules []domain.RewardRule, exclusions []domain.MerchantExclusion) *domain.Recommendation {
	if len(candidates) == 0 {
		return nil
	}

	analyses := make([]domain.CardAnalysis, 0, len(candidates))
	for _, card := range candidates {
		rate := EffectiveRate(card, rules, exclusions, merchant, merchant.Category)
		analyses = append(analyses, domain.CardAnalysis{
			Card:       card,
			Multiplier: rate.Multiplier,
			Excluded:   rate.Excluded,
			Reason:     rate.Reason,
		})
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		a, b := analyses[i], analyses[j]
		if a.Excluded != b.Excluded {
			return !a.Excluded
		}
		if a.Multiplier != b.Multiplier {
			return a.Multiplier > b.Multiplier
		}
		return a.Card.AnnualFeeCents < b.Card.AnnualFeeCents
	})

	winner := analyses[0]
	alternatives := analyses[1:]

	return &domain.Recommendation{
		Merchant:      merchant,
		Category:      merchant.Category,
		CategoryLabel: domain.CategoryLabel(merchant.Category),
		Card:          winner.Card,
		Multiplier:    winner.Multiplier,
		Excluded:      winner.Excluded,
		Reason:        buildReason(winner, alternatives, merchant),
		Confidence:    merchant.Confidence,
		Alternatives:  alternatives,
	}
}

// buildReason generates the human-readable explanation for the winner.
// The template band depends on the winning multiplier; when the winner
// sidesteps another card's exclusion at this merchant, the reason says so.
func buildReason(winner domain.CardAnalysis, alternatives []domain.CardAnalysis, merchant domain.MerchantInfo) string {
	label := domain.CategoryLabel(merchant.Category)

	if winner.Excluded {
		return fmt.Sprintf("%s still earns the most here, but %s is excluded from its bonus: %s",
			winner.Card.Name, merchant.Name, winner.Reason)
	}

	var reason string
	switch {
	case winner.Multiplier >= 3:
		reason = fmt.Sprintf("%s earns an outstanding %sx on %s at %s",
			winner.Card.Name, formatMultiplier(winner.Multiplier), label, merchant.Name)
	case winner.Multiplier >= 1.5:
		reason = fmt.Sprintf("%s earns a solid %sx on %s at %s",
			winner.Card.Name, formatMultiplier(winner.Multiplier), label, merchant.Name)
	default:
		reason = fmt.Sprintf("%s is your best option at %s with %sx back",
			winner.Card.Name, merchant.Name, formatMultiplier(winner.Multiplier))
	}

	for _, alt := range alternatives {
		if alt.Excluded {
			reason += fmt.Sprintf(", avoiding %s's exclusion at %s", alt.Card.Name, merchant.Name)
			break
		}
	}
	return reason
}

// formatMultiplier renders 4.0 as "4" and 1.5 as "1.5".
func formatMultiplier(m float64) string {
	if m == float64(int64(m)) {
		return fmt.Sprintf("%d", int64(m))
	}
	return fmt.Sprintf("%g", m)
}
