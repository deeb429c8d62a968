package engine

import (
	"fmt"
	"strings"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// categoryFallbacks maps categories without their own bonus to the parent
// category whose rule applies instead.
var categoryFallbacks = map[string]string{
	domain.CategoryFlights:   domain.CategoryTravel,
	domain.CategoryHotels:    domain.CategoryTravel,
	domain.CategoryTransit:   domain.CategoryTravel,
	domain.CategoryStreaming: domain.CategoryGeneral,
	domain.CategoryOnline:    domain.CategoryGeneral,
}

// RateResult is the effective earn rate for one card at one merchant.
type RateResult struct {
	Multiplier float64
	Excluded   bool
	Reason     string
}

// EffectiveRate computes the multiplier for a card at the resolved
// merchant/category. Evaluation order, first applicable wins:
//
//  1. per-card merchant exclusion (collapse to general, reason verbatim)
//  2. grocery/warehouse exclusion (collapse to general, synthesized reason)
//  3. direct category match
//  4. category fallback (flights/hotels/transit -> travel; streaming/online -> general)
//  5. the card's general rule, or 1x if even that is absent
//
// Multipliers are never rounded; caps are informational only.
func EffectiveRate(card domain.Card, rules []domain.RewardRule, exclusions []domain.MerchantExclusion, merchant domain.MerchantInfo, category string) RateResult {
	// 1. Per-card merchant exclusion.
	for _, excl := range exclusions {
		if excl.CardID != card.ID {
			continue
		}
		if matchesPattern(merchant, excl.MerchantPattern) {
			return RateResult{
				Multiplier: generalRate(card.ID, rules),
				Excluded:   true,
				Reason:     excl.Reason,
			}
		}
	}

	// 2. Grocery/warehouse exclusion: the merchant is carved out of the
	// grocery category and the card's grocery rule names it explicitly.
	if merchant.ExcludedFromGrocery && category == domain.CategoryGroceries {
		if rule, ok := findRule(card.ID, domain.CategoryGroceries, rules); ok && ruleExcludesMerchant(rule, merchant) {
			return RateResult{
				Multiplier: generalRate(card.ID, rules),
				Excluded:   true,
				Reason:     fmt.Sprintf("%s does not count as a grocery store for %s", merchant.Name, card.Name),
			}
		}
	}

	// 3. Direct category match.
	if rule, ok := findRule(card.ID, category, rules); ok {
		return RateResult{Multiplier: rule.Multiplier}
	}

	// 4. Category fallback.
	if parent, ok := categoryFallbacks[category]; ok {
		if rule, ok := findRule(card.ID, parent, rules); ok {
			return RateResult{Multiplier: rule.Multiplier}
		}
	}

	// 5. Universal fallback. A missing general rule is a catalog gap,
	// never an error: the rate defaults to 1x.
	return RateResult{Multiplier: generalRate(card.ID, rules)}
}

// findRule returns the card's rule for the exact category slug.
func findRule(cardID, category string, rules []domain.RewardRule) (domain.RewardRule, bool) {
	for _, r := range rules {
		if r.CardID == cardID && r.Category == category {
			return r, true
		}
	}
	return domain.RewardRule{}, false
}

// generalRate returns the card's general multiplier, or 1 if absent.
func generalRate(cardID string, rules []domain.RewardRule) float64 {
	if rule, ok := findRule(cardID, domain.CategoryGeneral, rules); ok {
		return rule.Multiplier
	}
	return 1
}

// matchesPattern reports whether the merchant's name or domain matches the
// exclusion pattern, case-insensitive, substring in either direction.
func matchesPattern(merchant domain.MerchantInfo, pattern string) bool {
	p := strings.ToLower(strings.TrimSpace(pattern))
	name := strings.ToLower(merchant.Name)
	host := strings.ToLower(merchant.Domain)
	return containsEither(name, p) || containsEither(host, p)
}

// containsEither is substring containment in either direction, treating
// empty strings as non-matching.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ruleExcludesMerchant reports whether the rule's exclusion list names the
// merchant (case-insensitive, substring either direction).
func ruleExcludesMerchant(rule domain.RewardRule, merchant domain.MerchantInfo) bool {
	for _, excl := range rule.Exclusions {
		if matchesPattern(merchant, excl) {
			return true
		}
	}
	return false
}
