package engine_test

import (
	"strings"
	"testing"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/engine"
)

func TestRecommend_DiningScenario(t *testing.T) {
	merchant := domain.MerchantInfo{
		Domain:     "doordash.com",
		Name:       "DoorDash",
		Category:   domain.CategoryDining,
		Confidence: domain.ConfidenceHigh,
		Known:      true,
	}
	cardA := domain.Card{ID: "card-a", Name: "Card A", Active: true}
	cardB := domain.Card{ID: "card-b", Name: "Card B", Active: true}
	rules := []domain.RewardRule{
		{CardID: "card-a", Category: domain.CategoryDining, Multiplier: 4},
		{CardID: "card-b", Category: domain.CategoryGeneral, Multiplier: 2},
	}

	rec := engine.Recommend(merchant, []domain.Card{cardA, cardB}, rules, nil)
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Card.ID != "card-a" {
		t.Errorf("expected card-a to win, got %s", rec.Card.ID)
	}
	if rec.Multiplier != 4 {
		t.Errorf("expected multiplier 4, got %v", rec.Multiplier)
	}
	if rec.Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence must be inherited from the resolver, got %s", rec.Confidence)
	}
	if len(rec.Alternatives) != 1 || rec.Alternatives[0].Card.ID != "card-b" {
		t.Errorf("expected card-b as the single alternative, got %+v", rec.Alternatives)
	}
	if !strings.Contains(rec.Reason, "DoorDash") {
		t.Errorf("reason must name the merchant, got %q", rec.Reason)
	}
}

func TestRecommend_CostcoExclusionScenario(t *testing.T) {
	merchant := domain.MerchantInfo{
		Domain:              "costco.com",
		Name:                "Costco",
		Category:            domain.CategoryGroceries,
		Confidence:          domain.ConfidenceHigh,
		Known:               true,
		IsWarehouse:         true,
		ExcludedFromGrocery: true,
	}
	gold := domain.Card{ID: "amex-gold", Name: "American Express Gold", Active: true}
	rules := []domain.RewardRule{
		{CardID: "amex-gold", Category: domain.CategoryGroceries, Multiplier: 4, Exclusions: []string{"Costco"}},
		{CardID: "amex-gold", Category: domain.CategoryGeneral, Multiplier: 1},
	}

	rec := engine.Recommend(merchant, []domain.Card{gold}, rules, nil)
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if !rec.Excluded {
		t.Error("expected the winner to be marked excluded")
	}
	if rec.Multiplier != 1 {
		t.Errorf("expected effective multiplier 1, got %v", rec.Multiplier)
	}
	if !strings.Contains(rec.Reason, "Costco") {
		t.Errorf("reason must name Costco, got %q", rec.Reason)
	}
}

func TestRecommend_ExcludedCardRankedLast(t *testing.T) {
	merchant := domain.MerchantInfo{
		Domain:              "costco.com",
		Name:                "Costco",
		Category:            domain.CategoryGroceries,
		Confidence:          domain.ConfidenceHigh,
		ExcludedFromGrocery: true,
	}
	gold := domain.Card{ID: "amex-gold", Name: "American Express Gold", Active: true}
	flat := domain.Card{ID: "flat-2", Name: "Flat Two", Active: true}
	rules := []domain.RewardRule{
		{CardID: "amex-gold", Category: domain.CategoryGroceries, Multiplier: 4, Exclusions: []string{"Costco"}},
		{CardID: "amex-gold", Category: domain.CategoryGeneral, Multiplier: 1},
		{CardID: "flat-2", Category: domain.CategoryGeneral, Multiplier: 2},
	}

	rec := engine.Recommend(merchant, []domain.Card{gold, flat}, rules, nil)
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Card.ID != "flat-2" {
		t.Errorf("non-excluded card must win over the excluded 4x card, got %s", rec.Card.ID)
	}
	if !strings.Contains(rec.Reason, "avoiding") {
		t.Errorf("reason must mention the sidestepped exclusion, got %q", rec.Reason)
	}
	if len(rec.Alternatives) != 1 || !rec.Alternatives[0].Excluded {
		t.Errorf("excluded card must trail as a flagged alternative, got %+v", rec.Alternatives)
	}
}

func TestRecommend_AnnualFeeTieBreak(t *testing.T) {
	merchant := domain.MerchantInfo{Domain: "xkcd.com", Name: "Xkcd", Category: domain.CategoryGeneral, Confidence: domain.ConfidenceLow}
	pricey := domain.Card{ID: "pricey", Name: "Pricey", AnnualFeeCents: 9500, Active: true}
	free := domain.Card{ID: "free", Name: "Free", AnnualFeeCents: 0, Active: true}
	rules := []domain.RewardRule{
		{CardID: "pricey", Category: domain.CategoryGeneral, Multiplier: 2},
		{CardID: "free", Category: domain.CategoryGeneral, Multiplier: 2},
	}

	rec := engine.Recommend(merchant, []domain.Card{pricey, free}, rules, nil)
	if rec.Card.ID != "free" {
		t.Errorf("cheaper card must win equal-rate ties, got %s", rec.Card.ID)
	}
}

func TestRecommend_FullTieIsStable(t *testing.T) {
	merchant := domain.MerchantInfo{Domain: "xkcd.com", Name: "Xkcd", Category: domain.CategoryGeneral, Confidence: domain.ConfidenceLow}
	first := domain.Card{ID: "first", Name: "First", AnnualFeeCents: 0, Active: true}
	second := domain.Card{ID: "second", Name: "Second", AnnualFeeCents: 0, Active: true}
	rules := []domain.RewardRule{
		{CardID: "first", Category: domain.CategoryGeneral, Multiplier: 1.5},
		{CardID: "second", Category: domain.CategoryGeneral, Multiplier: 1.5},
	}

	rec := engine.Recommend(merchant, []domain.Card{first, second}, rules, nil)
	if rec.Card.ID != "first" {
		t.Errorf("full tie must preserve input order, got %s", rec.Card.ID)
	}
}

func TestRecommend_NoCandidates(t *testing.T) {
	merchant := domain.MerchantInfo{Domain: "amazon.com", Name: "Amazon", Category: domain.CategoryOnline}
	if rec := engine.Recommend(merchant, nil, nil, nil); rec != nil {
		t.Errorf("empty candidate set must yield nil, got %+v", rec)
	}
}
