package engine_test

import (
	"strings"
	"testing"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/engine"
)

func TestDetermineStage_Priority(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.PathwayProfile
		want    domain.PathwayStage
	}{
		{"under 18 wins over everything", domain.PathwayProfile{AgeBucket: domain.AgeUnder18, ExperienceLevel: domain.ExperienceAdvanced, CreditHistory: domain.HistoryEstablished}, domain.PathwayFirstCard},
		{"no history", domain.PathwayProfile{CreditHistory: domain.HistoryNone, ExperienceLevel: domain.ExperienceAdvanced}, domain.PathwayFirstCard},
		{"thin history", domain.PathwayProfile{CreditHistory: domain.HistoryThin, ExperienceLevel: domain.ExperienceAdvanced}, domain.PathwayEarlyBuilder},
		{"balance carrier ceiling beats advanced", domain.PathwayProfile{CreditHistory: domain.HistoryEstablished, CarryBalance: true, ExperienceLevel: domain.ExperienceAdvanced}, domain.PathwayEstablishedBuilder},
		{"beginner", domain.PathwayProfile{CreditHistory: domain.HistoryEstablished, ExperienceLevel: domain.ExperienceBeginner}, domain.PathwayEstablishedBuilder},
		{"intermediate", domain.PathwayProfile{CreditHistory: domain.HistoryEstablished, ExperienceLevel: domain.ExperienceIntermediate}, domain.PathwayOptimizer},
		{"advanced clean file", domain.PathwayProfile{CreditHistory: domain.HistoryEstablished, ExperienceLevel: domain.ExperienceAdvanced, BNPLUsage: domain.BNPLNever}, domain.PathwayAdvancedOptimizer},
		{"advanced with derogatories", domain.PathwayProfile{CreditHistory: domain.HistoryEstablished, ExperienceLevel: domain.ExperienceAdvanced, HasDerogatories: true}, domain.PathwayOptimizer},
		{"empty profile", domain.PathwayProfile{}, domain.PathwayOptimizer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.DetermineStage(tt.profile); got != tt.want {
				t.Errorf("DetermineStage() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGenerateCreditPathway_Under18BlocksEverything(t *testing.T) {
	pathway := engine.GenerateCreditPathway(domain.PathwayProfile{AgeBucket: domain.AgeUnder18})

	var found bool
	for _, b := range pathway.Blocked {
		if b.Name == "All credit cards" {
			found = true
			if !strings.Contains(b.Reason, "18") {
				t.Errorf("block reason must cite the age requirement, got %q", b.Reason)
			}
		}
	}
	if !found {
		t.Fatalf("expected an all-cards block, got %+v", pathway.Blocked)
	}
}

func TestGenerateCreditPathway_BalanceCarrierWithheld(t *testing.T) {
	pathway := engine.GenerateCreditPathway(domain.PathwayProfile{
		CreditHistory:   domain.HistoryEstablished,
		CarryBalance:    true,
		ExperienceLevel: domain.ExperienceAdvanced,
	})

	if len(pathway.RecommendedNext) != 0 {
		t.Errorf("balance carrier must get no recommendations, got %+v", pathway.RecommendedNext)
	}
	if pathway.Stage != domain.PathwayEstablishedBuilder {
		t.Errorf("stage = %s, want established_builder", pathway.Stage)
	}
	if len(pathway.Timeline) != 3 || !strings.Contains(pathway.Timeline[0].Focus, "Pay down") {
		t.Errorf("carry-balance timeline override missing: %+v", pathway.Timeline)
	}
	if len(pathway.BehaviorRules) == 0 || !strings.Contains(pathway.BehaviorRules[0], "balance") {
		t.Errorf("carry-balance behavior override missing: %+v", pathway.BehaviorRules)
	}

	var premiumBlocked bool
	for _, b := range pathway.Blocked {
		if strings.Contains(b.Name, "premium") {
			premiumBlocked = true
		}
	}
	if !premiumBlocked {
		t.Errorf("expected premium cards blocked for a balance carrier, got %+v", pathway.Blocked)
	}
}

func TestGenerateCreditPathway_AdvancedOptimizerScenario(t *testing.T) {
	pathway := engine.GenerateCreditPathway(domain.PathwayProfile{
		ExperienceLevel: domain.ExperienceAdvanced,
		CarryBalance:    false,
		BNPLUsage:       domain.BNPLNever,
		CreditHistory:   domain.HistoryEstablished,
	})

	if pathway.Stage != domain.PathwayAdvancedOptimizer {
		t.Fatalf("stage = %s, want advanced_optimizer", pathway.Stage)
	}
	if len(pathway.RecommendedNext) == 0 {
		t.Fatal("expected recommendations for a clean advanced profile")
	}
	if len(pathway.Blocked) != 0 {
		t.Errorf("clean profile should have no blocks, got %+v", pathway.Blocked)
	}
	if len(pathway.Timeline) != 3 {
		t.Errorf("timeline must have exactly 3 points, got %d", len(pathway.Timeline))
	}
}

func TestGenerateCreditPathway_EarlyBuilderBlend(t *testing.T) {
	pathway := engine.GenerateCreditPathway(domain.PathwayProfile{CreditHistory: domain.HistoryThin})

	if pathway.Stage != domain.PathwayEarlyBuilder {
		t.Fatalf("stage = %s, want early_builder", pathway.Stage)
	}
	if len(pathway.RecommendedNext) != 3 {
		t.Fatalf("expected blended list of 3, got %d", len(pathway.RecommendedNext))
	}
	// Tail of the starter list, then the head of the builder list.
	if pathway.RecommendedNext[0].Name != "Chase Freedom Rise" {
		t.Errorf("blend should lead with the last starter pick, got %s", pathway.RecommendedNext[0].Name)
	}
	if pathway.RecommendedNext[1].Name != "Discover it Cash Back" {
		t.Errorf("blend should continue with builder picks, got %s", pathway.RecommendedNext[1].Name)
	}
}

func TestGenerateCreditPathway_BlockedEntriesNotDeduplicated(t *testing.T) {
	// Overlapping trigger conditions each contribute their own entry.
	pathway := engine.GenerateCreditPathway(domain.PathwayProfile{
		AgeBucket:       domain.AgeUnder18,
		CarryBalance:    true,
		HasDerogatories: true,
		BNPLUsage:       domain.BNPLOften,
		CreditHistory:   domain.HistoryNone,
	})

	if len(pathway.Blocked) < 4 {
		t.Errorf("each condition must append its own block, got %d: %+v", len(pathway.Blocked), pathway.Blocked)
	}
}

func TestGenerateCreditPathway_ApprovalFactors(t *testing.T) {
	clean := engine.GenerateCreditPathway(domain.PathwayProfile{
		CreditHistory:   domain.HistoryEstablished,
		ExperienceLevel: domain.ExperienceIntermediate,
	})
	if len(clean.ApprovalFactors) != 1 || !strings.Contains(clean.ApprovalFactors[0], "No blocking factors") {
		t.Errorf("clean profile factors = %+v", clean.ApprovalFactors)
	}

	constrained := engine.GenerateCreditPathway(domain.PathwayProfile{
		CreditHistory: domain.HistoryNone,
		CarryBalance:  true,
	})
	if len(constrained.ApprovalFactors) < 2 {
		t.Errorf("expected multiple factors, got %+v", constrained.ApprovalFactors)
	}
}
