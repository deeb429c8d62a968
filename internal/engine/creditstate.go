package engine

import "github.com/cardwise/cardwise-api/internal/domain"

// stageRank orders stages for tighten-only comparisons.
var stageRank = map[domain.Stage]int{
	domain.StageStarter:           0,
	domain.StageBuilder:           1,
	domain.StageOptimizer:         2,
	domain.StageAdvancedOptimizer: 3,
}

// DeriveCreditState maps a self-reported profile to a credit state. It is
// a pure, total function: the same profile always yields the same state,
// unrecognized values fall through to the baseline defaults, and partial
// onboarding data never causes an error.
//
// Rules run in a fixed order and only tighten the state; later rules
// assume earlier ones already narrowed it:
//
//	defaults -> age -> carry balance -> BNPL -> experience -> income -> intent
//
// Flags accumulate; no rule removes a flag added by an earlier one.
func DeriveCreditState(p domain.CreditProfile) domain.CreditState {
	state := domain.CreditState{
		Stage:     domain.StageBuilder,
		MaxTier:   2,
		Education: domain.EducationStandard,
		Risk:      domain.RiskMedium,
		Flags:     []string{},
	}

	applyAgeRules(&state, p)
	applyBalanceRules(&state, p)
	applyBNPLRules(&state, p)
	applyExperienceRules(&state, p)
	applyIncomeRules(&state, p)
	applyIntentRules(&state, p)

	return state
}

// applyAgeRules runs first and establishes the floor the rest of the
// derivation works from.
func applyAgeRules(s *domain.CreditState, p domain.CreditProfile) {
	switch p.AgeBucket {
	case domain.AgeUnder18:
		s.Stage = domain.StageStarter
		s.MaxTier = 1
		s.Flags = append(s.Flags, domain.FlagAgeRestriction)
	case domain.Age18To20:
		s.Stage = domain.StageStarter
		s.MaxTier = 1
		s.Flags = append(s.Flags, domain.FlagLimitedHistory)
	}
}

// applyBalanceRules caps the state for balance carriers. No later rule may
// override this constraint.
func applyBalanceRules(s *domain.CreditState, p domain.CreditProfile) {
	if !p.CarryBalance {
		return
	}
	if stageRank[s.Stage] > stageRank[domain.StageBuilder] {
		s.Stage = domain.StageBuilder
	}
	if s.MaxTier > 2 {
		s.MaxTier = 2
	}
	s.Risk = domain.RiskLow
	s.Flags = append(s.Flags, domain.FlagBalanceCarrier, domain.FlagSuppressRewards)
}

func applyBNPLRules(s *domain.CreditState, p domain.CreditProfile) {
	switch p.BNPLUsage {
	case domain.BNPLOften:
		s.Risk = domain.RiskLow
		s.Flags = append(s.Flags, domain.FlagHighBNPL, domain.FlagSuppressPremium)
	case domain.BNPLSometimes:
		s.Flags = append(s.Flags, domain.FlagModerateBNPL)
	}
}

// applyExperienceRules may promote advanced users, but only when neither
// the balance-carrier cap nor heavy BNPL usage applies and the age rules
// did not force starter.
func applyExperienceRules(s *domain.CreditState, p domain.CreditProfile) {
	switch p.ExperienceLevel {
	case domain.ExperienceBeginner:
		s.Education = domain.EducationStrict
		if stageRank[s.Stage] > stageRank[domain.StageBuilder] {
			s.Stage = domain.StageBuilder
		}
	case domain.ExperienceAdvanced:
		s.Education = domain.EducationLight
		if !p.CarryBalance && p.BNPLUsage != domain.BNPLOften && s.Stage != domain.StageStarter {
			s.Stage = domain.StageOptimizer
			s.MaxTier = 4
		}
	}
}

func applyIncomeRules(s *domain.CreditState, p domain.CreditProfile) {
	if p.IncomeBucket == domain.IncomeUnder25K || p.IncomeBucket == domain.Income25To50K {
		if s.MaxTier > 2 {
			s.MaxTier = 2
		}
		s.Flags = append(s.Flags, domain.FlagSuppressHighFee)
	}
}

// applyIntentRules is informational only: score_focused carries no numeric
// effect and is reserved for future gating.
func applyIntentRules(s *domain.CreditState, p domain.CreditProfile) {
	if p.Intent == domain.IntentScore {
		s.Flags = append(s.Flags, domain.FlagScoreFocused)
	}
}
