package engine

import "github.com/cardwise/cardwise-api/internal/domain"

// DetermineStage assigns the approval-modeling stage. Conditions are
// evaluated in fixed priority; the first hit wins. A balance carrier can
// never reach optimizer or above regardless of experience.
func DetermineStage(p domain.PathwayProfile) domain.PathwayStage {
	switch {
	case p.AgeBucket == domain.AgeUnder18:
		return domain.PathwayFirstCard
	case p.CreditHistory == domain.HistoryNone:
		return domain.PathwayFirstCard
	case p.CreditHistory == domain.HistoryThin:
		return domain.PathwayEarlyBuilder
	case p.CarryBalance:
		return domain.PathwayEstablishedBuilder
	case p.ExperienceLevel == domain.ExperienceBeginner:
		return domain.PathwayEstablishedBuilder
	case p.ExperienceLevel == domain.ExperienceIntermediate:
		return domain.PathwayOptimizer
	case p.ExperienceLevel == domain.ExperienceAdvanced && !p.HasDerogatories:
		return domain.PathwayAdvancedOptimizer
	default:
		return domain.PathwayOptimizer
	}
}

// GenerateCreditPathway produces the gated next-card plan for a profile.
// Timeline and behavior rules read the already-resolved stage, except that
// carrying a balance overrides both regardless of stage.
func GenerateCreditPathway(p domain.PathwayProfile) domain.CreditPathway {
	stage := DetermineStage(p)

	return domain.CreditPathway{
		Stage:           stage,
		ApprovalFactors: approvalFactors(p),
		RecommendedNext: recommendedCards(stage, p),
		Blocked:         blockedCards(p),
		Timeline:        timeline(stage, p),
		BehaviorRules:   behaviorRules(stage, p),
	}
}

// approvalFactors lists the constraints lenders will weigh for this
// profile, in evaluation order.
func approvalFactors(p domain.PathwayProfile) []string {
	var factors []string
	switch p.CreditHistory {
	case domain.HistoryNone:
		factors = append(factors, "No credit history: lenders cannot score you yet")
	case domain.HistoryThin:
		factors = append(factors, "Thin credit file: under two years of history limits approvals")
	}
	if p.HasDerogatories {
		factors = append(factors, "Derogatory marks on file reduce approval odds across issuers")
	}
	if p.CarryBalance {
		factors = append(factors, "Carrying a balance: interest outweighs any rewards")
	}
	if p.BNPLUsage == domain.BNPLOften {
		factors = append(factors, "Heavy buy-now-pay-later usage signals payment strain to underwriters")
	}
	if p.AgeBucket == domain.AgeUnder18 {
		factors = append(factors, "Under 18: not yet eligible to hold a credit card")
	}
	if p.IncomeBucket == domain.IncomeUnder25K {
		factors = append(factors, "Reported income limits approvable credit lines")
	}
	if len(factors) == 0 {
		factors = append(factors, "No blocking factors reported")
	}
	return factors
}

// Stage-indexed recommendation tables. The curation is static by design:
// approval odds here are editorial estimates, not model output.
var (
	firstCardPicks = []domain.RecommendedCard{
		{Name: "Discover it Secured", Issuer: "Discover", ApprovalOdds: "excellent", Prerequisites: []string{"refundable security deposit"}, Notes: "Graduates to unsecured after on-time payment history"},
		{Name: "Capital One Platinum Secured", Issuer: "Capital One", ApprovalOdds: "excellent", Prerequisites: []string{"refundable security deposit"}},
		{Name: "Chase Freedom Rise", Issuer: "Chase", ApprovalOdds: "good", Prerequisites: []string{"Chase checking account improves odds"}},
	}
	builderPicks = []domain.RecommendedCard{
		{Name: "Discover it Cash Back", Issuer: "Discover", ApprovalOdds: "good", Notes: "Rotating 5% categories with no annual fee"},
		{Name: "Capital One Quicksilver", Issuer: "Capital One", ApprovalOdds: "good", Notes: "Flat 1.5% everywhere, simple first unsecured card"},
		{Name: "Chase Freedom Unlimited", Issuer: "Chase", ApprovalOdds: "fair", Prerequisites: []string{"roughly a year of clean history"}},
	}
	optimizerPicks = []domain.RecommendedCard{
		{Name: "Chase Sapphire Preferred", Issuer: "Chase", ApprovalOdds: "good", Prerequisites: []string{"under 5 new cards in 24 months"}, Notes: "Transferable points unlock outsized travel value"},
		{Name: "American Express Gold", Issuer: "American Express", ApprovalOdds: "good", Notes: "4x at restaurants and US supermarkets"},
		{Name: "Citi Custom Cash", Issuer: "Citi", ApprovalOdds: "excellent", Notes: "Automatic 5% on your top category each cycle"},
	}
	advancedPicks = []domain.RecommendedCard{
		{Name: "Capital One Venture X", Issuer: "Capital One", ApprovalOdds: "good", Prerequisites: []string{"strong income and clean file"}, Notes: "Premium travel card that nets positive with credits"},
		{Name: "American Express Platinum", Issuer: "American Express", ApprovalOdds: "fair", Notes: "Lounge access and travel credits for frequent flyers"},
		{Name: "Chase Sapphire Reserve", Issuer: "Chase", ApprovalOdds: "fair", Prerequisites: []string{"under 5 new cards in 24 months"}},
	}
)

// recommendedCards returns the stage's curated list. Balance carriers get
// an empty list: optimization is withheld entirely while debt exists.
func recommendedCards(stage domain.PathwayStage, p domain.PathwayProfile) []domain.RecommendedCard {
	if p.CarryBalance {
		return []domain.RecommendedCard{}
	}
	switch stage {
	case domain.PathwayFirstCard:
		return firstCardPicks
	case domain.PathwayEarlyBuilder:
		// Blend: the tail of the starter list still fits a thin file,
		// the head of the builder list is the step up.
		blended := append([]domain.RecommendedCard{}, firstCardPicks[len(firstCardPicks)-1])
		return append(blended, builderPicks[:2]...)
	case domain.PathwayEstablishedBuilder:
		return builderPicks
	case domain.PathwayOptimizer:
		return optimizerPicks
	case domain.PathwayAdvancedOptimizer:
		return advancedPicks
	default:
		return builderPicks
	}
}

// blockedCards assembles blocks independently of the recommended list.
// Each triggering condition appends its own entry; entries are not
// deduplicated across conditions.
func blockedCards(p domain.PathwayProfile) []domain.BlockedCard {
	var blocked []domain.BlockedCard
	stage := DetermineStage(p)

	if p.AgeBucket == domain.AgeUnder18 {
		blocked = append(blocked, domain.BlockedCard{
			Name:           "All credit cards",
			Reason:         "You must be at least 18 years old to open a credit card in your own name",
			RetryCondition: "Revisit at 18; consider authorized-user status on a parent's card until then",
		})
	}
	if p.CarryBalance {
		blocked = append(blocked, domain.BlockedCard{
			Name:           "All premium rewards cards",
			Reason:         "Annual-fee rewards cards lose money while you pay interest on a revolving balance",
			RetryCondition: "Carry a $0 balance for two consecutive statements",
		})
	}
	if stage == domain.PathwayFirstCard || stage == domain.PathwayEarlyBuilder {
		blocked = append(blocked, domain.BlockedCard{
			Name:           "Chase Sapphire Preferred",
			Reason:         "Chase rarely approves applicants with under a year of credit history",
			RetryCondition: "Reapply after 12 months of on-time payments",
		})
	}
	if p.HasDerogatories {
		blocked = append(blocked, domain.BlockedCard{
			Name:           "Premium travel cards",
			Reason:         "Recent derogatory marks make premium approvals unlikely at any issuer",
			RetryCondition: "Wait for marks to age or be removed, then rebuild 6 months of clean history",
		})
	}
	if p.BNPLUsage == domain.BNPLOften {
		blocked = append(blocked, domain.BlockedCard{
			Name:           "High-limit cards",
			Reason:         "Frequent buy-now-pay-later plans suggest existing payment obligations",
			RetryCondition: "Wind down BNPL plans before applying",
		})
	}
	return blocked
}

// timeline returns the 3-point plan keyed by stage. Carrying a balance
// overrides the stage plan entirely.
func timeline(stage domain.PathwayStage, p domain.PathwayProfile) []domain.TimelinePoint {
	if p.CarryBalance {
		return []domain.TimelinePoint{
			{Horizon: "Now", Focus: "Pay down the balance", Detail: "Every dollar of interest erases rewards; attack the highest-APR balance first"},
			{Horizon: "3 months", Focus: "Reach a $0 statement balance", Detail: "Keep the accounts open and dormant while you pay down"},
			{Horizon: "6 months", Focus: "Re-enter optimization", Detail: "Once debt-free for two statements, rewards strategy reopens"},
		}
	}

	switch stage {
	case domain.PathwayFirstCard:
		return []domain.TimelinePoint{
			{Horizon: "Now", Focus: "Open a starter card", Detail: "A secured or student card starts the clock on your history"},
			{Horizon: "6 months", Focus: "Build perfect payment history", Detail: "Keep utilization under 30% and never miss a due date"},
			{Horizon: "12 months", Focus: "Graduate", Detail: "Request an upgrade to unsecured or add a no-fee cash-back card"},
		}
	case domain.PathwayEarlyBuilder:
		return []domain.TimelinePoint{
			{Horizon: "Now", Focus: "Add one no-fee card", Detail: "A second tradeline thickens a thin file without fee risk"},
			{Horizon: "6 months", Focus: "Let accounts age", Detail: "Average account age matters; avoid new applications"},
			{Horizon: "12-18 months", Focus: "First rewards card", Detail: "With two years of history, mid-tier rewards cards open up"},
		}
	case domain.PathwayEstablishedBuilder:
		return []domain.TimelinePoint{
			{Horizon: "Now", Focus: "Pick a keeper card", Detail: "Choose a no-fee card matching your top spend category"},
			{Horizon: "6 months", Focus: "Optimize utilization", Detail: "Ask for limit increases; keep reported utilization under 10%"},
			{Horizon: "12 months", Focus: "Go for a flagship", Detail: "A clean year sets up approval for a flagship rewards card"},
		}
	case domain.PathwayAdvancedOptimizer:
		return []domain.TimelinePoint{
			{Horizon: "Now", Focus: "Audit the portfolio", Detail: "Cut cards whose fees outrun their credits; consolidate points"},
			{Horizon: "6 months", Focus: "Target a premium card", Detail: "Time the application to a heightened welcome offer"},
			{Horizon: "12 months", Focus: "Maximize redemptions", Detail: "Transfer partners typically beat cash-out by 30% or more"},
		}
	default: // optimizer
		return []domain.TimelinePoint{
			{Horizon: "Now", Focus: "Cover your top categories", Detail: "Pair a dining/grocery earner with a flat-rate card"},
			{Horizon: "6 months", Focus: "Add a travel earner", Detail: "Transferable-points cards compound with category earners"},
			{Horizon: "12 months", Focus: "Reassess fees", Detail: "Keep a card only if last year's rewards beat its annual fee"},
		}
	}
}

// behaviorRules returns stage-keyed habits, with the carry-balance
// override taking precedence.
func behaviorRules(stage domain.PathwayStage, p domain.PathwayProfile) []string {
	if p.CarryBalance {
		return []string{
			"Stop putting new spend on cards that carry a balance",
			"Pay more than the minimum every cycle",
			"Ignore rewards entirely until the balance is gone",
		}
	}

	base := []string{
		"Pay the statement balance in full every month",
		"Keep reported utilization under 30%",
	}
	switch stage {
	case domain.PathwayFirstCard:
		return append(base, "Set up autopay for at least the minimum before the first statement")
	case domain.PathwayEarlyBuilder:
		return append(base, "Avoid applying for more than one card per six months")
	case domain.PathwayEstablishedBuilder:
		return append(base, "Request a credit limit increase every six months")
	case domain.PathwayAdvancedOptimizer:
		return append(base, "Track annual fees against realized rewards once a year")
	default:
		return append(base, "Match each purchase to the card with the highest category rate")
	}
}
