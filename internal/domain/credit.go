package domain

import "time"

// ============================================================
// Credit Profile
// ============================================================

// Enumerated profile values. Empty string means unset; the deriver treats
// any value outside the enumeration the same way.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"

	IntentScore   = "score"
	IntentRewards = "rewards"
	IntentBoth    = "both"

	BNPLNever     = "never"
	BNPLSometimes = "sometimes"
	BNPLOften     = "often"

	AgeUnder18 = "<18"
	Age18To20  = "18-20"
	Age21To25  = "21-25"
	Age26To35  = "26-35"
	Age36To50  = "36-50"
	AgeOver50  = "50+"

	IncomeUnder25K = "<25k"
	Income25To50K  = "25-50k"
	Income50To100K = "50-100k"
	IncomeOver100K = "100k+"

	ConfidenceLevelLow    = "low"
	ConfidenceLevelMedium = "medium"
	ConfidenceLevelHigh   = "high"

	HistoryNone        = "none"
	HistoryThin        = "thin"
	HistoryEstablished = "established"
)

// CreditProfile is the per-user self-reported record. One profile per
// user, created on first onboarding submission.
type CreditProfile struct {
	UserID              string    `json:"user_id"`
	ExperienceLevel     string    `json:"experience_level,omitempty"` // beginner, intermediate, advanced
	Intent              string    `json:"intent,omitempty"`           // score, rewards, both
	CarryBalance        bool      `json:"carry_balance"`
	BNPLUsage           string    `json:"bnpl_usage,omitempty"`       // never, sometimes, often
	AgeBucket           string    `json:"age_bucket,omitempty"`       // <18, 18-20, 21-25, 26-35, 36-50, 50+
	IncomeBucket        string    `json:"income_bucket,omitempty"`    // <25k, 25-50k, 50-100k, 100k+
	ConfidenceLevel     string    `json:"confidence_level,omitempty"` // low, medium, high
	CreditHistory       string    `json:"credit_history,omitempty"`   // none, thin, established
	HasDerogatories     bool      `json:"has_derogatories"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreditProfileUpdate carries a partial profile write. Pointer fields
// distinguish "not provided" from an explicit zero value.
type CreditProfileUpdate struct {
	ExperienceLevel     *string `json:"experience_level,omitempty"`
	Intent              *string `json:"intent,omitempty"`
	CarryBalance        *bool   `json:"carry_balance,omitempty"`
	BNPLUsage           *string `json:"bnpl_usage,omitempty"`
	AgeBucket           *string `json:"age_bucket,omitempty"`
	IncomeBucket        *string `json:"income_bucket,omitempty"`
	ConfidenceLevel     *string `json:"confidence_level,omitempty"`
	CreditHistory       *string `json:"credit_history,omitempty"`
	HasDerogatories     *bool   `json:"has_derogatories,omitempty"`
	OnboardingCompleted *bool   `json:"onboarding_completed,omitempty"`
}

// PathwayProfile is the subset of profile fields the pathway generator
// reads, a superset of what feeds the state deriver.
type PathwayProfile struct {
	CreditHistory   string `json:"credit_history"`
	HasDerogatories bool   `json:"has_derogatories"`
	CarryBalance    bool   `json:"carry_balance"`
	BNPLUsage       string `json:"bnpl_usage"`
	ExperienceLevel string `json:"experience_level"`
	AgeBucket       string `json:"age_bucket"`
	IncomeBucket    string `json:"income_bucket"`
}

// PathwayProfile extracts the pathway-relevant view of a stored profile.
func (p *CreditProfile) PathwayProfile() PathwayProfile {
	return PathwayProfile{
		CreditHistory:   p.CreditHistory,
		HasDerogatories: p.HasDerogatories,
		CarryBalance:    p.CarryBalance,
		BNPLUsage:       p.BNPLUsage,
		ExperienceLevel: p.ExperienceLevel,
		AgeBucket:       p.AgeBucket,
		IncomeBucket:    p.IncomeBucket,
	}
}

// ============================================================
// Credit State (derived, never authoritative)
// ============================================================

// Stage is the derived credit journey stage.
type Stage string

const (
	StageStarter           Stage = "starter"
	StageBuilder           Stage = "builder"
	StageOptimizer         Stage = "optimizer"
	StageAdvancedOptimizer Stage = "advanced_optimizer"
)

// EducationMode controls how much guardrail copy the UI shows.
type EducationMode string

const (
	EducationStrict   EducationMode = "strict"
	EducationStandard EducationMode = "standard"
	EducationLight    EducationMode = "light"
)

// RiskCeiling bounds how aggressive product suggestions may be.
type RiskCeiling string

const (
	RiskLow    RiskCeiling = "low"
	RiskMedium RiskCeiling = "medium"
	RiskHigh   RiskCeiling = "high"
)

// Suppression flag tags attached during state derivation.
const (
	FlagAgeRestriction  = "age_restriction"
	FlagLimitedHistory  = "limited_credit_history"
	FlagBalanceCarrier  = "balance_carrier"
	FlagSuppressRewards = "suppress_rewards_optimization"
	FlagHighBNPL        = "high_bnpl_usage"
	FlagModerateBNPL    = "moderate_bnpl_usage"
	FlagSuppressPremium = "suppress_premium_cards"
	FlagSuppressHighFee = "suppress_high_fee_cards"
	FlagScoreFocused    = "score_focused"
)

// CreditState is a pure, total function of CreditProfile. It is recomputed
// on every read and never trusted from storage.
type CreditState struct {
	Stage     Stage         `json:"stage"`
	MaxTier   int           `json:"max_tier"`
	Education EducationMode `json:"education"`
	Risk      RiskCeiling   `json:"risk"`
	Flags     []string      `json:"flags"`
}

// HasFlag reports whether the state carries the given suppression flag.
func (s CreditState) HasFlag(flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// CreditProfileView is what the API returns for a profile read: the stored
// record plus its freshly derived state.
type CreditProfileView struct {
	Profile CreditProfile `json:"profile"`
	State   CreditState   `json:"state"`
}

// ============================================================
// Credit Pathway
// ============================================================

// PathwayStage is the approval-modeling stage, distinct from the derived
// credit state stage.
type PathwayStage string

const (
	PathwayFirstCard          PathwayStage = "first_card"
	PathwayEarlyBuilder       PathwayStage = "early_builder"
	PathwayEstablishedBuilder PathwayStage = "established_builder"
	PathwayOptimizer          PathwayStage = "optimizer"
	PathwayAdvancedOptimizer  PathwayStage = "advanced_optimizer"
)

// RecommendedCard is a card the user should consider next.
type RecommendedCard struct {
	Name          string   `json:"name"`
	Issuer        string   `json:"issuer"`
	ApprovalOdds  string   `json:"approval_odds"` // excellent, good, fair
	Prerequisites []string `json:"prerequisites,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// BlockedCard is a card (or card class) the user should not pursue now.
type BlockedCard struct {
	Name           string `json:"name"`
	Reason         string `json:"reason"`
	RetryCondition string `json:"retry_condition,omitempty"`
}

// TimelinePoint is one horizon of the 3-point pathway timeline.
type TimelinePoint struct {
	Horizon string `json:"horizon"`
	Focus   string `json:"focus"`
	Detail  string `json:"detail"`
}

// CreditPathway is the gated "what next" answer derived from a profile.
type CreditPathway struct {
	Stage           PathwayStage      `json:"stage"`
	ApprovalFactors []string          `json:"approval_factors"`
	RecommendedNext []RecommendedCard `json:"recommended_next_cards"`
	Blocked         []BlockedCard     `json:"blocked_cards"`
	Timeline        []TimelinePoint   `json:"timeline"`
	BehaviorRules   []string          `json:"behavior_rules"`
}
