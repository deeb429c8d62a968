package service

import (
	"context"
	"errors"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/engine"
	"github.com/cardwise/cardwise-api/internal/infra/observability"
	"github.com/cardwise/cardwise-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var profileTracer = otel.Tracer("service/profile")

// Profile manages credit profiles and the read models derived from them.
// Derived state is recomputed on every read and never persisted.
type Profile struct {
	store   port.ProfileStore
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewProfile creates the profile service.
func NewProfile(store port.ProfileStore, metrics *observability.Metrics, logger *zap.Logger) *Profile {
	return &Profile{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the stored profile together with its freshly derived state.
func (s *Profile) Get(ctx context.Context, userID string) (*domain.CreditProfileView, error) {
	ctx, span := profileTracer.Start(ctx, "Profile.Get")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	profile, err := s.store.GetCreditProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := engine.DeriveCreditState(*profile)
	s.metrics.IncrStageDerivation()

	return &domain.CreditProfileView{Profile: *profile, State: state}, nil
}

// Upsert merges a partial update into the stored profile, creating it if
// absent, and returns the saved profile with its derived state.
func (s *Profile) Upsert(ctx context.Context, userID string, update domain.CreditProfileUpdate) (*domain.CreditProfileView, error) {
	ctx, span := profileTracer.Start(ctx, "Profile.Upsert")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	profile, err := s.store.GetCreditProfile(ctx, userID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
		profile = &domain.CreditProfile{UserID: userID, CreatedAt: now}
	}

	applyUpdate(profile, update)
	profile.UpdatedAt = now

	saved, err := s.store.UpsertCreditProfile(ctx, profile)
	if err != nil {
		s.logger.Error("credit profile upsert failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	state := engine.DeriveCreditState(*saved)
	s.metrics.IncrStageDerivation()

	return &domain.CreditProfileView{Profile: *saved, State: state}, nil
}

// GetCreditPathway generates the approval-gated next-card plan for a
// user's stored profile.
func (s *Profile) GetCreditPathway(ctx context.Context, userID string) (*domain.CreditPathway, error) {
	ctx, span := profileTracer.Start(ctx, "Profile.GetCreditPathway")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	profile, err := s.store.GetCreditProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	pathway := engine.GenerateCreditPathway(profile.PathwayProfile())
	s.metrics.IncrPathway()

	return &pathway, nil
}

// applyUpdate copies the provided fields onto the profile. Nil pointers
// leave the stored value untouched.
func applyUpdate(p *domain.CreditProfile, u domain.CreditProfileUpdate) {
	if u.ExperienceLevel != nil {
		p.ExperienceLevel = *u.ExperienceLevel
	}
	if u.Intent != nil {
		p.Intent = *u.Intent
	}
	if u.CarryBalance != nil {
		p.CarryBalance = *u.CarryBalance
	}
	if u.BNPLUsage != nil {
		p.BNPLUsage = *u.BNPLUsage
	}
	if u.AgeBucket != nil {
		p.AgeBucket = *u.AgeBucket
	}
	if u.IncomeBucket != nil {
		p.IncomeBucket = *u.IncomeBucket
	}
	if u.ConfidenceLevel != nil {
		p.ConfidenceLevel = *u.ConfidenceLevel
	}
	if u.CreditHistory != nil {
		p.CreditHistory = *u.CreditHistory
	}
	if u.HasDerogatories != nil {
		p.HasDerogatories = *u.HasDerogatories
	}
	if u.OnboardingCompleted != nil {
		p.OnboardingCompleted = *u.OnboardingCompleted
	}
}

// enum membership tables for update validation. Empty string is always
// accepted and means "unset".
var validEnums = map[string]map[string]bool{
	"experience_level": {domain.ExperienceBeginner: true, domain.ExperienceIntermediate: true, domain.ExperienceAdvanced: true},
	"intent":           {domain.IntentScore: true, domain.IntentRewards: true, domain.IntentBoth: true},
	"bnpl_usage":       {domain.BNPLNever: true, domain.BNPLSometimes: true, domain.BNPLOften: true},
	"age_bucket":       {domain.AgeUnder18: true, domain.Age18To20: true, domain.Age21To25: true, domain.Age26To35: true, domain.Age36To50: true, domain.AgeOver50: true},
	"income_bucket":    {domain.IncomeUnder25K: true, domain.Income25To50K: true, domain.Income50To100K: true, domain.IncomeOver100K: true},
	"credit_history":   {domain.HistoryNone: true, domain.HistoryThin: true, domain.HistoryEstablished: true},
	"confidence_level": {domain.ConfidenceLevelLow: true, domain.ConfidenceLevelMedium: true, domain.ConfidenceLevelHigh: true},
}

func validateUpdate(u domain.CreditProfileUpdate) error {
	checks := []struct {
		field string
		value *string
	}{
		{"experience_level", u.ExperienceLevel},
		{"intent", u.Intent},
		{"bnpl_usage", u.BNPLUsage},
		{"age_bucket", u.AgeBucket},
		{"income_bucket", u.IncomeBucket},
		{"credit_history", u.CreditHistory},
		{"confidence_level", u.ConfidenceLevel},
	}

	for _, c := range checks {
		if c.value == nil || *c.value == "" {
			continue
		}
		if !validEnums[c.field][*c.value] {
			return &domain.ErrValidation{Field: c.field, Message: "value '" + *c.value + "' is not recognized"}
		}
	}
	return nil
}
