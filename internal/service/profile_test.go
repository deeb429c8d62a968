package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/engine"
	"github.com/cardwise/cardwise-api/internal/infra/observability"
	"github.com/cardwise/cardwise-api/internal/service"

	"go.uber.org/zap"
)

// fakeProfileStore keeps profiles in a map.
type fakeProfileStore struct {
	profiles map[string]domain.CreditProfile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]domain.CreditProfile)}
}

func (f *fakeProfileStore) GetCreditProfile(_ context.Context, userID string) (*domain.CreditProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "credit_profile", ID: userID}
	}
	return &p, nil
}

func (f *fakeProfileStore) UpsertCreditProfile(_ context.Context, p *domain.CreditProfile) (*domain.CreditProfile, error) {
	f.profiles[p.UserID] = *p
	saved := *p
	return &saved, nil
}

func newProfileService(store *fakeProfileStore) *service.Profile {
	return service.NewProfile(store, observability.NewMetrics(), zap.NewNop())
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestProfileUpsert_CreatesProfile(t *testing.T) {
	svc := newProfileService(newFakeProfileStore())

	view, err := svc.Upsert(context.Background(), "user-1", domain.CreditProfileUpdate{
		ExperienceLevel:     strPtr(domain.ExperienceBeginner),
		Intent:              strPtr(domain.IntentRewards),
		OnboardingCompleted: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Profile.UserID != "user-1" {
		t.Errorf("user id = %s", view.Profile.UserID)
	}
	if view.Profile.ExperienceLevel != domain.ExperienceBeginner {
		t.Errorf("experience = %s", view.Profile.ExperienceLevel)
	}
	if !view.Profile.OnboardingCompleted {
		t.Error("expected onboarding completed")
	}
	if view.Profile.CreatedAt.IsZero() || view.Profile.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if view.State.Stage != domain.StageBuilder {
		t.Errorf("derived stage = %s, want builder", view.State.Stage)
	}
}

func TestProfileUpsert_MergesPartialUpdate(t *testing.T) {
	store := newFakeProfileStore()
	svc := newProfileService(store)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "user-1", domain.CreditProfileUpdate{
		ExperienceLevel: strPtr(domain.ExperienceAdvanced),
		BNPLUsage:       strPtr(domain.BNPLNever),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second write touches only carry_balance; experience must survive.
	view, err := svc.Upsert(ctx, "user-1", domain.CreditProfileUpdate{
		CarryBalance: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Profile.ExperienceLevel != domain.ExperienceAdvanced {
		t.Errorf("experience lost on partial update: %s", view.Profile.ExperienceLevel)
	}
	if !view.Profile.CarryBalance {
		t.Error("carry balance not applied")
	}
	if !view.State.HasFlag(domain.FlagBalanceCarrier) {
		t.Errorf("derived state missing balance flag: %v", view.State.Flags)
	}
}

func TestProfileUpsert_RejectsUnknownEnum(t *testing.T) {
	svc := newProfileService(newFakeProfileStore())

	_, err := svc.Upsert(context.Background(), "user-1", domain.CreditProfileUpdate{
		ExperienceLevel: strPtr("wizard"),
	})
	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if validationErr.Field != "experience_level" {
		t.Errorf("field = %s", validationErr.Field)
	}
}

func TestProfileUpsert_ConfidenceLevel(t *testing.T) {
	svc := newProfileService(newFakeProfileStore())
	ctx := context.Background()

	view, err := svc.Upsert(ctx, "user-1", domain.CreditProfileUpdate{
		ConfidenceLevel: strPtr(domain.ConfidenceLevelHigh),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Profile.ConfidenceLevel != domain.ConfidenceLevelHigh {
		t.Errorf("confidence level = %s", view.Profile.ConfidenceLevel)
	}

	_, err = svc.Upsert(ctx, "user-1", domain.CreditProfileUpdate{
		ConfidenceLevel: strPtr("cosmic"),
	})
	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if validationErr.Field != "confidence_level" {
		t.Errorf("field = %s", validationErr.Field)
	}
}

func TestProfileGet_NotFound(t *testing.T) {
	svc := newProfileService(newFakeProfileStore())

	_, err := svc.Get(context.Background(), "missing")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileGet_RederivesState(t *testing.T) {
	store := newFakeProfileStore()
	store.profiles["user-1"] = domain.CreditProfile{
		UserID:          "user-1",
		ExperienceLevel: domain.ExperienceAdvanced,
		BNPLUsage:       domain.BNPLNever,
	}
	svc := newProfileService(store)

	view, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := engine.DeriveCreditState(store.profiles["user-1"])
	if view.State.Stage != want.Stage || view.State.MaxTier != want.MaxTier {
		t.Errorf("state not derived from profile: got %+v, want %+v", view.State, want)
	}
}

func TestGetCreditPathway(t *testing.T) {
	store := newFakeProfileStore()
	store.profiles["user-1"] = domain.CreditProfile{
		UserID:          "user-1",
		ExperienceLevel: domain.ExperienceIntermediate,
		CreditHistory:   domain.HistoryEstablished,
	}
	svc := newProfileService(store)

	pathway, err := svc.GetCreditPathway(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pathway.Stage != domain.PathwayOptimizer {
		t.Errorf("stage = %s, want optimizer", pathway.Stage)
	}
	if len(pathway.Timeline) != 3 {
		t.Errorf("timeline length = %d", len(pathway.Timeline))
	}

	_, err = svc.GetCreditPathway(context.Background(), "missing")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound for missing profile, got %v", err)
	}
}
