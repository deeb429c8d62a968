package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/infra/resilience"
)

// ============================================================
// Credit profiles — keyed by user_id via PostgREST
// ============================================================

// supabaseCreditProfile maps the credit_profiles table columns.
type supabaseCreditProfile struct {
	UserID              string `json:"user_id"`
	ExperienceLevel     string `json:"experience_level"`
	Intent              string `json:"intent"`
	CarryBalance        bool   `json:"carry_balance"`
	BNPLUsage           string `json:"bnpl_usage"`
	AgeBucket           string `json:"age_bucket"`
	IncomeBucket        string `json:"income_bucket"`
	ConfidenceLevel     string `json:"confidence_level"`
	CreditHistory       string `json:"credit_history"`
	HasDerogatories     bool   `json:"has_derogatories"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func (r supabaseCreditProfile) toDomain() *domain.CreditProfile {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	updated, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return &domain.CreditProfile{
		UserID:              r.UserID,
		ExperienceLevel:     r.ExperienceLevel,
		Intent:              r.Intent,
		CarryBalance:        r.CarryBalance,
		BNPLUsage:           r.BNPLUsage,
		AgeBucket:           r.AgeBucket,
		IncomeBucket:        r.IncomeBucket,
		ConfidenceLevel:     r.ConfidenceLevel,
		CreditHistory:       r.CreditHistory,
		HasDerogatories:     r.HasDerogatories,
		OnboardingCompleted: r.OnboardingCompleted,
		CreatedAt:           created,
		UpdatedAt:           updated,
	}
}

// GetCreditProfile fetches a user's credit profile from Supabase.
func (c *Client) GetCreditProfile(ctx context.Context, userID string) (*domain.CreditProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCreditProfile")
	defer span.End()

	var profile *domain.CreditProfile

	// A miss is a normal outcome for first-time users: the closure treats
	// it as success so it is neither retried nor counted against the
	// breaker, and ErrNotFound is raised after the resilience wrappers.
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("credit_profiles?user_id=eq.%s&limit=1", userID)
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				profile = nil
				return nil
			}

			var rows []supabaseCreditProfile
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode credit_profile: %w", err)
			}
			if len(rows) == 0 {
				profile = nil
				return nil
			}

			profile = rows[0].toDomain()
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/credit_profiles", Err: err}
	}
	if profile == nil {
		return nil, &domain.ErrNotFound{Resource: "credit_profile", ID: userID}
	}

	return profile, nil
}

// UpsertCreditProfile writes the full profile row, inserting or updating
// on the user_id key.
func (c *Client) UpsertCreditProfile(ctx context.Context, p *domain.CreditProfile) (*domain.CreditProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertCreditProfile")
	defer span.End()

	row := map[string]any{
		"user_id":              p.UserID,
		"experience_level":     p.ExperienceLevel,
		"intent":               p.Intent,
		"carry_balance":        p.CarryBalance,
		"bnpl_usage":           p.BNPLUsage,
		"age_bucket":           p.AgeBucket,
		"income_bucket":        p.IncomeBucket,
		"confidence_level":     p.ConfidenceLevel,
		"credit_history":       p.CreditHistory,
		"has_derogatories":     p.HasDerogatories,
		"onboarding_completed": p.OnboardingCompleted,
		"created_at":           p.CreatedAt.Format(time.RFC3339),
		"updated_at":           p.UpdatedAt.Format(time.RFC3339),
	}

	var saved *domain.CreditProfile

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doUpsert(ctx, "credit_profiles", row)
			if err != nil {
				return err
			}

			var rows []supabaseCreditProfile
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode upserted credit_profile: %w", err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("no result from credit_profiles upsert")
			}

			saved = rows[0].toDomain()
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/credit_profiles", Err: err}
	}

	return saved, nil
}
