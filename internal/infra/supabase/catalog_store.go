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
// Card catalog — read-only tables via PostgREST
// ============================================================

// supabaseCard maps the cards table columns to our domain.
type supabaseCard struct {
	ID             string  `json:"id"`
	Issuer         string  `json:"issuer"`
	Name           string  `json:"name"`
	AnnualFeeCents int64   `json:"annual_fee_cents"`
	Network        string  `json:"network"`
	Active         bool    `json:"active"`
	VerifiedAt     *string `json:"verified_at"`
	VerifiedBy     string  `json:"verified_by"`
}

// ListCards fetches the active card roster from Supabase.
func (c *Client) ListCards(ctx context.Context) ([]domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCards")
	defer span.End()

	var cards []domain.Card

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "cards?order=id.asc")
			if err != nil {
				return err
			}
			if body == nil {
				cards = []domain.Card{}
				return nil
			}

			var rows []supabaseCard
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode cards: %w", err)
			}

			cards = make([]domain.Card, 0, len(rows))
			for _, r := range rows {
				card := domain.Card{
					ID:             r.ID,
					Issuer:         r.Issuer,
					Name:           r.Name,
					AnnualFeeCents: r.AnnualFeeCents,
					Network:        r.Network,
					Active:         r.Active,
					VerifiedBy:     r.VerifiedBy,
				}
				if r.VerifiedAt != nil {
					t, err := time.Parse(time.RFC3339, *r.VerifiedAt)
					if err == nil {
						card.VerifiedAt = &t
					}
				}
				cards = append(cards, card)
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}

	return cards, nil
}

// supabaseRewardRule maps the reward_rules table columns.
type supabaseRewardRule struct {
	CardID         string   `json:"card_id"`
	Category       string   `json:"category"`
	Multiplier     float64  `json:"multiplier"`
	CapAmountCents int64    `json:"cap_amount_cents"`
	CapPeriod      string   `json:"cap_period"`
	Exclusions     []string `json:"exclusions"`
	Conditions     string   `json:"conditions"`
}

// ListRewardRules fetches all per-card category rates.
func (c *Client) ListRewardRules(ctx context.Context) ([]domain.RewardRule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRewardRules")
	defer span.End()

	var rules []domain.RewardRule

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "reward_rules?order=card_id.asc")
			if err != nil {
				return err
			}
			if body == nil {
				rules = []domain.RewardRule{}
				return nil
			}

			var rows []supabaseRewardRule
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode reward_rules: %w", err)
			}

			rules = make([]domain.RewardRule, 0, len(rows))
			for _, r := range rows {
				rules = append(rules, domain.RewardRule{
					CardID:         r.CardID,
					Category:       r.Category,
					Multiplier:     r.Multiplier,
					CapAmountCents: r.CapAmountCents,
					CapPeriod:      r.CapPeriod,
					Exclusions:     r.Exclusions,
					Conditions:     r.Conditions,
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/reward_rules", Err: err}
	}

	return rules, nil
}

// supabaseExclusion maps the merchant_exclusions table columns.
type supabaseExclusion struct {
	CardID          string `json:"card_id"`
	MerchantPattern string `json:"merchant_pattern"`
	Reason          string `json:"reason"`
}

// ListMerchantExclusions fetches per-card merchant carve-outs.
func (c *Client) ListMerchantExclusions(ctx context.Context) ([]domain.MerchantExclusion, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListMerchantExclusions")
	defer span.End()

	var exclusions []domain.MerchantExclusion

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "merchant_exclusions?order=card_id.asc")
			if err != nil {
				return err
			}
			if body == nil {
				exclusions = []domain.MerchantExclusion{}
				return nil
			}

			var rows []supabaseExclusion
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode merchant_exclusions: %w", err)
			}

			exclusions = make([]domain.MerchantExclusion, 0, len(rows))
			for _, r := range rows {
				exclusions = append(exclusions, domain.MerchantExclusion{
					CardID:          r.CardID,
					MerchantPattern: r.MerchantPattern,
					Reason:          r.Reason,
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/merchant_exclusions", Err: err}
	}

	return exclusions, nil
}

// supabaseMapping maps the merchant_mappings table columns.
type supabaseMapping struct {
	Domain              string `json:"domain"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	IsWarehouse         bool   `json:"is_warehouse"`
	ExcludedFromGrocery bool   `json:"excluded_from_grocery"`
	IsPartner           bool   `json:"is_partner"`
}

// ListMerchantMappings fetches the curated domain-to-merchant table.
func (c *Client) ListMerchantMappings(ctx context.Context) ([]domain.MerchantMapping, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListMerchantMappings")
	defer span.End()

	var mappings []domain.MerchantMapping

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "merchant_mappings?order=domain.asc")
			if err != nil {
				return err
			}
			if body == nil {
				mappings = []domain.MerchantMapping{}
				return nil
			}

			var rows []supabaseMapping
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode merchant_mappings: %w", err)
			}

			mappings = make([]domain.MerchantMapping, 0, len(rows))
			for _, r := range rows {
				mappings = append(mappings, domain.MerchantMapping{
					Domain:              r.Domain,
					Name:                r.Name,
					Category:            r.Category,
					IsWarehouse:         r.IsWarehouse,
					ExcludedFromGrocery: r.ExcludedFromGrocery,
					IsPartner:           r.IsPartner,
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/merchant_mappings", Err: err}
	}

	return mappings, nil
}
