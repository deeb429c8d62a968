// Package sqlitestore is the embedded persistence backend. It serves both
// the card catalog and credit profiles from a local SQLite file, which is
// the default when no Supabase project is configured.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// Store wraps the database connection and provides catalog and profile
// access.
type Store struct {
	conn *sql.DB
}

// New opens the database file and initializes the schema.
func New(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn}

	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			issuer TEXT NOT NULL,
			name TEXT NOT NULL,
			annual_fee_cents INTEGER NOT NULL,
			network TEXT NOT NULL,
			active INTEGER NOT NULL,
			verified_at TEXT,
			verified_by TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS reward_rules (
			card_id TEXT NOT NULL,
			category TEXT NOT NULL,
			multiplier REAL NOT NULL,
			cap_amount_cents INTEGER NOT NULL DEFAULT 0,
			cap_period TEXT NOT NULL DEFAULT '',
			exclusions TEXT NOT NULL DEFAULT '[]',
			conditions TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (card_id, category)
		)`,
		`CREATE TABLE IF NOT EXISTS merchant_exclusions (
			card_id TEXT NOT NULL,
			merchant_pattern TEXT NOT NULL,
			reason TEXT NOT NULL,
			PRIMARY KEY (card_id, merchant_pattern)
		)`,
		`CREATE TABLE IF NOT EXISTS merchant_mappings (
			domain TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			is_warehouse INTEGER NOT NULL DEFAULT 0,
			excluded_from_grocery INTEGER NOT NULL DEFAULT 0,
			is_partner INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS credit_profiles (
			user_id TEXT PRIMARY KEY,
			experience_level TEXT NOT NULL DEFAULT '',
			intent TEXT NOT NULL DEFAULT '',
			carry_balance INTEGER NOT NULL DEFAULT 0,
			bnpl_usage TEXT NOT NULL DEFAULT '',
			age_bucket TEXT NOT NULL DEFAULT '',
			income_bucket TEXT NOT NULL DEFAULT '',
			confidence_level TEXT NOT NULL DEFAULT '',
			credit_history TEXT NOT NULL DEFAULT '',
			has_derogatories INTEGER NOT NULL DEFAULT 0,
			onboarding_completed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reward_rules_card ON reward_rules(card_id)`,
		`CREATE INDEX IF NOT EXISTS idx_exclusions_card ON merchant_exclusions(card_id)`,
	}

	for _, query := range queries {
		if _, err := s.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// Seed loads a catalog snapshot into the database. Rows are upserted, so
// reseeding against an existing file refreshes the catalog in place.
func (s *Store) Seed(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, card := range snapshot.Cards {
		var verifiedAt any
		if card.VerifiedAt != nil {
			verifiedAt = card.VerifiedAt.Format(time.RFC3339)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO cards (
			id, issuer, name, annual_fee_cents, network, active, verified_at, verified_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			issuer = excluded.issuer,
			name = excluded.name,
			annual_fee_cents = excluded.annual_fee_cents,
			network = excluded.network,
			active = excluded.active,
			verified_at = excluded.verified_at,
			verified_by = excluded.verified_by`,
			card.ID, card.Issuer, card.Name, card.AnnualFeeCents, card.Network, card.Active, verifiedAt, card.VerifiedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to seed card %s: %w", card.ID, err)
		}
	}

	for _, rule := range snapshot.Rules {
		_, err := tx.ExecContext(ctx, `INSERT INTO reward_rules (
			card_id, category, multiplier, cap_amount_cents, cap_period, exclusions, conditions
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(card_id, category) DO UPDATE SET
			multiplier = excluded.multiplier,
			cap_amount_cents = excluded.cap_amount_cents,
			cap_period = excluded.cap_period,
			exclusions = excluded.exclusions,
			conditions = excluded.conditions`,
			rule.CardID, rule.Category, rule.Multiplier, rule.CapAmountCents, rule.CapPeriod,
			serializeList(rule.Exclusions), rule.Conditions,
		)
		if err != nil {
			return fmt.Errorf("failed to seed rule %s/%s: %w", rule.CardID, rule.Category, err)
		}
	}

	for _, excl := range snapshot.Exclusions {
		_, err := tx.ExecContext(ctx, `INSERT INTO merchant_exclusions (
			card_id, merchant_pattern, reason
		) VALUES (?, ?, ?)
		ON CONFLICT(card_id, merchant_pattern) DO UPDATE SET
			reason = excluded.reason`,
			excl.CardID, excl.MerchantPattern, excl.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to seed exclusion %s/%s: %w", excl.CardID, excl.MerchantPattern, err)
		}
	}

	for _, m := range snapshot.Mappings {
		_, err := tx.ExecContext(ctx, `INSERT INTO merchant_mappings (
			domain, name, category, is_warehouse, excluded_from_grocery, is_partner
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			is_warehouse = excluded.is_warehouse,
			excluded_from_grocery = excluded.excluded_from_grocery,
			is_partner = excluded.is_partner`,
			m.Domain, m.Name, m.Category, m.IsWarehouse, m.ExcludedFromGrocery, m.IsPartner,
		)
		if err != nil {
			return fmt.Errorf("failed to seed mapping %s: %w", m.Domain, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	return nil
}

// ============================================================
// CatalogStore
// ============================================================

// ListCards returns every card in the catalog, active or not.
func (s *Store) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, issuer, name, annual_fee_cents,
		network, active, verified_at, verified_by FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var card domain.Card
		var verifiedAt sql.NullString
		if err := rows.Scan(&card.ID, &card.Issuer, &card.Name, &card.AnnualFeeCents,
			&card.Network, &card.Active, &verifiedAt, &card.VerifiedBy); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if verifiedAt.Valid {
			if t, err := time.Parse(time.RFC3339, verifiedAt.String); err == nil {
				card.VerifiedAt = &t
			}
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

// ListRewardRules returns all per-card category rates.
func (s *Store) ListRewardRules(ctx context.Context) ([]domain.RewardRule, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT card_id, category, multiplier,
		cap_amount_cents, cap_period, exclusions, conditions FROM reward_rules ORDER BY card_id, category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reward rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.RewardRule
	for rows.Next() {
		var rule domain.RewardRule
		var exclusionsJSON string
		if err := rows.Scan(&rule.CardID, &rule.Category, &rule.Multiplier,
			&rule.CapAmountCents, &rule.CapPeriod, &exclusionsJSON, &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to scan reward rule: %w", err)
		}
		rule.Exclusions = deserializeList(exclusionsJSON)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reward rules: %w", err)
	}

	return rules, nil
}

// ListMerchantExclusions returns all per-card merchant carve-outs.
func (s *Store) ListMerchantExclusions(ctx context.Context) ([]domain.MerchantExclusion, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT card_id, merchant_pattern, reason
		FROM merchant_exclusions ORDER BY card_id, merchant_pattern`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant exclusions: %w", err)
	}
	defer rows.Close()

	var exclusions []domain.MerchantExclusion
	for rows.Next() {
		var excl domain.MerchantExclusion
		if err := rows.Scan(&excl.CardID, &excl.MerchantPattern, &excl.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan merchant exclusion: %w", err)
		}
		exclusions = append(exclusions, excl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchant exclusions: %w", err)
	}

	return exclusions, nil
}

// ListMerchantMappings returns the curated domain-to-merchant table.
func (s *Store) ListMerchantMappings(ctx context.Context) ([]domain.MerchantMapping, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT domain, name, category,
		is_warehouse, excluded_from_grocery, is_partner FROM merchant_mappings ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.MerchantMapping
	for rows.Next() {
		var m domain.MerchantMapping
		if err := rows.Scan(&m.Domain, &m.Name, &m.Category,
			&m.IsWarehouse, &m.ExcludedFromGrocery, &m.IsPartner); err != nil {
			return nil, fmt.Errorf("failed to scan merchant mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchant mappings: %w", err)
	}

	return mappings, nil
}

// ============================================================
// ProfileStore
// ============================================================

// GetCreditProfile loads a user's profile by ID.
func (s *Store) GetCreditProfile(ctx context.Context, userID string) (*domain.CreditProfile, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT user_id, experience_level, intent,
		carry_balance, bnpl_usage, age_bucket, income_bucket, confidence_level,
		credit_history, has_derogatories, onboarding_completed, created_at, updated_at
		FROM credit_profiles WHERE user_id = ?`, userID)

	var p domain.CreditProfile
	var createdAt, updatedAt string
	err := row.Scan(&p.UserID, &p.ExperienceLevel, &p.Intent, &p.CarryBalance,
		&p.BNPLUsage, &p.AgeBucket, &p.IncomeBucket, &p.ConfidenceLevel,
		&p.CreditHistory, &p.HasDerogatories, &p.OnboardingCompleted, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "credit_profile", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan credit profile: %w", err)
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// UpsertCreditProfile writes the full profile row keyed by user_id.
func (s *Store) UpsertCreditProfile(ctx context.Context, p *domain.CreditProfile) (*domain.CreditProfile, error) {
	_, err := s.conn.ExecContext(ctx, `INSERT INTO credit_profiles (
		user_id, experience_level, intent, carry_balance, bnpl_usage, age_bucket,
		income_bucket, confidence_level, credit_history, has_derogatories,
		onboarding_completed, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		experience_level = excluded.experience_level,
		intent = excluded.intent,
		carry_balance = excluded.carry_balance,
		bnpl_usage = excluded.bnpl_usage,
		age_bucket = excluded.age_bucket,
		income_bucket = excluded.income_bucket,
		confidence_level = excluded.confidence_level,
		credit_history = excluded.credit_history,
		has_derogatories = excluded.has_derogatories,
		onboarding_completed = excluded.onboarding_completed,
		updated_at = excluded.updated_at`,
		p.UserID, p.ExperienceLevel, p.Intent, p.CarryBalance, p.BNPLUsage,
		p.AgeBucket, p.IncomeBucket, p.ConfidenceLevel, p.CreditHistory,
		p.HasDerogatories, p.OnboardingCompleted,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert credit profile: %w", err)
	}

	return s.GetCreditProfile(ctx, p.UserID)
}

// serializeList converts a string slice to its JSON column form.
func serializeList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// deserializeList converts a JSON column back to a slice.
func deserializeList(serialized string) []string {
	if serialized == "" || serialized == "[]" {
		return nil
	}
	var result []string
	if err := json.Unmarshal([]byte(serialized), &result); err != nil {
		return nil
	}
	return result
}
