// Package domain defines the core business entities for Cardwise.
// These models are independent of external services and represent the
// canonical data structures used throughout the engine and the API.
package domain

import "time"

// ============================================================
// Card Catalog
// ============================================================

// Card represents a credit card in the reference catalog.
type Card struct {
	ID             string     `json:"id"`
	Issuer         string     `json:"issuer"`
	Name           string     `json:"name"`
	AnnualFeeCents int64      `json:"annual_fee_cents"`
	Network        string     `json:"network"` // visa, mastercard, amex, discover
	Active         bool       `json:"active"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	VerifiedBy     string     `json:"verified_by,omitempty"`
}

// RewardRule maps one card and one category to an earn multiplier.
// Uniqueness is (card id, category). Cap fields are informational and
// never change the multiplier used for comparison.
type RewardRule struct {
	CardID         string   `json:"card_id"`
	Category       string   `json:"category"`
	Multiplier     float64  `json:"multiplier"`
	CapAmountCents int64    `json:"cap_amount_cents,omitempty"` // 0 means uncapped
	CapPeriod      string   `json:"cap_period,omitempty"` // monthly, quarterly, yearly
	Exclusions     []string `json:"exclusions,omitempty"` // merchant names carved out of this rule
	Conditions     string   `json:"conditions,omitempty"`
}

// MerchantExclusion removes a single card's bonus earning at merchants
// matching the pattern. Applies only to the named card.
type MerchantExclusion struct {
	CardID          string `json:"card_id"`
	MerchantPattern string `json:"merchant_pattern"`
	Reason          string `json:"reason"`
}

// MerchantMapping resolves a domain to a known merchant and category.
// Domain is the natural key; lookups tolerate subdomains via substring
// containment in either direction.
type MerchantMapping struct {
	Domain              string `json:"domain"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	IsWarehouse         bool   `json:"is_warehouse"`
	ExcludedFromGrocery bool   `json:"excluded_from_grocery"`
	IsPartner           bool   `json:"is_partner"`
}

// CatalogSnapshot is the fully-materialized reference data handed to the
// engine per invocation. The engine treats it as immutable; a consistent
// snapshot per call is the store's responsibility.
type CatalogSnapshot struct {
	Cards      []Card              `json:"cards"`
	Rules      []RewardRule        `json:"rules"`
	Exclusions []MerchantExclusion `json:"exclusions"`
	Mappings   []MerchantMapping   `json:"mappings"`
}

// ============================================================
// Categories
// ============================================================

// Category slugs. General is the universal fallback: every card must
// resolve to some rate through it, defaulting to 1x when absent.
const (
	CategoryDining     = "dining"
	CategoryGroceries  = "groceries"
	CategoryTravel     = "travel"
	CategoryFlights    = "flights"
	CategoryHotels     = "hotels"
	CategoryGas        = "gas"
	CategoryTransit    = "transit"
	CategoryStreaming  = "streaming"
	CategoryDrugstores = "drugstores"
	CategoryOnline     = "online"
	CategoryShopping   = "shopping"
	CategoryGeneral    = "general"
)

// CategoryLabels maps category slugs to display labels.
var CategoryLabels = map[string]string{
	CategoryDining:     "Dining & Restaurants",
	CategoryGroceries:  "Groceries",
	CategoryTravel:     "Travel",
	CategoryFlights:    "Flights",
	CategoryHotels:     "Hotels",
	CategoryGas:        "Gas Stations",
	CategoryTransit:    "Transit & Rideshare",
	CategoryStreaming:  "Streaming & Entertainment",
	CategoryDrugstores: "Drugstores",
	CategoryOnline:     "Online Shopping",
	CategoryShopping:   "Retail Shopping",
	CategoryGeneral:    "Everything Else",
}

// CategoryOption pairs a category slug with its display label, as served
// by the catalog endpoint.
type CategoryOption struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// CategoryLabel returns the display label for a slug, falling back to the
// slug itself for values outside the enumeration.
func CategoryLabel(slug string) string {
	if label, ok := CategoryLabels[slug]; ok {
		return label
	}
	return slug
}
