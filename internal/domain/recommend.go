package domain

import "time"

// ============================================================
// Merchant resolution
// ============================================================

// Confidence indicates how the merchant/category was resolved.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // known merchant mapping
	ConfidenceMedium Confidence = "medium" // keyword pattern match
	ConfidenceLow    Confidence = "low"    // fell through to general
)

// MerchantInfo is the result of resolving a raw URL or domain string.
type MerchantInfo struct {
	Domain              string     `json:"domain"`
	Name                string     `json:"name"`
	Category            string     `json:"category"`
	Confidence          Confidence `json:"confidence"`
	Known               bool       `json:"known"` // true when matched against the mapping table
	IsWarehouse         bool       `json:"is_warehouse"`
	ExcludedFromGrocery bool       `json:"excluded_from_grocery"`
	IsPartner           bool       `json:"is_partner"`
}

// ============================================================
// Recommendation
// ============================================================

// CardAnalysis is the per-card outcome of the reward resolver.
type CardAnalysis struct {
	Card       Card    `json:"card"`
	Multiplier float64 `json:"multiplier"`
	Excluded   bool    `json:"excluded"`
	Reason     string  `json:"reason,omitempty"`
}

// Recommendation is the request-scoped answer to "which card should I use
// at this merchant". Alternatives are ranked best to worst.
type Recommendation struct {
	ID            string         `json:"id"`
	Merchant      MerchantInfo   `json:"merchant"`
	Category      string         `json:"category"`
	CategoryLabel string         `json:"category_label"`
	Card          Card           `json:"card"`
	Multiplier    float64        `json:"multiplier"`
	Excluded      bool           `json:"excluded"`
	Reason        string         `json:"reason"`
	Confidence    Confidence     `json:"confidence"`
	Alternatives  []CardAnalysis `json:"alternatives"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// RecommendationRequest is the payload for POST /v1/recommendations.
type RecommendationRequest struct {
	URL     string   `json:"url"`
	CardIDs []string `json:"card_ids"`
}
