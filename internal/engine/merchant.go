// Package engine implements the deterministic decision core: merchant
// resolution, reward-rate resolution, best-card selection, credit-state
// derivation and credit-pathway generation. Every function is pure and
// synchronous; all reference data is passed in as explicit arguments.
package engine

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// unsafeSchemes are refused outright by ValidateURL. This is the one place
// bad input is rejected instead of normalized.
var unsafeSchemes = []string{"javascript:", "data:", "file:", "vbscript:", "about:"}

// keywordPattern classifies an unknown domain by text pattern.
type keywordPattern struct {
	re       *regexp.Regexp
	category string
}

// keywordPatterns are evaluated in order, first match wins. The priority
// order is part of the contract: reordering silently changes how unknown
// merchants classify.
var keywordPatterns = []keywordPattern{
	{regexp.MustCompile(`food|eat|restaurant|pizza|burger|taco|sushi|grill|kitchen|cafe|coffee|dash|grub`), domain.CategoryDining},
	{regexp.MustCompile(`grocer|market|fresh|foods|supermarket`), domain.CategoryGroceries},
	{regexp.MustCompile(`cloth|wear|apparel|fashion|shoe|style`), domain.CategoryShopping},
	{regexp.MustCompile(`stream|movie|music|play|game|video|tv`), domain.CategoryStreaming},
	{regexp.MustCompile(`travel|hotel|flight|air|trip|vacation|booking`), domain.CategoryTravel},
	{regexp.MustCompile(`pharma|drug|rx|health`), domain.CategoryDrugstores},
	{regexp.MustCompile(`gas|fuel|petrol`), domain.CategoryGas},
}

// ValidateURL rejects inputs that must not be resolved at all. Only
// dangerous schemes return an error; empty or garbled input is left for
// NormalizeDomain to absorb into a null or best-effort result.
func ValidateURL(raw string) error {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(trimmed, scheme) {
			return &domain.ErrUnsafeInput{Field: "url", Reason: "scheme '" + strings.TrimSuffix(scheme, ":") + "' is not allowed"}
		}
	}
	return nil
}

// NormalizeDomain lowercases the input, strips scheme and www prefix, and
// keeps the host portion only. It never fails: unparseable input falls
// back to manual prefix stripping truncated at the first slash.
func NormalizeDomain(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return ""
	}

	parseTarget := s
	if !strings.Contains(parseTarget, "://") {
		parseTarget = "https://" + parseTarget
	}

	if u, err := url.Parse(parseTarget); err == nil && u.Host != "" {
		host := u.Host
		if i := strings.Index(host, ":"); i >= 0 {
			host = host[:i]
		}
		return strings.TrimPrefix(host, "www.")
	}

	// Manual fallback for inputs the URL parser chokes on.
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return s
}

// ResolveMerchant resolves a raw URL or domain against the mapping table.
// Known mappings win with high confidence; unknown domains fall through to
// keyword classification (medium) and finally to general (low). It never
// fails: empty or garbled input still yields a best-effort result.
func ResolveMerchant(raw string, mappings []domain.MerchantMapping) domain.MerchantInfo {
	normalized := NormalizeDomain(raw)

	// Bidirectional substring containment tolerates regional and
	// subdomain variants without exact-match brittleness.
	if normalized != "" {
		for _, m := range mappings {
			mapped := strings.ToLower(m.Domain)
			if mapped == "" {
				continue
			}
			if strings.Contains(normalized, mapped) || strings.Contains(mapped, normalized) {
				return domain.MerchantInfo{
					Domain:              normalized,
					Name:                m.Name,
					Category:            m.Category,
					Confidence:          domain.ConfidenceHigh,
					Known:               true,
					IsWarehouse:         m.IsWarehouse,
					ExcludedFromGrocery: m.ExcludedFromGrocery,
					IsPartner:           m.IsPartner,
				}
			}
		}
	}

	info := domain.MerchantInfo{
		Domain:     normalized,
		Name:       displayName(normalized),
		Category:   domain.CategoryGeneral,
		Confidence: domain.ConfidenceLow,
	}
	for _, p := range keywordPatterns {
		if p.re.MatchString(normalized) {
			info.Category = p.category
			info.Confidence = domain.ConfidenceMedium
			break
		}
	}
	return info
}

// displayName derives a readable merchant name from the domain's leading
// label ("doordash.com" -> "Doordash").
func displayName(normalized string) string {
	label := normalized
	if i := strings.Index(label, "."); i >= 0 {
		label = label[:i]
	}
	if label == "" {
		return "Unknown Merchant"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
