// Package catalog ships the built-in card catalog. It backs the SQLite
// seed and serves as the fallback snapshot when no external store is
// configured.
package catalog

import "github.com/cardwise/cardwise-api/internal/domain"

// Seed returns a fresh copy of the built-in catalog snapshot. Callers
// may mutate the result freely.
func Seed() *domain.CatalogSnapshot {
	return &domain.CatalogSnapshot{
		Cards:      seedCards(),
		Rules:      seedRules(),
		Exclusions: seedExclusions(),
		Mappings:   seedMappings(),
	}
}

func seedCards() []domain.Card {
	return []domain.Card{
		{ID: "amex-gold", Issuer: "American Express", Name: "American Express Gold", AnnualFeeCents: 32500, Network: "amex", Active: true},
		{ID: "amex-blue-cash-preferred", Issuer: "American Express", Name: "Blue Cash Preferred", AnnualFeeCents: 9500, Network: "amex", Active: true},
		{ID: "chase-sapphire-preferred", Issuer: "Chase", Name: "Chase Sapphire Preferred", AnnualFeeCents: 9500, Network: "visa", Active: true},
		{ID: "chase-freedom-unlimited", Issuer: "Chase", Name: "Chase Freedom Unlimited", AnnualFeeCents: 0, Network: "visa", Active: true},
		{ID: "citi-custom-cash", Issuer: "Citi", Name: "Citi Custom Cash", AnnualFeeCents: 0, Network: "mastercard", Active: true},
		{ID: "citi-double-cash", Issuer: "Citi", Name: "Citi Double Cash", AnnualFeeCents: 0, Network: "mastercard", Active: true},
		{ID: "capitalone-savor", Issuer: "Capital One", Name: "Capital One Savor", AnnualFeeCents: 0, Network: "mastercard", Active: true},
		{ID: "capitalone-venture-x", Issuer: "Capital One", Name: "Capital One Venture X", AnnualFeeCents: 39500, Network: "visa", Active: true},
		{ID: "discover-it", Issuer: "Discover", Name: "Discover it Cash Back", AnnualFeeCents: 0, Network: "discover", Active: true},
		{ID: "usbank-cash-plus", Issuer: "U.S. Bank", Name: "U.S. Bank Cash+", AnnualFeeCents: 0, Network: "visa", Active: true},
		{ID: "wf-active-cash", Issuer: "Wells Fargo", Name: "Wells Fargo Active Cash", AnnualFeeCents: 0, Network: "visa", Active: true},
		{ID: "boa-customized-cash", Issuer: "Bank of America", Name: "Customized Cash Rewards", AnnualFeeCents: 0, Network: "visa", Active: false},
	}
}

func seedRules() []domain.RewardRule {
	return []domain.RewardRule{
		// American Express Gold
		{CardID: "amex-gold", Category: domain.CategoryDining, Multiplier: 4},
		{CardID: "amex-gold", Category: domain.CategoryGroceries, Multiplier: 4, CapAmountCents: 2500000, CapPeriod: "yearly", Exclusions: []string{"Costco", "Walmart", "Target"}},
		{CardID: "amex-gold", Category: domain.CategoryFlights, Multiplier: 3},
		{CardID: "amex-gold", Category: domain.CategoryGeneral, Multiplier: 1},

		// Blue Cash Preferred
		{CardID: "amex-blue-cash-preferred", Category: domain.CategoryGroceries, Multiplier: 6, CapAmountCents: 600000, CapPeriod: "yearly", Exclusions: []string{"Costco", "Walmart", "Target"}},
		{CardID: "amex-blue-cash-preferred", Category: domain.CategoryStreaming, Multiplier: 6},
		{CardID: "amex-blue-cash-preferred", Category: domain.CategoryTransit, Multiplier: 3},
		{CardID: "amex-blue-cash-preferred", Category: domain.CategoryGas, Multiplier: 3},
		{CardID: "amex-blue-cash-preferred", Category: domain.CategoryGeneral, Multiplier: 1},

		// Chase Sapphire Preferred
		{CardID: "chase-sapphire-preferred", Category: domain.CategoryDining, Multiplier: 3},
		{CardID: "chase-sapphire-preferred", Category: domain.CategoryStreaming, Multiplier: 3},
		{CardID: "chase-sapphire-preferred", Category: domain.CategoryTravel, Multiplier: 2},
		{CardID: "chase-sapphire-preferred", Category: domain.CategoryGeneral, Multiplier: 1},

		// Chase Freedom Unlimited
		{CardID: "chase-freedom-unlimited", Category: domain.CategoryDining, Multiplier: 3},
		{CardID: "chase-freedom-unlimited", Category: domain.CategoryDrugstores, Multiplier: 3},
		{CardID: "chase-freedom-unlimited", Category: domain.CategoryGeneral, Multiplier: 1.5},

		// Citi Custom Cash: 5x on the top eligible category each cycle.
		// Modeled here on dining, the most common top category.
		{CardID: "citi-custom-cash", Category: domain.CategoryDining, Multiplier: 5, CapAmountCents: 50000, CapPeriod: "monthly"},
		{CardID: "citi-custom-cash", Category: domain.CategoryGeneral, Multiplier: 1},

		// Citi Double Cash
		{CardID: "citi-double-cash", Category: domain.CategoryGeneral, Multiplier: 2},

		// Capital One Savor
		{CardID: "capitalone-savor", Category: domain.CategoryDining, Multiplier: 3},
		{CardID: "capitalone-savor", Category: domain.CategoryGroceries, Multiplier: 3, Exclusions: []string{"Costco", "Sam's Club"}},
		{CardID: "capitalone-savor", Category: domain.CategoryStreaming, Multiplier: 3},
		{CardID: "capitalone-savor", Category: domain.CategoryGeneral, Multiplier: 1},

		// Capital One Venture X
		{CardID: "capitalone-venture-x", Category: domain.CategoryTravel, Multiplier: 5, Conditions: "booked through the issuer travel portal"},
		{CardID: "capitalone-venture-x", Category: domain.CategoryGeneral, Multiplier: 2},

		// Discover it: rotating 5% categories, modeled on groceries.
		{CardID: "discover-it", Category: domain.CategoryGroceries, Multiplier: 5, CapAmountCents: 150000, CapPeriod: "quarterly", Conditions: "activation required each quarter"},
		{CardID: "discover-it", Category: domain.CategoryGeneral, Multiplier: 1},

		// U.S. Bank Cash+: two chosen 5% categories.
		{CardID: "usbank-cash-plus", Category: domain.CategoryStreaming, Multiplier: 5, CapAmountCents: 200000, CapPeriod: "quarterly"},
		{CardID: "usbank-cash-plus", Category: domain.CategoryTransit, Multiplier: 5, CapAmountCents: 200000, CapPeriod: "quarterly"},
		{CardID: "usbank-cash-plus", Category: domain.CategoryGeneral, Multiplier: 1},

		// Wells Fargo Active Cash
		{CardID: "wf-active-cash", Category: domain.CategoryGeneral, Multiplier: 2},

		// Customized Cash Rewards (inactive card, kept for catalog parity)
		{CardID: "boa-customized-cash", Category: domain.CategoryOnline, Multiplier: 3},
		{CardID: "boa-customized-cash", Category: domain.CategoryGeneral, Multiplier: 1},
	}
}

func seedExclusions() []domain.MerchantExclusion {
	return []domain.MerchantExclusion{
		{CardID: "amex-gold", MerchantPattern: "costco", Reason: "Costco does not code as a supermarket on American Express"},
		{CardID: "amex-gold", MerchantPattern: "walmart", Reason: "Walmart superstores do not code as supermarkets"},
		{CardID: "amex-blue-cash-preferred", MerchantPattern: "costco", Reason: "Costco does not accept American Express"},
		{CardID: "amex-blue-cash-preferred", MerchantPattern: "walmart", Reason: "Walmart superstores do not code as supermarkets"},
		{CardID: "capitalone-savor", MerchantPattern: "costco", Reason: "Warehouse clubs are excluded from the grocery bonus"},
	}
}

func seedMappings() []domain.MerchantMapping {
	return []domain.MerchantMapping{
		{Domain: "amazon.com", Name: "Amazon", Category: domain.CategoryOnline},
		{Domain: "doordash.com", Name: "DoorDash", Category: domain.CategoryDining},
		{Domain: "ubereats.com", Name: "Uber Eats", Category: domain.CategoryDining},
		{Domain: "grubhub.com", Name: "Grubhub", Category: domain.CategoryDining},
		{Domain: "costco.com", Name: "Costco", Category: domain.CategoryGroceries, IsWarehouse: true, ExcludedFromGrocery: true},
		{Domain: "samsclub.com", Name: "Sam's Club", Category: domain.CategoryGroceries, IsWarehouse: true, ExcludedFromGrocery: true},
		{Domain: "walmart.com", Name: "Walmart", Category: domain.CategoryGroceries, ExcludedFromGrocery: true},
		{Domain: "target.com", Name: "Target", Category: domain.CategoryShopping, ExcludedFromGrocery: true},
		{Domain: "wholefoodsmarket.com", Name: "Whole Foods Market", Category: domain.CategoryGroceries},
		{Domain: "kroger.com", Name: "Kroger", Category: domain.CategoryGroceries},
		{Domain: "safeway.com", Name: "Safeway", Category: domain.CategoryGroceries},
		{Domain: "traderjoes.com", Name: "Trader Joe's", Category: domain.CategoryGroceries},
		{Domain: "netflix.com", Name: "Netflix", Category: domain.CategoryStreaming},
		{Domain: "spotify.com", Name: "Spotify", Category: domain.CategoryStreaming},
		{Domain: "hulu.com", Name: "Hulu", Category: domain.CategoryStreaming},
		{Domain: "delta.com", Name: "Delta Air Lines", Category: domain.CategoryFlights},
		{Domain: "united.com", Name: "United Airlines", Category: domain.CategoryFlights},
		{Domain: "southwest.com", Name: "Southwest Airlines", Category: domain.CategoryFlights},
		{Domain: "marriott.com", Name: "Marriott", Category: domain.CategoryHotels},
		{Domain: "hilton.com", Name: "Hilton", Category: domain.CategoryHotels},
		{Domain: "airbnb.com", Name: "Airbnb", Category: domain.CategoryTravel},
		{Domain: "expedia.com", Name: "Expedia", Category: domain.CategoryTravel},
		{Domain: "uber.com", Name: "Uber", Category: domain.CategoryTransit},
		{Domain: "lyft.com", Name: "Lyft", Category: domain.CategoryTransit},
		{Domain: "shell.com", Name: "Shell", Category: domain.CategoryGas},
		{Domain: "chevron.com", Name: "Chevron", Category: domain.CategoryGas},
		{Domain: "walgreens.com", Name: "Walgreens", Category: domain.CategoryDrugstores},
		{Domain: "cvs.com", Name: "CVS", Category: domain.CategoryDrugstores},
		{Domain: "starbucks.com", Name: "Starbucks", Category: domain.CategoryDining, IsPartner: true},
		{Domain: "chipotle.com", Name: "Chipotle", Category: domain.CategoryDining},
		{Domain: "bestbuy.com", Name: "Best Buy", Category: domain.CategoryShopping},
		{Domain: "nike.com", Name: "Nike", Category: domain.CategoryShopping},
	}
}
