// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// CatalogStore retrieves the card catalog tables. Implemented by the
// Supabase adapter, the SQLite adapter, and the built-in seed.
type CatalogStore interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	ListRewardRules(ctx context.Context) ([]domain.RewardRule, error)
	ListMerchantExclusions(ctx context.Context) ([]domain.MerchantExclusion, error)
	ListMerchantMappings(ctx context.Context) ([]domain.MerchantMapping, error)
}

// ProfileStore persists user credit profiles.
type ProfileStore interface {
	GetCreditProfile(ctx context.Context, userID string) (*domain.CreditProfile, error)
	UpsertCreditProfile(ctx context.Context, profile *domain.CreditProfile) (*domain.CreditProfile, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// SnapshotCache holds the assembled catalog snapshot between requests.
// Implemented in-memory and by the Redis adapter.
type SnapshotCache interface {
	Get(ctx context.Context) (*domain.CatalogSnapshot, bool)
	Set(ctx context.Context, snapshot *domain.CatalogSnapshot)
}
