package cache

import (
	"context"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
)

const snapshotKey = "catalog:snapshot"

// SnapshotMemory adapts the generic in-memory cache to the snapshot cache
// port. Default choice for single-instance deployments.
type SnapshotMemory struct {
	inner *InMemory[*domain.CatalogSnapshot]
}

// NewSnapshotMemory creates an in-memory snapshot cache with the given TTL.
func NewSnapshotMemory(ttl time.Duration) *SnapshotMemory {
	return &SnapshotMemory{inner: New[*domain.CatalogSnapshot](ttl)}
}

// Get returns the cached snapshot, if fresh.
func (s *SnapshotMemory) Get(_ context.Context) (*domain.CatalogSnapshot, bool) {
	return s.inner.Get(snapshotKey)
}

// Set stores the snapshot.
func (s *SnapshotMemory) Set(_ context.Context, snapshot *domain.CatalogSnapshot) {
	s.inner.Set(snapshotKey, snapshot)
}
