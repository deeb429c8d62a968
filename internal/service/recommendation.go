package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/engine"
	"github.com/cardwise/cardwise-api/internal/infra/observability"
	"github.com/cardwise/cardwise-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/recommendation")

// Recommendation orchestrates merchant resolution, snapshot assembly and
// card selection. The engine itself is pure; this layer owns I/O.
type Recommendation struct {
	catalog   port.CatalogStore
	snapshots port.SnapshotCache
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewRecommendation creates the recommendation service with all
// dependencies injected.
func NewRecommendation(
	catalog port.CatalogStore,
	snapshots port.SnapshotCache,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Recommendation {
	return &Recommendation{
		catalog:   catalog,
		snapshots: snapshots,
		metrics:   metrics,
		logger:    logger,
	}
}

// Recommend answers "which of my cards should I use at this merchant".
// A nil result with a nil error means the request had no usable cards.
func (s *Recommendation) Recommend(ctx context.Context, req domain.RecommendationRequest) (*domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Recommendation.Recommend")
	defer span.End()
	span.SetAttributes(attribute.Int("request.card_count", len(req.CardIDs)))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("recommend", time.Since(start))
	}()

	if err := engine.ValidateURL(req.URL); err != nil {
		return nil, err
	}
	// Empty input is unresolvable, not invalid: answer null without
	// touching the store.
	if engine.NormalizeDomain(req.URL) == "" || len(req.CardIDs) == 0 {
		return nil, nil
	}

	snapshot, err := s.getSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	merchant := engine.ResolveMerchant(req.URL, snapshot.Mappings)
	span.SetAttributes(
		attribute.String("merchant.domain", merchant.Domain),
		attribute.String("merchant.category", merchant.Category),
	)

	candidates := filterCandidates(snapshot.Cards, req.CardIDs)
	rec := engine.Recommend(merchant, candidates, snapshot.Rules, snapshot.Exclusions)
	if rec == nil {
		s.logger.Info("no usable cards in request",
			zap.String("domain", merchant.Domain),
			zap.Strings("card_ids", req.CardIDs),
		)
		return nil, nil
	}

	rec.ID = uuid.NewString()
	rec.GeneratedAt = time.Now().UTC()
	s.metrics.IncrRecommendation(string(rec.Confidence), rec.Excluded)

	return rec, nil
}

// ListCards returns the card catalog roster.
func (s *Recommendation) ListCards(ctx context.Context) ([]domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Recommendation.ListCards")
	defer span.End()

	snapshot, err := s.getSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Cards, nil
}

// ListCategories returns the supported category slugs with display labels,
// sorted by slug for stable output.
func (s *Recommendation) ListCategories() []domain.CategoryOption {
	options := make([]domain.CategoryOption, 0, len(domain.CategoryLabels))
	for slug, label := range domain.CategoryLabels {
		options = append(options, domain.CategoryOption{Slug: slug, Label: label})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Slug < options[j].Slug })
	return options
}

// getSnapshot returns the cached catalog snapshot, assembling a fresh one
// from the store when the cache misses. The four tables are fetched
// concurrently; any failure fails the whole snapshot.
func (s *Recommendation) getSnapshot(ctx context.Context) (*domain.CatalogSnapshot, error) {
	if snapshot, ok := s.snapshots.Get(ctx); ok {
		s.metrics.IncrCacheHit("catalog")
		return snapshot, nil
	}
	s.metrics.IncrCacheMiss("catalog")

	ctx, span := tracer.Start(ctx, "Recommendation.fetchSnapshot")
	defer span.End()

	var snapshot domain.CatalogSnapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cards, err := s.catalog.ListCards(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("catalog")
			return fmt.Errorf("cards fetch: %w", err)
		}
		snapshot.Cards = cards
		return nil
	})
	g.Go(func() error {
		rules, err := s.catalog.ListRewardRules(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("catalog")
			return fmt.Errorf("reward rules fetch: %w", err)
		}
		snapshot.Rules = rules
		return nil
	})
	g.Go(func() error {
		exclusions, err := s.catalog.ListMerchantExclusions(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("catalog")
			return fmt.Errorf("merchant exclusions fetch: %w", err)
		}
		snapshot.Exclusions = exclusions
		return nil
	})
	g.Go(func() error {
		mappings, err := s.catalog.ListMerchantMappings(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("catalog")
			return fmt.Errorf("merchant mappings fetch: %w", err)
		}
		snapshot.Mappings = mappings
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("catalog snapshot assembly failed", zap.Error(err))
		return nil, err
	}

	s.snapshots.Set(ctx, &snapshot)
	return &snapshot, nil
}

// filterCandidates keeps the requested cards that exist in the catalog and
// are active, preserving catalog order.
func filterCandidates(cards []domain.Card, cardIDs []string) []domain.Card {
	requested := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		requested[id] = true
	}

	var candidates []domain.Card
	for _, card := range cards {
		if card.Active && requested[card.ID] {
			candidates = append(candidates, card)
		}
	}
	return candidates
}
