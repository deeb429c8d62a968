package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/infra/observability"
	"github.com/cardwise/cardwise-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// An empty jwtSecret leaves the profile routes unauthenticated, which is
// the expected mode for local development.
func NewRouter(recSvc *service.Recommendation, profileSvc *service.Profile, metrics *observability.Metrics, logger *zap.Logger, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(recSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Recommendations
		r.Post("/recommendations", recommendHandler(recSvc, logger))

		// Card catalog
		r.Get("/catalog/cards", listCardsHandler(recSvc, logger))
		r.Get("/catalog/categories", listCategoriesHandler(recSvc))

		// Engine metrics
		r.Get("/metrics/engine", engineMetricsHandler(metrics))

		// Credit profile and pathway
		r.Group(func(r chi.Router) {
			if jwtSecret != "" {
				r.Use(JWTAuthMiddleware(jwtSecret, logger))
			}
			r.Get("/users/{userId}/credit-profile", getProfileHandler(profileSvc, logger))
			r.Put("/users/{userId}/credit-profile", putProfileHandler(profileSvc, logger))
			r.Get("/users/{userId}/credit-pathway", getPathwayHandler(profileSvc, logger))
		})
	})

	return r
}

// ============================================================
// Recommendations — POST /v1/recommendations
// ============================================================

type recommendationResponse struct {
	Recommendation *domain.Recommendation `json:"recommendation"`
}

func recommendHandler(svc *service.Recommendation, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/recommendations")
		defer span.End()

		var req domain.RecommendationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(attribute.Int("request.card_count", len(req.CardIDs)))

		rec, err := svc.Recommend(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		// A nil recommendation is a valid outcome: the request named no
		// usable cards. The envelope keeps the shape stable either way.
		writeJSON(w, http.StatusOK, recommendationResponse{Recommendation: rec})
	}
}

// ============================================================
// Catalog — GET /v1/catalog/cards, GET /v1/catalog/categories
// ============================================================

func listCardsHandler(svc *service.Recommendation, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/catalog/cards")
		defer span.End()

		cards, err := svc.ListCards(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
	}
}

func listCategoriesHandler(svc *service.Recommendation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"categories": svc.ListCategories()})
	}
}

// ============================================================
// Credit profile — GET/PUT /v1/users/{userId}/credit-profile
// ============================================================

// authorizeUser rejects requests whose authenticated subject does not
// match the addressed user. An empty subject means auth is disabled.
func authorizeUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	if sub := UserIDFromContext(r.Context()); sub != "" && sub != userID {
		writeError(w, http.StatusForbidden, "token subject does not match user")
		return false
	}
	return true
}

func getProfileHandler(svc *service.Profile, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/credit-profile")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))
		if !authorizeUser(w, r, userID) {
			return
		}

		view, err := svc.Get(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func putProfileHandler(svc *service.Profile, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/users/{userId}/credit-profile")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))
		if !authorizeUser(w, r, userID) {
			return
		}

		var update domain.CreditProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		view, err := svc.Upsert(ctx, userID, update)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

// ============================================================
// Credit pathway — GET /v1/users/{userId}/credit-pathway
// ============================================================

func getPathwayHandler(svc *service.Profile, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/credit-pathway")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))
		if !authorizeUser(w, r, userID) {
			return
		}

		pathway, err := svc.GetCreditPathway(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, pathway)
	}
}

// ============================================================
// Engine metrics — GET /v1/metrics/engine
// ============================================================

func engineMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetEngineSnapshot())
	}
}

// ============================================================
// Health
// ============================================================

func healthzHandler(recSvc *service.Recommendation, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "cardwise-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if recSvc != nil {
			start := time.Now()
			_, err := recSvc.ListCards(ctx)
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				logger.Warn("health check: catalog unreachable", zap.Error(err))
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "catalog", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
