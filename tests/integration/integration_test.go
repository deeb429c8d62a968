package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cardwise/cardwise-api/internal/catalog"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/handler"
	"github.com/cardwise/cardwise-api/internal/infra/cache"
	"github.com/cardwise/cardwise-api/internal/infra/observability"
	"github.com/cardwise/cardwise-api/internal/infra/resilience"
	"github.com/cardwise/cardwise-api/internal/infra/supabase"
	"github.com/cardwise/cardwise-api/internal/service"

	"go.uber.org/zap"
)

// newMockSupabase serves the seeded catalog tables and an in-memory
// credit_profiles table over the PostgREST wire shapes.
func newMockSupabase(t *testing.T) *httptest.Server {
	t.Helper()

	seed := catalog.Seed()

	var mu sync.Mutex
	profiles := make(map[string]map[string]any)

	writeRows := func(w http.ResponseWriter, rows any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/cards", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, seed.Cards)
	})
	mux.HandleFunc("/rest/v1/reward_rules", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, seed.Rules)
	})
	mux.HandleFunc("/rest/v1/merchant_exclusions", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, seed.Exclusions)
	})
	mux.HandleFunc("/rest/v1/merchant_mappings", func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, seed.Mappings)
	})
	mux.HandleFunc("/rest/v1/credit_profiles", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodPost:
			var row map[string]any
			if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			userID, _ := row["user_id"].(string)
			profiles[userID] = row
			w.WriteHeader(http.StatusCreated)
			writeRows(w, []map[string]any{row})
		default:
			userID := strings.TrimPrefix(r.URL.Query().Get("user_id"), "eq.")
			if row, ok := profiles[userID]; ok {
				writeRows(w, []map[string]any{row})
				return
			}
			writeRows(w, []map[string]any{})
		}
	})

	return httptest.NewServer(mux)
}

func newTestStack(t *testing.T, supabaseURL string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("integration-" + t.Name())
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	client := supabase.NewClient(httpClient, supabaseURL, "anon-key", "service-key", cb, cfg, logger)

	recSvc := service.NewRecommendation(client, cache.NewSnapshotMemory(time.Minute), metrics, logger)
	profileSvc := service.NewProfile(client, metrics, logger)

	return handler.NewRouter(recSvc, profileSvc, metrics, logger, "")
}

// TestIntegration_FullFlow runs a recommendation, a profile write and a
// pathway read against a mocked Supabase backend.
func TestIntegration_FullFlow(t *testing.T) {
	server := newMockSupabase(t)
	defer server.Close()

	router := newTestStack(t, server.URL)

	// --- Recommendation ---
	body, _ := json.Marshal(domain.RecommendationRequest{
		URL:     "https://www.doordash.com/store/123",
		CardIDs: []string{"amex-gold", "citi-double-cash"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var recResp struct {
		Recommendation *domain.Recommendation `json:"recommendation"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&recResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if recResp.Recommendation == nil {
		t.Fatal("expected a recommendation")
	}
	if recResp.Recommendation.Card.ID != "amex-gold" {
		t.Errorf("expected amex-gold for dining, got %s", recResp.Recommendation.Card.ID)
	}
	if recResp.Recommendation.ID == "" {
		t.Error("expected a generated recommendation ID")
	}

	// --- Profile write ---
	body, _ = json.Marshal(map[string]any{
		"experience_level": "intermediate",
		"credit_history":   "established",
		"intent":           "rewards",
	})
	req = httptest.NewRequest(http.MethodPut, "/v1/users/user-42/credit-profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("profile write: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var view domain.CreditProfileView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode profile view: %v", err)
	}
	if view.Profile.UserID != "user-42" {
		t.Errorf("user id = %s", view.Profile.UserID)
	}
	if view.State.Stage == "" {
		t.Error("expected a derived stage")
	}

	// --- Pathway read against the stored profile ---
	req = httptest.NewRequest(http.MethodGet, "/v1/users/user-42/credit-pathway", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("pathway read: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var pathway domain.CreditPathway
	if err := json.NewDecoder(rec.Body).Decode(&pathway); err != nil {
		t.Fatalf("failed to decode pathway: %v", err)
	}
	if pathway.Stage != domain.PathwayOptimizer {
		t.Errorf("stage = %s, want optimizer", pathway.Stage)
	}
	if len(pathway.Timeline) != 3 {
		t.Errorf("timeline length = %d", len(pathway.Timeline))
	}
}

// TestIntegration_BackendDown verifies that a failing catalog backend
// surfaces as a gateway error instead of a panic or a silent empty answer.
func TestIntegration_BackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	router := newTestStack(t, server.URL)

	body, _ := json.Marshal(domain.RecommendationRequest{
		URL:     "doordash.com",
		CardIDs: []string{"amex-gold"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for failing backend, got %d", rec.Code)
	}
}

// TestIntegration_ProfileNotFound tests 404 handling for a missing profile.
func TestIntegration_ProfileNotFound(t *testing.T) {
	server := newMockSupabase(t)
	defer server.Close()

	router := newTestStack(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/nonexistent/credit-profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing profile, got %d", rec.Code)
	}
}
