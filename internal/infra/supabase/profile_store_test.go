package supabase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/infra/resilience"
	"github.com/cardwise/cardwise-api/internal/infra/supabase"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func newProfileClient(serverURL, name string) (*supabase.Client, *gobreaker.CircuitBreaker) {
	cb := resilience.NewCircuitBreaker(name)
	cfg := resilience.Config{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}
	return supabase.NewClient(httpClient, serverURL, "anon-key", "service-key", cb, cfg, zap.NewNop()), cb
}

func TestGetCreditProfile_MissIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client, cb := newProfileClient(server.URL, "profile-miss")

	_, err := client.GetCreditProfile(context.Background(), "new-user")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// A miss is a normal outcome: exactly one request, no backoff loop.
	if got := requests.Load(); got != 1 {
		t.Errorf("expected 1 store call for a miss, got %d", got)
	}
	if counts := cb.Counts(); counts.TotalFailures != 0 {
		t.Errorf("a miss must not count as a breaker failure, got %+v", counts)
	}
}

func TestGetCreditProfile_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{{
			"user_id":          "user-1",
			"experience_level": "advanced",
			"carry_balance":    true,
			"created_at":       "2026-01-02T15:04:05Z",
			"updated_at":       "2026-01-03T15:04:05Z",
		}})
	}))
	defer server.Close()

	client, _ := newProfileClient(server.URL, "profile-found")

	profile, err := client.GetCreditProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.UserID != "user-1" || profile.ExperienceLevel != domain.ExperienceAdvanced {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if !profile.CarryBalance {
		t.Error("carry balance not mapped")
	}
	if profile.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
}

func TestGetCreditProfile_BackendFailureIsRetriedAndCounted(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, cb := newProfileClient(server.URL, "profile-failure")

	_, err := client.GetCreditProfile(context.Background(), "user-1")
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}

	if got := requests.Load(); got != 4 {
		t.Errorf("expected initial call plus 3 retries, got %d", got)
	}
	if counts := cb.Counts(); counts.TotalFailures != 1 {
		t.Errorf("backend failure must count against the breaker, got %+v", counts)
	}
}
