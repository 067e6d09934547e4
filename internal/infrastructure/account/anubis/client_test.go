package anubis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/darts-league/internal/domain/user"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"github.com/riskibarqy/darts-league/internal/usecase"
)

func newTestClient(url, adminKey string, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(Config{
		BaseURL:        url,
		IntrospectPath: "/v1/auth/introspect",
		AdminKey:       adminKey,
		CircuitBreaker: breaker,
	}, logging.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	raw, _ := sonic.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func TestClientVerifyAccessToken_SendsAdminKeyAndParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-admin-key"); got != "admin-secret" {
			t.Errorf("unexpected x-admin-key: %s", got)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Errorf("unexpected token value: %s", req["token"])
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"active":  true,
			"user_id": "user-123",
			"team_id": "team-dartmoor",
			"roles":   []string{"captain", "Admin"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "admin-secret", resilience.CircuitBreakerConfig{})
	principal, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}

	if principal.UserID != "user-123" {
		t.Fatalf("unexpected user id: %s", principal.UserID)
	}
	if principal.TeamID != "team-dartmoor" {
		t.Fatalf("unexpected team id: %s", principal.TeamID)
	}
	if principal.Role != user.RoleAdmin {
		t.Fatalf("unexpected role: %s", principal.Role)
	}
}

func TestClientVerifyAccessToken_InactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "admin-secret", resilience.CircuitBreakerConfig{})
	_, err := client.VerifyAccessToken(context.Background(), "invalid-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClientVerifyAccessToken_ForbiddenMappedToDependencyUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "wrong-key", resilience.CircuitBreakerConfig{})
	_, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestClientVerifyAccessToken_UsesInMemoryCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"active": true, "user_id": "user-cache"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "admin-secret", resilience.CircuitBreakerConfig{})
	for i := 0; i < 2; i++ {
		principal, err := client.VerifyAccessToken(context.Background(), "cached-token")
		if err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
		if principal.UserID != "user-cache" {
			t.Fatalf("unexpected user id: %s", principal.UserID)
		}
	}

	if calls.Load() != 1 {
		t.Fatalf("expected one introspection call with cache, got %d", calls.Load())
	}
}

func TestClientVerifyAccessToken_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "admin-secret", resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
	})

	for i := 0; i < 3; i++ {
		_, err := client.VerifyAccessToken(context.Background(), "token-abc")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}

	if calls.Load() != 2 {
		t.Fatalf("expected breaker to stop calls after threshold, got %d calls", calls.Load())
	}
}

func TestIntrospectResponseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roles []string
		want  string
	}{
		{roles: nil, want: ""},
		{roles: []string{"captain"}, want: ""},
		{roles: []string{"ReadOnly"}, want: user.RoleReadOnly},
		{roles: []string{"readonly", "admin"}, want: user.RoleAdmin},
	}
	for _, tc := range tests {
		if got := (introspectResponse{Roles: tc.roles}).role(); got != tc.want {
			t.Fatalf("roles=%v: got %q want %q", tc.roles, got, tc.want)
		}
	}
}
