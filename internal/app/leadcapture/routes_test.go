package leadcapture

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/lead-capture/internal/cache"
	"github.com/magabrotheeeer/lead-capture/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lead-capture/internal/lib/catalog"
	"github.com/magabrotheeeer/lead-capture/internal/lib/jwt"
	"github.com/magabrotheeeer/lead-capture/internal/lib/quiz"
	authservice "github.com/magabrotheeeer/lead-capture/internal/services/auth"
	"github.com/magabrotheeeer/lead-capture/internal/services/leads"
	"github.com/magabrotheeeer/lead-capture/internal/services/notifier"
	"github.com/magabrotheeeer/lead-capture/internal/storage/memory"
)

func newTestServer(t *testing.T, limiter *middlewarectx.IPRateLimiter, opts ...func(*Deps)) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.New()

	quizzes, err := quiz.Load()
	require.NoError(t, err)
	cat, err := catalog.Load()
	require.NoError(t, err)

	deps := Deps{
		Leads:       leads.New(db, cache.Noop{}, notifier.NewDiscard(log), []string{"team@example.com"}, log),
		Auth:        authservice.New(db, authservice.NewLocal(bcrypt.MinCost), jwt.NewJWTMaker("test", time.Hour), log),
		DB:          db,
		Quizzes:     quizzes,
		Catalog:     cat,
		Limiter:     limiter,
		StorageType: "memory",
	}
	for _, opt := range opts {
		opt(&deps)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, log, deps)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestLeadFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", "", map[string]any{
		"firstName": "John", "lastName": "Doe", "email": "john@example.com",
		"message": "Hello", "privacyConsent": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["databaseStored"])
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, err := http.Get(srv.URL + "/api/admin/contacts")
	require.NoError(t, err)
	var contacts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	require.Len(t, contacts, 1)
	assert.Equal(t, "John Doe", contacts[0]["name"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/newsletter", "", map[string]string{"email": "ann@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/newsletter", "", map[string]string{"email": "ANN@example.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email is already subscribed to our newsletter.", body["message"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/request", "", map[string]any{
		"firstName": "John", "lastName": "Doe", "email": "john@example.com",
		"company": "Acme", "requestTypes": "demo",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/admin/requests")
	require.NoError(t, err)
	var requests []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&requests))
	resp.Body.Close()
	require.Len(t, requests, 1)
	assert.Equal(t, "127.0.0.1", requests[0]["ipAddress"])
	assert.Equal(t, "pending", requests[0]["status"])
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	creds := map[string]string{"username": "ann", "email": "ann@example.com", "password": "secret1"}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account created successfully", body["message"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", creds)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{"username": "ann", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{"username": "ann", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "ann", user["username"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access token required", body["message"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, middlewarectx.NewIPRateLimiter(2, middlewarectx.RateLimitWindow))

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/api/quizzes")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/solutions", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "15 minutes", body["retryAfter"])

	// вне /api лимит не действует
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func getForwarded(t *testing.T, url, forwardedFor string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantLast   int
	}{
		{
			name:     "header ignored without trusted proxy",
			wantLast: http.StatusTooManyRequests,
		},
		{
			name:       "header used behind trusted proxy",
			trustProxy: true,
			wantLast:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, middlewarectx.NewIPRateLimiter(2, middlewarectx.RateLimitWindow), func(d *Deps) {
				d.TrustProxy = tt.trustProxy
			})

			assert.Equal(t, http.StatusOK, getForwarded(t, srv.URL+"/api/quizzes", "203.0.113.1"))
			assert.Equal(t, http.StatusOK, getForwarded(t, srv.URL+"/api/quizzes", "203.0.113.2"))
			assert.Equal(t, tt.wantLast, getForwarded(t, srv.URL+"/api/quizzes", "203.0.113.3"))
		})
	}
}

func TestBodyLimit(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", "", map[string]any{
		"name": "John Doe", "email": "john@example.com",
		"message": strings.Repeat("a", MaxBodyBytes+1), "privacyConsent": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid form data", body["message"])

	resp, err := http.Get(srv.URL + "/api/admin/contacts")
	require.NoError(t, err)
	var contacts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	assert.Empty(t, contacts)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
