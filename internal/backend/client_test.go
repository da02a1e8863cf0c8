package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// ============================================================
// Request shaping and auth
// ============================================================

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotMethod = r.Method
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-123")
	var out []struct{}
	if err := c.Post(context.Background(), "/rest/v1/projects", map[string]string{"name": "x"}, &out); err != nil {
		t.Fatalf("post: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %s", gotMethod)
	}
	if got.Get("apikey") != "key-123" {
		t.Fatalf("apikey header = %q", got.Get("apikey"))
	}
	if got.Get("Authorization") != "Bearer key-123" {
		t.Fatalf("authorization header = %q", got.Get("Authorization"))
	}
	if got.Get("Prefer") != "return=representation" {
		t.Fatalf("prefer header = %q", got.Get("Prefer"))
	}
	if got.Get("Content-Type") != "application/json" {
		t.Fatalf("content type = %q", got.Get("Content-Type"))
	}
	if got.Get("X-Client-Request-Id") == "" {
		t.Fatal("request id header missing")
	}
}

func TestGetEncodesQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	q := url.Values{}
	q.Set("project_id", "eq.7")
	q.Set("order", "created_at.desc")

	var out []struct{}
	if err := c.Get(context.Background(), "/rest/v1/notifications", q, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotQuery.Get("project_id") != "eq.7" {
		t.Fatalf("query = %v", gotQuery)
	}
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL, "bad-key")
		err := c.Get(context.Background(), "/rest/v1/projects", nil, &[]struct{}{})
		srv.Close()

		if !IsAuthError(err) {
			t.Fatalf("status %d: err = %v, want AuthError", status, err)
		}
	}
}

func TestErrorEnvelopeMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"column does not exist","code":"42703"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	err := c.Get(context.Background(), "/rest/v1/projects", nil, &[]struct{}{})
	if err == nil || !strings.Contains(err.Error(), "column does not exist") {
		t.Fatalf("err = %v, want the envelope message", err)
	}
}

// ============================================================
// Rate limiting
// ============================================================

func TestRetriesAfterRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	var out []struct {
		ID FlexID `json:"id"`
	}
	if err := c.Get(context.Background(), "/rest/v1/projects", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if len(out) != 1 || out[0].ID != "1" {
		t.Fatalf("out = %+v", out)
	}
}

func TestRateLimitGivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	err := c.Get(context.Background(), "/rest/v1/projects", nil, &[]struct{}{})
	if err == nil || !strings.Contains(err.Error(), "max retries") {
		t.Fatalf("err = %v, want max retries", err)
	}
}
