package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSearch_ReturnsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "site:instagram.com test" {
			t.Errorf("query param q = %q", got)
		}
		if r.URL.Query().Get("key") == "" || r.URL.Query().Get("cx") == "" {
			t.Errorf("missing credentials in request: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"link":"https://www.instagram.com/a/","title":"t","snippet":"s"}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", "cx").WithEndpoint(srv.URL)
	items, err := c.Search(context.Background(), "site:instagram.com test")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].Link != "https://www.instagram.com/a/" {
		t.Fatalf("items = %+v", items)
	}
}

func TestClientSearch_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("key", "cx").WithEndpoint(srv.URL)
	items, err := c.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v, want none", items)
	}
}

func TestClientSearch_StructuredAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := NewClient("key", "cx").WithEndpoint(srv.URL)
	_, err := c.Search(context.Background(), "anything")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if !apiErr.QuotaExceeded() {
		t.Fatalf("QuotaExceeded() = false for %+v", apiErr)
	}
}

func TestClientSearch_UnparseableFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient("key", "cx").WithEndpoint(srv.URL)
	_, err := c.Search(context.Background(), "anything")
	if err == nil {
		t.Fatalf("want error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("plain transport failure must not be an *APIError: %v", err)
	}
}

func TestClientSearch_Unconfigured(t *testing.T) {
	c := NewClient("", "")
	if c.Configured() {
		t.Fatalf("Configured() = true for empty credentials")
	}
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatalf("want error from unconfigured client")
	}
}
