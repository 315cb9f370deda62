package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func countingHandler(hits *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"hits":%d}`, *hits)
	})
}

func TestResponseCacheServesFromCache(t *testing.T) {
	var hits int
	cache := NewResponseCache(time.Minute)
	handler := cache.Middleware(countingHandler(&hits))

	req := httptest.NewRequest(http.MethodGet, "/results/1", nil)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	if hits != 1 {
		t.Fatalf("backend hits = %d, want 1", hits)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("cached body = %q, want %q", second.Body.String(), first.Body.String())
	}
	if second.Header().Get("X-Cache") != "HIT" {
		t.Error("cached response should carry X-Cache: HIT")
	}
}

func TestResponseCacheSkipsNonGET(t *testing.T) {
	var hits int
	cache := NewResponseCache(time.Minute)
	handler := cache.Middleware(countingHandler(&hits))

	req := httptest.NewRequest(http.MethodPost, "/results", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if hits != 2 {
		t.Errorf("POST requests must not be cached, backend hits = %d", hits)
	}
}

func TestResponseCacheKeyIncludesQuery(t *testing.T) {
	var hits int
	cache := NewResponseCache(time.Minute)
	handler := cache.Middleware(countingHandler(&hits))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events?page=1", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events?page=2", nil))

	if hits != 2 {
		t.Errorf("different query strings must not share entries, hits = %d", hits)
	}
}

func TestResponseCacheInvalidate(t *testing.T) {
	var hits int
	cache := NewResponseCache(time.Minute)
	handler := cache.Middleware(countingHandler(&hits))

	req := httptest.NewRequest(http.MethodGet, "/results/1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	cache.Invalidate()
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if hits != 2 {
		t.Errorf("invalidated entry should be refetched, hits = %d", hits)
	}
}

func TestResponseCacheDoesNotCacheErrors(t *testing.T) {
	var hits int
	cache := NewResponseCache(time.Minute)
	handler := cache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "not found", http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/results/999", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if hits != 2 {
		t.Errorf("error responses must not be cached, hits = %d", hits)
	}
}
