package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const testPayload = `{"base":"USD","date":"2026-03-10","rates":{"USD":1,"UAH":41.5,"EUR":0.92}}`

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestFetchLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the provider payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(testPayload))
		}))
		defer server.Close()

		client := NewClient(nil, server.URL, 0)
		rates, err := client.FetchLatest(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rates) != 3 {
			t.Fatalf("expected 3 rates, got %d", len(rates))
		}
		if !rates["UAH"].Equal(decimal.RequireFromString("41.5")) {
			t.Errorf("expected UAH 41.5, got %s", rates["UAH"])
		}
	})

	t.Run("serves from cache after the provider goes away", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(testPayload))
		}))

		client := NewClient(newTestRedis(t), server.URL, time.Hour)
		if _, err := client.FetchLatest(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		server.Close()

		rates, err := client.FetchLatest(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected one upstream call, got %d", calls)
		}
		if !rates["EUR"].Equal(decimal.RequireFromString("0.92")) {
			t.Errorf("expected EUR 0.92, got %s", rates["EUR"])
		}
	})

	t.Run("non-200 responses are errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(nil, server.URL, 0)
		if _, err := client.FetchLatest(ctx); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("an empty rate map is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"base":"USD","rates":{}}`))
		}))
		defer server.Close()

		client := NewClient(nil, server.URL, 0)
		if _, err := client.FetchLatest(ctx); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("an unreachable provider is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewClient(nil, server.URL, 0)
		if _, err := client.FetchLatest(ctx); err == nil {
			t.Fatal("expected an error")
		}
	})
}
