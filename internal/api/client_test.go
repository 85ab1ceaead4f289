package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/ico-resolver/internal/ratelimit"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("coingecko", "https://api.example.com")

		if c.Name() != "coingecko" {
			t.Errorf("Name() = %q, want %q", c.Name(), "coingecko")
		}
		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.limiter == nil {
			t.Error("limiter should not be nil")
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("x", "https://api.example.com", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with headers", func(t *testing.T) {
		c := NewClient("x", "https://api.example.com",
			WithHeader("X-CMC_PRO_API_KEY", "secret"),
			WithUserAgent("resolver-test/1.0"),
		)
		if got := c.header.Get("X-CMC_PRO_API_KEY"); got != "secret" {
			t.Errorf("X-CMC_PRO_API_KEY = %q, want %q", got, "secret")
		}
		if got := c.header.Get("User-Agent"); got != "resolver-test/1.0" {
			t.Errorf("User-Agent = %q, want %q", got, "resolver-test/1.0")
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("x", "https://api.example.com", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("nil logger keeps default", func(t *testing.T) {
		c := NewClient("x", "https://api.example.com", WithLogger(nil))
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("x", "https://api.example.com", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{
			Source:     "coinpaprika",
			StatusCode: 404,
			Message:    "Not Found",
		}
		expected := "coinpaprika api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsNotFound by status", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{400, true},
			{401, true},
			{403, true},
			{404, true},
			{499, true},
			{429, false},
			{500, false},
			{502, false},
			{503, false},
			{200, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsNotFound(); got != tt.expected {
				t.Errorf("IsNotFound() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})

	t.Run("helpers unwrap", func(t *testing.T) {
		wrapped := fmt.Errorf("search: %w", &APIError{StatusCode: 400})
		if !IsNotFound(wrapped) {
			t.Error("IsNotFound(wrapped 400) = false, want true")
		}
		if StatusCode(wrapped) != 400 {
			t.Errorf("StatusCode(wrapped) = %d, want 400", StatusCode(wrapped))
		}
		plain := errors.New("dial tcp: connection refused")
		if IsNotFound(plain) {
			t.Error("IsNotFound(plain error) = true, want false")
		}
		if StatusCode(plain) != 0 {
			t.Errorf("StatusCode(plain) = %d, want 0", StatusCode(plain))
		}
	})
}

// TestDo tests the raw request path.
func TestDo(t *testing.T) {
	t.Run("default and per-request headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("User-Agent") != "ua/1" {
				t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), "ua/1")
			}
			if r.Header.Get("X-Extra") != "yes" {
				t.Errorf("X-Extra = %q, want %q", r.Header.Get("X-Extra"), "yes")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`ok`))
		}))
		defer server.Close()

		c := NewClient("x", server.URL, WithUserAgent("ua/1"))
		body, err := c.Do(context.Background(), Request{
			Method: http.MethodGet,
			Path:   "/test",
			Header: map[string]string{"X-Extra": "yes"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "ok" {
			t.Errorf("body = %q, want %q", string(body), "ok")
		}
	})

	t.Run("query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/search")
			}
			if r.URL.Query().Get("q") != "bit coin" {
				t.Errorf("q = %q, want %q", r.URL.Query().Get("q"), "bit coin")
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient("x", server.URL)
		_, err := c.Do(context.Background(), Request{
			Method: http.MethodGet,
			Path:   "/search",
			Query:  url.Values{"q": []string{"bit coin"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-2xx returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "bad key"}`))
		}))
		defer server.Close()

		c := NewClient("foundico", server.URL)
		_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 403 {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, 403)
		}
		if apiErr.Source != "foundico" {
			t.Errorf("Source = %q, want %q", apiErr.Source, "foundico")
		}
		if !strings.Contains(string(apiErr.Body), "bad key") {
			t.Errorf("Body should contain 'bad key', got %q", string(apiErr.Body))
		}
	})

	t.Run("no retry on 5xx", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient("x", server.URL)
		if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient("x", server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error should wrap context.Canceled, got %v", err)
		}
	})

	t.Run("limiter gates each call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient("x", server.URL, WithLimiter(ratelimit.Every(30*time.Millisecond)))
		start := time.Now()
		for i := 0; i < 3; i++ {
			if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
			t.Errorf("3 limited calls took %v, want >= 50ms", elapsed)
		}
	})
}

// TestGetJSON tests JSON decoding of GET responses.
func TestGetJSON(t *testing.T) {
	t.Run("decodes body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id": "bitcoin", "symbol": "btc"}`))
		}))
		defer server.Close()

		var out struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
		}
		c := NewClient("x", server.URL)
		if err := c.GetJSON(context.Background(), "/coins", nil, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.ID != "bitcoin" || out.Symbol != "btc" {
			t.Errorf("decoded = %+v, want bitcoin/btc", out)
		}
	})

	t.Run("per-request header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-CMC_PRO_API_KEY"); got != "k" {
				t.Errorf("X-CMC_PRO_API_KEY = %q, want %q", got, "k")
			}
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		var out map[string]any
		c := NewClient("x", server.URL)
		header := map[string]string{"X-CMC_PRO_API_KEY": "k"}
		if err := c.GetJSONWithHeader(context.Background(), "/", nil, header, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		var out map[string]any
		c := NewClient("x", server.URL)
		err := c.GetJSON(context.Background(), "/", nil, &out)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "unmarshal response") {
			t.Errorf("error should mention unmarshal, got %v", err)
		}
	})
}

// TestPostJSON tests JSON POST requests.
func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Signature") != "sig" {
			t.Errorf("X-Signature = %q, want sig", r.Header.Get("X-Signature"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"page":1}` {
			t.Errorf("body = %q, want %q", string(body), `{"page":1}`)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	c := NewClient("x", server.URL)
	err := c.PostJSON(context.Background(), "/icos/", []byte(`{"page":1}`), map[string]string{"X-Signature": "sig"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Error("OK = false, want true")
	}
}

// TestGetText tests raw body retrieval.
func TestGetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html><a href="/ico/foo">Foo</a></html>`))
	}))
	defer server.Close()

	c := NewClient("x", server.URL)
	body, err := c.GetText(context.Background(), "/", url.Values{"s": []string{"foo"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "/ico/foo") {
		t.Errorf("body = %q, want it to contain /ico/foo", string(body))
	}
}
