package massive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", "test-key")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.apiKey != "test-key" {
			t.Errorf("apiKey = %q, want %q", c.apiKey, "test-key")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("empty base URL uses production", func(t *testing.T) {
		c := NewClient("", "test-key")
		if c.baseURL != DefaultBaseURL {
			t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
		}
	})

	t.Run("with options", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", "",
			WithRetries(5, 2*time.Second),
			WithHTTPClient(custom),
		)
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want 5", c.maxRetries)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
		if c.httpClient != custom {
			t.Error("custom HTTP client not set")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	want := "massive api error 404: Not Found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	tests := []struct {
		code      int
		retryable bool
	}{
		{500, true},
		{503, true},
		{429, true},
		{400, false},
		{401, false},
		{404, false},
	}
	for _, tt := range tests {
		e := &APIError{StatusCode: tt.code}
		if got := e.IsRetryable(); got != tt.retryable {
			t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.retryable)
		}
	}
}

func TestAPIKeyQueryParam(t *testing.T) {
	t.Run("key injected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("apiKey"); got != "test-key" {
				t.Errorf("apiKey query param = %q, want %q", got, "test-key")
			}
			if got := r.Header.Get("Accept"); got != "application/json" {
				t.Errorf("Accept header = %q, want %q", got, "application/json")
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key")
		if _, err := c.doRequest(context.Background(), "GET", "/v3/snapshot", nil); err != nil {
			t.Fatalf("doRequest() error = %v", err)
		}
	})

	t.Run("explicit key wins", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("apiKey"); got != "override" {
				t.Errorf("apiKey query param = %q, want %q", got, "override")
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key")
		query := url.Values{"apiKey": {"override"}}
		if _, err := c.doRequest(context.Background(), "GET", "/v3/snapshot", query); err != nil {
			t.Fatalf("doRequest() error = %v", err)
		}
	})

	t.Run("caller query not mutated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key")
		query := url.Values{"tickers": {"O:RZLV251107C00006000"}}
		if _, err := c.doRequest(context.Background(), "GET", "/v3/snapshot", query); err != nil {
			t.Fatalf("doRequest() error = %v", err)
		}
		if query.Get("apiKey") != "" {
			t.Error("doRequest mutated the caller's query values")
		}
	})
}

func TestDoWithRetry(t *testing.T) {
	t.Run("retries 5xx then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"status":"OK"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "k", WithRetries(3, 10*time.Millisecond))
		body, err := c.doWithRetry(context.Background(), "GET", "/v3/snapshot", nil)
		if err != nil {
			t.Fatalf("doWithRetry() error = %v", err)
		}
		if string(body) != `{"status":"OK"}` {
			t.Errorf("body = %q", body)
		}
		if calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})

	t.Run("does not retry 4xx", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, "k", WithRetries(3, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "GET", "/v3/snapshot", nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
			t.Fatalf("error = %v, want 400 APIError", err)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, "k", WithRetries(1, time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "GET", "/v3/snapshot", nil)
		if err == nil {
			t.Fatal("doWithRetry() succeeded, want error")
		}
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(server.URL, "k", WithRetries(3, time.Hour))
		_, err := c.doWithRetry(ctx, "GET", "/v3/snapshot", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestGetSnapshots(t *testing.T) {
	t.Run("decodes results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("tickers"); got != "O:RZLV251107C00000500,O:RZLV251107C00001000" {
				t.Errorf("tickers = %q", got)
			}
			w.Write([]byte(`{
				"status": "OK",
				"results": [{
					"ticker": "O:RZLV251107C00000500",
					"details": {
						"underlying_ticker": "RZLV",
						"contract_type": "call",
						"strike_price": 0.5,
						"expiration_date": "2025-11-07"
					},
					"day": {"close": 0.12, "volume": 42},
					"last_quote": {"bid": 0.10, "ask": 0.15}
				}]
			}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "k")
		resp, err := c.GetSnapshots(context.Background(),
			[]string{"O:RZLV251107C00000500", "O:RZLV251107C00001000"})
		if err != nil {
			t.Fatalf("GetSnapshots() error = %v", err)
		}
		if len(resp.Results) != 1 {
			t.Fatalf("len(Results) = %d, want 1", len(resp.Results))
		}
		snap := resp.Results[0]
		if snap.Details.StrikePrice != 0.5 {
			t.Errorf("StrikePrice = %v, want 0.5", snap.Details.StrikePrice)
		}
		if snap.Day.Volume != 42 {
			t.Errorf("Volume = %d, want 42", snap.Day.Volume)
		}
	})

	t.Run("empty batch skips the network", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "k") // nothing listens here
		resp, err := c.GetSnapshots(context.Background(), nil)
		if err != nil {
			t.Fatalf("GetSnapshots() error = %v", err)
		}
		if len(resp.Results) != 0 {
			t.Errorf("len(Results) = %d, want 0", len(resp.Results))
		}
	})
}

func TestGetRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/aggs/ticker/RZLV/prev" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k")
	// Missing leading slash is tolerated.
	body, err := c.GetRaw(context.Background(), "v2/aggs/ticker/RZLV/prev", nil)
	if err != nil {
		t.Fatalf("GetRaw() error = %v", err)
	}
	if string(body) != `{"results": []}` {
		t.Errorf("body = %q", body)
	}
}

func TestValidateKey(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		c := NewClient("https://api.example.com", "")
		if err := c.ValidateKey(context.Background()); !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("error = %v, want ErrNoAPIKey", err)
		}
	})

	t.Run("rejected key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := NewClient(server.URL, "bad-key")
		if err := c.ValidateKey(context.Background()); err == nil {
			t.Error("ValidateKey() succeeded, want error")
		}
	})

	t.Run("other 4xx means the key authenticated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, "good-key")
		if err := c.ValidateKey(context.Background()); err != nil {
			t.Errorf("ValidateKey() error = %v, want nil", err)
		}
	})
}
