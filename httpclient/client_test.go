package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/quorumbot/resilience"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClient_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-or" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "quorumbot" {
			t.Errorf("X-Title = %q", got)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL + "/api/v1/",
		Auth:    BearerAuth("sk-or"),
		Headers: map[string]string{"X-Title": "quorumbot"},
	})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		Body:   map[string]string{"model": "x-ai/grok-4-fast"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusCreated || !resp.IsSuccess() {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if string(resp.Body) != "{\"model\":\"x-ai/grok-4-fast\"}\n" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestClient_Do_QueryAndOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("offset"); got != "7" {
			t.Errorf("offset = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer override" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Mode"); got != "request" {
			t.Errorf("X-Mode = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "raw" {
			t.Errorf("body = %q", body)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Auth:    BearerAuth("default"),
		Headers: map[string]string{"X-Mode": "client"},
	})
	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/getUpdates",
		Query:   map[string]string{"offset": "7"},
		Headers: map[string]string{"X-Mode": "request"},
		Auth:    BearerAuth("override"),
		Body:    []byte("raw"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestClient_Do_ErrorKeepsResponse(t *testing.T) {
	tests := []struct {
		code int
		want ErrorCode
	}{
		{http.StatusUnauthorized, ErrCodeAuth},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusBadGateway, ErrCodeServer},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer srv.Close()

			resp, err := newTestClient(t, Config{BaseURL: srv.URL}).Do(context.Background(), Request{Path: "/"})
			httpErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if httpErr.Code != tc.want || httpErr.StatusCode != tc.code {
				t.Errorf("got %+v", httpErr)
			}
			if resp == nil || resp.StatusCode != tc.code || string(resp.Body) != `{"error":{"message":"nope"}}` {
				t.Errorf("expected response alongside error, got %+v", resp)
			}
		})
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := newTestClient(t, Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Path: "/"})
	if httpErr, ok := AsError(err); !ok || httpErr.Code != ErrCodeTimeout || !httpErr.Retryable {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, Config{}).Do(context.Background(), Request{Path: url})
	httpErr, ok := AsError(err)
	if !ok || httpErr.Code != ErrCodeConnection || httpErr.StatusCode != 0 {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestClient_Do_RateLimiterRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	rl := resilience.RateLimiterConfig{Rate: 0.001, Burst: 1}
	c := newTestClient(t, Config{BaseURL: srv.URL, RateLimiter: &rl})

	if _, err := c.Do(context.Background(), Request{Path: "/"}); err != nil {
		t.Fatalf("first call within burst failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Do(ctx, Request{Path: "/"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if err := (&Config{Timeout: -1}).Validate(); err == nil {
		t.Error("expected negative timeout to be rejected")
	}
}
