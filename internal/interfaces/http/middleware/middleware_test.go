package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientID(t *testing.T) {
	r := gin.New()
	r.Use(ClientID())
	r.GET("/", func(c *gin.Context) {
		c.Header("X-Generated", strconv.FormatBool(ClientIDGenerated(c)))
		c.String(http.StatusOK, GetClientIDFromGin(c))
	})

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "provided", header: "browser-1", wantSame: true},
		{name: "missing", header: ""},
		{name: "too long", header: strings.Repeat("x", maxClientIDLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(ClientIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Body.String()
			if got == "" {
				t.Fatal("client id is empty")
			}
			if w.Header().Get(ClientIDHeader) != got {
				t.Errorf("response header = %q, expected %q", w.Header().Get(ClientIDHeader), got)
			}
			if (got == tt.header) != tt.wantSame {
				t.Errorf("client id = %q, header %q", got, tt.header)
			}
			if generated := w.Header().Get("X-Generated") == "true"; generated == tt.wantSame {
				t.Errorf("generated = %v for header %q", generated, tt.header)
			}
		})
	}
}

func TestWorkspaceContext(t *testing.T) {
	r := gin.New()
	r.GET("/w/:wid", WorkspaceContext("wid"), func(c *gin.Context) {
		c.String(http.StatusOK, GetWorkspaceIDFromGin(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/w/abc", nil))
	if w.Body.String() != "abc" {
		t.Errorf("workspace id = %q", w.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, expected 500", w.Code)
	}
	var body struct {
		Error struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.ErrorCode != "1007" {
		t.Errorf("error code = %q", body.Error.ErrorCode)
	}
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

func (f *fakeLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	if f.allow {
		return limit - 1, nil
	}
	return 0, nil
}

func newRateLimitedEngine(limiter RateLimiter, enabled bool) *gin.Engine {
	r := gin.New()
	r.Use(ClientID())
	r.Use(RateLimit(RateLimitConfig{Enabled: enabled, RequestsPerSecond: 5}, limiter, nil))
	r.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		limiter       *fakeLimiter
		enabled       bool
		wantStatus    int
		wantRemaining string
	}{
		{name: "allowed", limiter: &fakeLimiter{allow: true}, enabled: true, wantStatus: http.StatusOK, wantRemaining: "4"},
		{name: "rejected", limiter: &fakeLimiter{allow: false}, enabled: true, wantStatus: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "limiter error fails open", limiter: &fakeLimiter{err: errors.New("redis down")}, enabled: true, wantStatus: http.StatusOK},
		{name: "disabled", limiter: &fakeLimiter{allow: false}, enabled: false, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRateLimitedEngine(tt.limiter, tt.enabled)

			req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
			req.Header.Set(ClientIDHeader, "c1")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("X-RateLimit-Remaining"); got != tt.wantRemaining {
				t.Errorf("remaining = %q, expected %q", got, tt.wantRemaining)
			}
			if tt.enabled && (len(tt.limiter.keys) != 1 || tt.limiter.keys[0] != "ratelimit:c1:/items/:id") {
				t.Errorf("keys = %v", tt.limiter.keys)
			}
			if !tt.enabled && len(tt.limiter.keys) != 0 {
				t.Errorf("disabled limiter was called: %v", tt.limiter.keys)
			}
		})
	}
}

func TestRateLimitKeysAnonymousClientsByAddress(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	r := newRateLimitedEngine(limiter, true)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, expected 200", w.Code)
		}
	}

	// httptest 请求的默认来源地址为 192.0.2.1
	for _, key := range limiter.keys {
		if key != "ratelimit:192.0.2.1:/items/:id" {
			t.Errorf("key = %q, expected the caller address", key)
		}
	}
	if len(limiter.keys) != 3 {
		t.Errorf("keys = %v", limiter.keys)
	}
}

func TestRateLimitNilLimiter(t *testing.T) {
	r := newRateLimitedEngine(nil, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected 200", w.Code)
	}
}
