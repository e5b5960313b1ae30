package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/nugetnpm/pkg/cache"
	nerrors "github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/observability"
)

var testBackoff = cache.Backoff{Attempts: 3, Base: time.Millisecond, Max: 5 * time.Millisecond}

func newTestClient(t *testing.T, headers map[string]string) (*Client, *cache.FileCache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, "test", time.Hour, headers)
	client.SetBackoff(testBackoff)
	return client, c
}

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	client := NewClient(c, "test", time.Hour, map[string]string{"Authorization": "Bearer token"})
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test", time.Hour, nil)
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("nil cache should default to NullCache, got %T", client.cache)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		agent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
	if !strings.HasPrefix(agent, "nugetnpm/") {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var override, def string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		override = r.Header.Get("X-Override")
		def = r.Header.Get("X-Default")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, map[string]string{"X-Override": "default", "X-Default": "d"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if override != "overridden" || def != "d" {
		t.Errorf("headers = %q, %q", override, def)
	}
}

func TestClientGetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<package/>"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	text, err := client.GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "<package/>" {
		t.Errorf("GetText() = %q", text)
	}
}

func TestClientGetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !nerrors.Is(err, nerrors.ErrCodeInvalidManifest) {
		t.Errorf("Get() error = %v, want INVALID_MANIFEST", err)
	}
}

func TestClientGet404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if !nerrors.Is(err, nerrors.ErrCodePackageNotFound) {
		t.Errorf("Get() error = %v, want PACKAGE_NOT_FOUND", err)
	}
}

func TestClientGet500(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
	if !cache.IsRetryable(err) {
		t.Errorf("Get() error should be retryable, got %T", err)
	}
}

func TestClientCachedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"v": "ok"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)
	ctx := context.Background()

	var resp map[string]string
	err := client.Cached(ctx, "k", false, &resp, func() error {
		return client.Get(ctx, server.URL, &resp)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if resp["v"] != "ok" || calls.Load() != 3 {
		t.Errorf("resp=%v calls=%d", resp, calls.Load())
	}
}

func TestClientCachedRateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)
	ctx := context.Background()

	var resp map[string]string
	err := client.Cached(ctx, "k", false, &resp, func() error {
		return client.Get(ctx, server.URL, &resp)
	})
	var rl *nerrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("Cached() error = %v, want RateLimitedError", err)
	}
	if rl.Code() != nerrors.ErrCodeRateLimited {
		t.Errorf("code = %s", rl.Code())
	}
	if calls.Load() != int32(testBackoff.Attempts) {
		t.Errorf("calls = %d, want %d", calls.Load(), testBackoff.Attempts)
	}
}

func TestClientCached(t *testing.T) {
	client, _ := newTestClient(t, nil)
	ctx := context.Background()

	type testData struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			*v = testData{Value: "fetched"}
			return nil
		}
	}

	var first testData
	if err := client.Cached(ctx, "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second testData
	if err := client.Cached(ctx, "KEY", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q", second.Value)
	}

	var third testData
	if err := client.Cached(ctx, "key", true, &third, fetch(&third)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 2 {
		t.Errorf("refresh should fetch again, count = %d", fetchCount)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client, c := newTestClient(t, nil)
	ctx := context.Background()

	var value string
	err := client.Cached(ctx, "missing", false, &value, func() error { return ErrNotFound })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, client.keyer.HTTPKey("test", "missing")); hit {
		t.Error("failed fetch must not be cached")
	}
}

func TestClientHooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	h := &recordingHooks{}
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	client, _ := newTestClient(t, nil)
	ctx := context.Background()

	for range 2 {
		var v map[string]string
		if err := client.Cached(ctx, "k", false, &v, func() error { return client.Get(ctx, server.URL+"/index.json", &v) }); err != nil {
			t.Fatal(err)
		}
	}

	if h.requests != 1 || h.responses != 1 {
		t.Errorf("requests=%d responses=%d, want 1/1", h.requests, h.responses)
	}
	if h.lastPath != "/index.json" {
		t.Errorf("path = %q", h.lastPath)
	}
	if h.misses != 1 || h.hits != 1 || h.sets != 1 {
		t.Errorf("misses=%d hits=%d sets=%d", h.misses, h.hits, h.sets)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	observability.NoopCacheHooks
	requests, responses int
	hits, misses, sets  int
	lastPath            string
}

func (h *recordingHooks) OnRequest(_ context.Context, _, _, path string) {
	h.requests++
	h.lastPath = path
}

func (h *recordingHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
	h.responses++
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		wantErr    bool
		wantType   error
		isRetryErr bool
	}{
		{name: "200 OK", code: 200},
		{name: "404 Not Found", code: 404, wantErr: true, wantType: ErrNotFound},
		{name: "429 Too Many Requests", code: 429, wantErr: true, isRetryErr: true},
		{name: "500 Internal Server Error", code: 500, wantErr: true, wantType: ErrNetwork, isRetryErr: true},
		{name: "503 Service Unavailable", code: 503, wantErr: true, wantType: ErrNetwork, isRetryErr: true},
		{name: "400 Bad Request", code: 400, wantErr: true, wantType: ErrNetwork},
		{name: "403 Forbidden", code: 403, wantErr: true, wantType: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.code, Header: http.Header{}}
			err := checkStatus(resp)

			if !tt.wantErr {
				if err != nil {
					t.Errorf("checkStatus() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("checkStatus() should return error")
			}
			if tt.wantType != nil && !errors.Is(err, tt.wantType) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantType)
			}
			if cache.IsRetryable(err) != tt.isRetryErr {
				t.Errorf("checkStatus() retryable = %v, want %v", cache.IsRetryable(err), tt.isRetryErr)
			}
		})
	}
}

func TestCheckStatusRetryAfter(t *testing.T) {
	resp := &http.Response{StatusCode: 429, Header: http.Header{"Retry-After": []string{"7"}}}
	var rl *nerrors.RateLimitedError
	if !errors.As(checkStatus(resp), &rl) {
		t.Fatal("want RateLimitedError")
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v", rl.RetryAfter)
	}
}

// slowBodyServer sends headers at once, then body in chunks with a pause
// between them.
func slowBodyServer(t *testing.T, body []byte, chunks int, pause time.Duration) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		size := (len(body) + chunks - 1) / chunks
		for rest := body; len(rest) > 0; {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(pause):
			}
			n := min(size, len(rest))
			w.Write(rest[:n])
			w.(http.Flusher).Flush()
			rest = rest[n:]
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientDownloadSlowBody(t *testing.T) {
	body := []byte(strings.Repeat("nupkg-", 100))
	server := slowBodyServer(t, body, 5, 30*time.Millisecond)

	client, _ := newTestClient(t, nil)
	client.SetTimeout(50 * time.Millisecond)

	data, err := client.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if string(data) != string(body) {
		t.Errorf("Download() returned %d bytes, want %d", len(data), len(body))
	}

	// The same body exceeds the whole-response deadline of GetBytes.
	if _, err := client.GetBytes(context.Background(), server.URL); !errors.Is(err, ErrNetwork) {
		t.Errorf("GetBytes() error = %v, want ErrNetwork", err)
	}
}

func TestClientDownloadHeaderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)
	client.SetTimeout(20 * time.Millisecond)

	if _, err := client.Download(context.Background(), server.URL); !errors.Is(err, ErrNetwork) {
		t.Errorf("Download() error = %v, want ErrNetwork", err)
	}
}

func TestClientDownloadContextCancel(t *testing.T) {
	server := slowBodyServer(t, []byte("slow body"), 3, 200*time.Millisecond)

	client, _ := newTestClient(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Download(ctx, server.URL); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Download() error = %v, want context.DeadlineExceeded", err)
	}
}
