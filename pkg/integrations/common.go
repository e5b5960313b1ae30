package integrations

import (
	"net/http"
	"time"

	"github.com/matzehuels/nugetnpm/pkg/buildinfo"
	"github.com/matzehuels/nugetnpm/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = cache.ErrNetwork
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewDownloadClient creates an HTTP client for package archives. Only the
// wait for response headers is bounded; reading the body is bounded by the
// request context alone, so large archives on slow links complete.
func NewDownloadClient(headerTimeout time.Duration) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: t}
}

// UserAgent identifies the tool to registries.
func UserAgent() string {
	return "nugetnpm/" + buildinfo.Version
}
