package nuget

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/nugetnpm/pkg/cache"
	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/integrations"
	nugetpkg "github.com/matzehuels/nugetnpm/pkg/nuget"
)

// DefaultSource is the nuget.org v3 service index.
const DefaultSource = "https://api.nuget.org/v3/index.json"

const baseAddressType = "PackageBaseAddress/3.0.0"

// Client reads packages from one NuGet v3 feed.
type Client struct {
	*integrations.Client
	source  string
	refresh bool

	mu   sync.Mutex
	base string

	// Most recently parsed nuspec. Dependency info and metadata of one
	// package are served from it.
	lastMu  sync.Mutex
	lastKey string
	last    *nugetpkg.Nuspec
}

// NewClient creates a client for the feed whose service index is at source.
// An empty source means nuget.org. Cached entries are scoped to source.
func NewClient(c cache.Cache, source string, ttl time.Duration) *Client {
	if source == "" {
		source = DefaultSource
	}
	ic := integrations.NewClient(c, "nuget", ttl, nil)
	ic.SetKeyer(cache.SourceKeyer(source))
	return &Client{Client: ic, source: source}
}

// SetRefresh makes the client bypass cached responses.
func (c *Client) SetRefresh(refresh bool) { c.refresh = refresh }

// Source returns the service index URL.
func (c *Client) Source() string { return c.source }

type serviceIndex struct {
	Version   string     `json:"version"`
	Resources []resource `json:"resources"`
}

type resource struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

// BaseAddress returns the flat container URL with a trailing slash.
func (c *Client) BaseAddress(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.base != "" {
		return c.base, nil
	}

	var idx serviceIndex
	err := c.Cached(ctx, "index", c.refresh, &idx, func() error {
		return c.Get(ctx, c.source, &idx)
	})
	if err != nil {
		return "", fmt.Errorf("service index %s: %w", c.source, err)
	}

	for _, r := range idx.Resources {
		if r.Type == baseAddressType || strings.HasPrefix(r.Type, "PackageBaseAddress/") {
			base := r.ID
			if !strings.HasSuffix(base, "/") {
				base += "/"
			}
			c.base = base
			return base, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "feed %s has no %s resource", c.source, baseAddressType)
}

func (c *Client) packageURL(ctx context.Context, id nugetpkg.Identity, file func(lid, lver string) string) (string, error) {
	base, err := c.BaseAddress(ctx)
	if err != nil {
		return "", err
	}
	lid := strings.ToLower(id.ID)
	lver := strings.ToLower(id.Version.String())
	return base + url.PathEscape(lid) + "/" + url.PathEscape(lver) + "/" + url.PathEscape(file(lid, lver)), nil
}

type nuspecDoc struct {
	XML string `json:"xml"`
}

// Nuspec fetches and parses the nuspec of id.
func (c *Client) Nuspec(ctx context.Context, id nugetpkg.Identity) (*nugetpkg.Nuspec, error) {
	if spec := c.lastNuspec(id); spec != nil {
		return spec, nil
	}

	u, err := c.packageURL(ctx, id, func(lid, _ string) string { return lid + ".nuspec" })
	if err != nil {
		return nil, err
	}

	var doc nuspecDoc
	err = c.Cached(ctx, "nuspec:"+id.Key(), c.refresh, &doc, func() error {
		text, err := c.GetText(ctx, u)
		doc.XML = text
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("nuget package %s: %w", id, err)
	}
	spec, err := nugetpkg.ParseNuspec([]byte(doc.XML))
	if err != nil {
		return nil, err
	}

	c.lastMu.Lock()
	c.lastKey, c.last = id.Key(), spec
	c.lastMu.Unlock()
	return spec, nil
}

func (c *Client) lastNuspec(id nugetpkg.Identity) *nugetpkg.Nuspec {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	if c.last != nil && c.lastKey == id.Key() {
		return c.last
	}
	return nil
}

// GetDependencyInfo returns the dependency groups of id.
func (c *Client) GetDependencyInfo(ctx context.Context, id nugetpkg.Identity) (*nugetpkg.DependencyInfo, error) {
	spec, err := c.Nuspec(ctx, id)
	if err != nil {
		return nil, err
	}
	return spec.DependencyInfo(), nil
}

// GetMetadata returns the descriptive metadata of id.
func (c *Client) GetMetadata(ctx context.Context, id nugetpkg.Identity) (nugetpkg.Metadata, error) {
	spec, err := c.Nuspec(ctx, id)
	if err != nil {
		return nugetpkg.Metadata{}, err
	}
	return spec.Metadata, nil
}

// FetchArchive downloads the .nupkg of id.
func (c *Client) FetchArchive(ctx context.Context, id nugetpkg.Identity) (nugetpkg.PackageReader, error) {
	u, err := c.packageURL(ctx, id, func(lid, lver string) string { return lid + "." + lver + ".nupkg" })
	if err != nil {
		return nil, err
	}

	var data []byte
	err = c.Retry(ctx, func() error {
		var ferr error
		data, ferr = c.Download(ctx, u)
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("nuget archive %s: %w", id, err)
	}
	return nugetpkg.OpenPackage(data)
}
