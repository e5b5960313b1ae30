// Package integrations provides the shared HTTP client for package
// registry APIs.
//
// [Client] wraps an [net/http.Client] with:
//   - JSON response caching in a [cache.Cache] ([Client.Cached])
//   - retry with exponential backoff on network errors, 5xx and 429
//     responses (429 honours Retry-After)
//   - HTTP and cache observability hooks
//
// Registry-specific clients embed it; see the [nuget] subpackage.
//
// [cache.Cache]: github.com/matzehuels/nugetnpm/pkg/cache.Cache
// [nuget]: github.com/matzehuels/nugetnpm/pkg/integrations/nuget
package integrations
