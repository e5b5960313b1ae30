package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetnpm/pkg/observability"
)

// runStats counts registry traffic during a run and logs per-package
// timing at debug level.
type runStats struct {
	observability.NoopConvertHooks
	observability.NoopCacheHooks
	observability.NoopHTTPHooks

	logger *log.Logger

	requests    atomic.Int64
	httpErrors  atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

func newRunStats(logger *log.Logger) *runStats {
	return &runStats{logger: logger}
}

func (s *runStats) OnPackageComplete(_ context.Context, key string, written bool, d time.Duration, err error) {
	if err != nil {
		return
	}
	s.logger.Debug("package done", "key", key, "written", written, "elapsed", d.Round(time.Millisecond))
}

func (s *runStats) OnCacheHit(context.Context, string)  { s.cacheHits.Add(1) }
func (s *runStats) OnCacheMiss(context.Context, string) { s.cacheMisses.Add(1) }

func (s *runStats) OnRequest(context.Context, string, string, string) { s.requests.Add(1) }

func (s *runStats) OnError(_ context.Context, method, host, path string, err error) {
	s.httpErrors.Add(1)
	s.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
