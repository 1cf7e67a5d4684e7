package cli

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polypack/pkg/observability"
)

// logHooks reports pipeline and cache events at debug level and forwards
// finished size classes to an optional listener.
type logHooks struct {
	logger *log.Logger

	mu      sync.Mutex
	onClass func(size, count int)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*requestCounter)(nil)
)

// installHooks registers logHooks for the lifetime of the process.
func installHooks(logger *log.Logger) *logHooks {
	h := &logHooks{logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	return h
}

// listen sets the size class listener; nil removes it.
func (h *logHooks) listen(fn func(size, count int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClass = fn
}

func (h *logHooks) OnCatalogueStart(_ context.Context, maxK int) {
	h.logger.Debug("catalogue build started", "max_k", maxK)
}

func (h *logHooks) OnClassComplete(_ context.Context, size, count int) {
	h.logger.Debug("size class done", "size", size, "shapes", count)
	h.mu.Lock()
	fn := h.onClass
	h.mu.Unlock()
	if fn != nil {
		fn(size, count)
	}
}

func (h *logHooks) OnCatalogueComplete(_ context.Context, maxK, total int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("catalogue build failed", "max_k", maxK, "duration", d, "err", err)
		return
	}
	h.logger.Debug("catalogue build finished", "max_k", maxK, "shapes", total, "duration", d)
}

func (h *logHooks) OnGenerateStart(_ context.Context, count int) {
	h.logger.Debug("sampling started", "count", count)
}

func (h *logHooks) OnCaseWritten(context.Context, int, int, int) {}

func (h *logHooks) OnGenerateComplete(_ context.Context, count int, d time.Duration, err error) {
	h.logger.Debug("sampling finished", "count", count, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// requestCounter tallies API responses by status class.
type requestCounter struct {
	total  atomic.Int64
	failed atomic.Int64 // 5xx
	client atomic.Int64 // 4xx
}

func (r *requestCounter) OnRequest(context.Context, string, string) {
	r.total.Add(1)
}

func (r *requestCounter) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	switch {
	case status >= 500:
		r.failed.Add(1)
	case status >= 400:
		r.client.Add(1)
	}
}
