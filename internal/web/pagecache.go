package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/pkg/telemetry"
)

// cachedPage is a stored response
type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyRecorder copies everything written to the client
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCache memoizes successful GET responses for a fixed window. Entries
// are keyed by method, URL and the session cookie, so each session sees its
// own copy. Writes never invalidate entries; they only expire.
type PageCache struct {
	store      cache.Store
	ttl        time.Duration
	varyCookie string
	metrics    *telemetry.Metrics
	logger     *zap.Logger
}

// NewPageCache creates a page cache over store
func NewPageCache(store cache.Store, ttl time.Duration, varyCookie string, metrics *telemetry.Metrics, logger *zap.Logger) *PageCache {
	return &PageCache{
		store:      store,
		ttl:        ttl,
		varyCookie: varyCookie,
		metrics:    metrics,
		logger:     logger,
	}
}

// PageKey is the cache key of a page requested with method and requestURI
// by the session variant; anonymous visitors have an empty variant
func PageKey(method, requestURI, variant string) string {
	return cache.HashKey("page", method, requestURI, variant)
}

// key builds the cache key of a request
func (p *PageCache) key(req *http.Request) string {
	variant := ""
	if cookie, err := req.Cookie(p.varyCookie); err == nil {
		variant = cookie.Value
	}
	return PageKey(req.Method, req.URL.RequestURI(), variant)
}

// Handler serves cached copies and stores fresh ones
func (p *PageCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p == nil || p.store == nil || p.ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := p.key(c.Request)

		data, err := p.store.Get(ctx, key)
		switch {
		case err == nil:
			var page cachedPage
			if err := json.Unmarshal(data, &page); err == nil {
				p.metrics.PageCacheLookup(ctx, true)
				c.Data(page.Status, page.ContentType, page.Body)
				c.Abort()
				return
			}
			p.logger.Warn("Discarding unreadable cached page", zap.String("key", key))
		case errors.Is(err, cache.ErrMiss), errors.Is(err, cache.ErrCacheDisabled):
		default:
			p.logger.Warn("Page cache lookup failed", zap.Error(err))
		}
		p.metrics.PageCacheLookup(ctx, false)

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		// Responses that set cookies belong to one client only
		if recorder.Status() != http.StatusOK || recorder.Header().Get("Set-Cookie") != "" {
			return
		}

		page := cachedPage{
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		encoded, err := json.Marshal(page)
		if err != nil {
			p.logger.Warn("Failed to encode page for cache", zap.Error(err))
			return
		}
		if err := p.store.Set(ctx, key, encoded, p.ttl); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			p.logger.Warn("Failed to store page in cache", zap.Error(err))
		}
	}
}
