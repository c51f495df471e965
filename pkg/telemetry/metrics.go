package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application counters. A zero Metrics is usable and
// records nothing.
type Metrics struct {
	postsCreated    metric.Int64Counter
	postsEdited     metric.Int64Counter
	commentsCreated metric.Int64Counter
	follows         metric.Int64Counter
	unfollows       metric.Int64Counter
	pageCache       metric.Int64Counter
}

// NewMetrics registers the application counters on the global meter provider
func NewMetrics(serviceName string) (*Metrics, error) {
	meter := otel.Meter(serviceName)
	m := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.postsCreated, "yatube.posts.created", "Posts created"},
		{&m.postsEdited, "yatube.posts.edited", "Posts edited by their author"},
		{&m.commentsCreated, "yatube.comments.created", "Comments created"},
		{&m.follows, "yatube.follows.created", "Follow edges created"},
		{&m.unfollows, "yatube.follows.deleted", "Follow edges deleted"},
		{&m.pageCache, "yatube.page_cache.lookups", "Page cache lookups by result"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	return m, nil
}

// PostCreated counts a new post
func (m *Metrics) PostCreated(ctx context.Context) {
	if m != nil {
		m.add(ctx, m.postsCreated)
	}
}

// PostEdited counts an applied post edit
func (m *Metrics) PostEdited(ctx context.Context) {
	if m != nil {
		m.add(ctx, m.postsEdited)
	}
}

// CommentCreated counts a new comment
func (m *Metrics) CommentCreated(ctx context.Context) {
	if m != nil {
		m.add(ctx, m.commentsCreated)
	}
}

// Followed counts a new follow edge
func (m *Metrics) Followed(ctx context.Context) {
	if m != nil {
		m.add(ctx, m.follows)
	}
}

// Unfollowed counts a removed follow edge
func (m *Metrics) Unfollowed(ctx context.Context) {
	if m != nil {
		m.add(ctx, m.unfollows)
	}
}

// PageCacheLookup counts a page cache lookup
func (m *Metrics) PageCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.add(ctx, m.pageCache, attribute.String("result", result))
}

func (m *Metrics) add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
