package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/media"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// Options holds the presentation settings of the site
type Options struct {
	PageSize       int
	IndexCacheTTL  time.Duration
	MaxUploadBytes int64
	SecureCookies  bool
}

// Deps holds the collaborators of the router
type Deps struct {
	Stores    Stores
	Sessions  *auth.Sessions
	Media     *media.Storage
	PageCache cache.Store
	Metrics   *telemetry.Metrics
	Health    map[string]HealthCheck
}

// Router sets up the site routes
type Router struct {
	stores    Stores
	sessions  *auth.Sessions
	media     *media.Storage
	pageCache *PageCache
	metrics   *telemetry.Metrics
	health    map[string]HealthCheck
	opts      Options
	templates *template.Template
	logger    *zap.Logger
}

// NewRouter creates a new site router
func NewRouter(deps Deps, opts Options) (*Router, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}

	templates, err := loadTemplates(deps.Media.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	logger := logging.WithComponent("web")
	return &Router{
		stores:    deps.Stores,
		sessions:  deps.Sessions,
		media:     deps.Media,
		pageCache: NewPageCache(deps.PageCache, opts.IndexCacheTTL, deps.Sessions.CookieName(), deps.Metrics, logger),
		metrics:   deps.Metrics,
		health:    deps.Health,
		opts:      opts,
		templates: templates,
		logger:    logger,
	}, nil
}

// SetupRoutes sets up all site routes on engine
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.SetHTMLTemplate(r.templates)
	engine.MaxMultipartMemory = r.opts.MaxUploadBytes

	engine.Use(
		r.recovery(),
		requestLogger(r.logger),
		tracing(),
		secureHeaders(),
		r.sameOrigin(),
		r.sessions.Middleware(r.stores.Users, r.sendError),
	)

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.Static("/media", r.media.Root)

	// Feeds and pages
	engine.GET("/", r.pageCache.Handler(), r.handle(r.index))
	engine.GET("/group/:slug/", r.handle(r.groupPosts))
	engine.GET("/profile/:username/", r.handle(r.profile))
	engine.GET("/posts/:id/", r.handle(r.postDetail))

	// Authenticated actions
	member := engine.Group("/", auth.RequireLogin())
	member.GET("/create/", r.handle(r.postCreate))
	member.POST("/create/", r.handle(r.postCreate))
	member.GET("/posts/:id/edit/", r.handle(r.postEdit))
	member.POST("/posts/:id/edit/", r.handle(r.postEdit))
	member.POST("/posts/:id/comment/", r.handle(r.addComment))
	member.GET("/follow/", r.handle(r.followIndex))
	member.GET("/profile/:username/follow/", r.handle(r.profileFollow))
	member.GET("/profile/:username/unfollow/", r.handle(r.profileUnfollow))

	// Static pages
	engine.GET("/about/author/", r.staticPage("about/author.html", "About the author"))
	engine.GET("/about/tech/", r.staticPage("about/tech.html", "Technologies"))

	// Accounts
	engine.GET("/auth/signup/", r.handle(r.signup))
	engine.POST("/auth/signup/", r.handle(r.signup))
	engine.GET("/auth/login/", r.handle(r.login))
	engine.POST("/auth/login/", r.handle(r.login))
	engine.GET("/auth/logout/", r.handle(r.logout))
	engine.POST("/auth/logout/", r.handle(r.logout))

	engine.NoRoute(r.notFound)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}
	for name, check := range r.health {
		if err := check(c.Request.Context()); err != nil {
			r.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "OK"
	}

	state := "OK"
	if status != http.StatusOK {
		state = "DEGRADED"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"service": "yatube",
		"checks":  checks,
	})
}

// staticPage renders a page with no data of its own
func (r *Router) staticPage(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.render(c, http.StatusOK, name, gin.H{"title": title})
	}
}
