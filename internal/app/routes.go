package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedfolio/core/internal/middleware"
	"github.com/feedfolio/core/internal/modules/content/feed"
	"github.com/feedfolio/core/internal/modules/syndication/sitemap"
	"github.com/feedfolio/core/internal/pkg/response"
)

const apiPrefix = "/api/v2"

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "feedfolio-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/feedfolio/core",
		"issues":   "https://github.com/feedfolio/core/issues",
	}

	// Root-level endpoints
	root := r.Group("")
	sitemap.RegisterRoutes(root, a.feed, a.cfg.SiteURL)

	// Versioned API
	api := r.Group(apiPrefix)
	if a.rc != nil {
		api.Use(middleware.RateLimit(a.rc.Raw()))
		api.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
			TTL:       15 * time.Second,
			Disable:   a.cfg.IsDev(),
			SkipPaths: httpCacheSkipPaths(apiPrefix),
		}))
	}

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	if a.rc != nil {
		api.GET("/clean_cache", func(c *gin.Context) {
			a.feed.InvalidateCorpus(c.Request.Context())
			deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), a.rc.Raw())
			if err != nil {
				response.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
		})
	}

	// Content feed
	feed.NewHandler(a.feed, a.logger).RegisterRoutes(api)
}

func httpCacheSkipPaths(prefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	return []string{
		p + "/uptime",
		p + "/ping",
		p + "/clean_cache",
	}
}
