package sitemap

import (
	"fmt"
	"strings"
	"time"

	"github.com/feedfolio/core/internal/models"
	"github.com/feedfolio/core/internal/modules/content/feed"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the sitemap at /sitemap.xml (and /sitemap for
// crawlers that drop the extension).
func RegisterRoutes(rg *gin.RouterGroup, svc *feed.Service, siteURL string) {
	render := func(c *gin.Context) {
		corpus, err := svc.Corpus(c.Request.Context())
		if err != nil {
			c.String(500, "error generating sitemap")
			return
		}
		c.Header("Content-Type", "application/xml; charset=utf-8")
		c.String(200, Build(corpus, siteURL))
	}
	rg.GET("/sitemap.xml", render)
	rg.GET("/sitemap", render)
}

type sitemapURL struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

// sectionPath maps a content category to its site section.
func sectionPath(category models.Category) string {
	switch category {
	case models.CategoryYouTubeVideo:
		return "videos"
	case models.CategoryLinkedInPost:
		return "posts"
	case models.CategoryQuickNote:
		return "notes"
	case models.CategoryResearchReport:
		return "research"
	case models.CategoryComprehensiveStudy:
		return "studies"
	case models.CategoryMediumPost:
		return "articles"
	default:
		return "content"
	}
}

// Build renders the sitemap XML for the given corpus: the homepage, one
// section page per category, and one entry per deduplicated item.
func Build(items []models.ContentItem, siteURL string) string {
	base := strings.TrimRight(siteURL, "/")

	urls := []sitemapURL{{
		Loc: base, LastMod: time.Now(),
		ChangeFreq: "daily", Priority: 1.0,
	}}

	for _, category := range models.AllCategories() {
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/%s", base, sectionPath(category)),
			LastMod:    time.Now(),
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}

		lastMod := time.Now()
		if t, err := time.Parse(time.RFC3339, item.Date); err == nil {
			lastMod = t
		}
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/%s/%s", base, sectionPath(item.Category), item.ID),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   0.6,
		})
	}

	return renderXML(urls)
}

func renderXML(urls []sitemapURL) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	for _, u := range urls {
		fmt.Fprintf(&b, `  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, escapeXML(u.Loc), u.LastMod.Format("2006-01-02"), u.ChangeFreq, u.Priority)
	}
	b.WriteString(`</urlset>`)
	return b.String()
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
