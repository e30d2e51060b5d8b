package feed

import (
	"strconv"
	"strings"

	"github.com/feedfolio/core/internal/models"
	"github.com/gin-gonic/gin"
)

// listResponse is the page envelope for GET /content.
type listResponse struct {
	Posts  []models.ContentItem `json:"posts"`
	Total  int                  `json:"total"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
	Type   string               `json:"type"`
}

// allResponse is the envelope for GET /content/all. Success distinguishes
// "no content exists" from "content could not be fetched".
type allResponse struct {
	Posts   []models.ContentItem `json:"posts"`
	Success bool                 `json:"success"`
}

// countsResponse is the envelope for GET /content/counts.
type countsResponse struct {
	Counts map[models.Category]int `json:"counts"`
	Total  int                     `json:"total"`
}

// optionsFromQuery parses list query parameters, applying defaults and the
// server-side limit clamp.
func optionsFromQuery(c *gin.Context) ListOptions {
	opts := ListOptions{
		Category: strings.TrimSpace(c.Query("type")),
		Limit:    parseIntOr(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)), DefaultLimit),
		Offset:   parseIntOr(c.DefaultQuery("offset", "0"), 0),
	}
	if raw := strings.TrimSpace(c.Query("tags")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(t); v != "" {
				opts.Tags = append(opts.Tags, v)
			}
		}
	}
	return opts
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
