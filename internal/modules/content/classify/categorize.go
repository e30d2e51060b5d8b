package classify

import (
	"strings"

	"github.com/feedfolio/core/internal/models"
)

// Categorize maps a record onto its canonical category. It is a pure
// function of the listed inputs; the dispatch is total, so an unknown
// content_type still lands on a category.
func Categorize(contentType string, tags, generatedTags []string, title, generatedTitle string) models.Category {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "post":
		if isHumorPost(tags, generatedTags, title, generatedTitle) {
			return models.CategoryQuickNote
		}
		return models.CategoryLinkedInPost
	case "article":
		return models.CategoryResearchReport
	case "substack":
		return models.CategoryComprehensiveStudy
	case "medium":
		return models.CategoryMediumPost
	case "youtube":
		return models.CategoryYouTubeVideo
	default:
		return models.CategoryResearchReport
	}
}

func isHumorPost(tags, generatedTags []string, title, generatedTitle string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, "humor") {
			return true
		}
	}
	for _, t := range generatedTags {
		if strings.EqualFold(t, "humor") {
			return true
		}
	}
	for _, title := range []string{title, generatedTitle} {
		lower := strings.ToLower(title)
		if strings.Contains(lower, "humor") || strings.Contains(lower, "lol") {
			return true
		}
	}
	return false
}
