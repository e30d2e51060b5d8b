package classify

import (
	"fmt"
	"net/url"
	"strings"
)

const youtubeThumbnailTemplate = "https://img.youtube.com/vi/%s/hqdefault.jpg"

// YouTubeThumbnail derives a thumbnail URL from a video link. It recognizes,
// in order, the short-link form (youtu.be/<id>), the canonical watch form
// (?v=<id>) and the embed form (/embed/<id>). No match yields "".
func YouTubeThumbnail(rawURL string) string {
	id := extractYouTubeID(rawURL)
	if id == "" {
		return ""
	}
	return fmt.Sprintf(youtubeThumbnailTemplate, id)
}

func extractYouTubeID(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	if host == "youtu.be" {
		return firstPathSegment(u.Path)
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if idx := strings.Index(u.Path, "/embed/"); idx >= 0 {
		return firstPathSegment(u.Path[idx+len("/embed"):])
	}
	return ""
}

func firstPathSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
