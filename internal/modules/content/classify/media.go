package classify

import "strings"

const (
	// mediaLinkDelimiter is the literal sequence the ingestion pipeline uses
	// to join multiple media links into one table attribute.
	mediaLinkDelimiter = "||"

	cdnFetchMarker = "/image/fetch"

	// fallbackMediaURL replaces CDN fetch URLs that arrive without their
	// embedded origin (upstream truncation leaves the transform prefix but
	// cuts the encoded source URL off the end).
	fallbackMediaURL = "https://res.cloudinary.com/feedfolio/image/fetch/w_800,f_auto,q_auto/https%3A%2F%2Fstatic.feedfolio.dev%2Fimages%2Fcontent-card.png"
)

// SplitMediaLinks splits the media_link attribute into individual links,
// dropping empty segments and repairing truncated CDN fetch URLs. The first
// returned link, if any, is the record's primary image.
//
// The second return value counts segments that failed the integrity check and
// were replaced; callers use it for diagnostics only.
func SplitMediaLinks(mediaLink string) ([]string, int) {
	if strings.TrimSpace(mediaLink) == "" {
		return []string{}, 0
	}

	segments := strings.Split(mediaLink, mediaLinkDelimiter)
	links := make([]string, 0, len(segments))
	repaired := 0
	for _, seg := range segments {
		link := strings.TrimSpace(seg)
		if link == "" {
			continue
		}
		if isTruncatedCDNFetch(link) {
			link = fallbackMediaURL
			repaired++
		}
		links = append(links, link)
	}
	return links, repaired
}

// isTruncatedCDNFetch reports whether link looks like a Cloudinary fetch
// transform that lost its embedded origin URL. This is a defense against a
// known upstream truncation, not a general URL validator.
func isTruncatedCDNFetch(link string) bool {
	idx := strings.Index(link, cdnFetchMarker)
	if idx < 0 {
		return false
	}
	rest := link[idx+len(cdnFetchMarker):]
	return !strings.Contains(rest, "https%3A%2F%2F") &&
		!strings.Contains(rest, "http%3A%2F%2F") &&
		!strings.Contains(rest, "https://") &&
		!strings.Contains(rest, "http://")
}
