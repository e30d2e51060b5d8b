package classify

import (
	"strings"
	"time"
	"unicode"

	"github.com/feedfolio/core/internal/models"
	"go.uber.org/zap"
)

const (
	derivedIDPrefix = "dynamo-"
	derivedIDMaxLen = 20
	excerptMaxRunes = 200
)

// Normalizer turns raw table rows into canonical content items. Normalization
// is deterministic: the same RawRecord always yields the same ContentItem.
// The only side effect is diagnostic logging for repaired media links.
type Normalizer struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger, now: time.Now}
}

// Normalize maps one raw record into a ContentItem. Malformed fields are
// normalized to safe defaults; a half-written record still produces an item.
func (n *Normalizer) Normalize(raw models.RawRecord) models.ContentItem {
	rawTags := ParseTags(raw.Tags)
	generatedTags := ParseTags(raw.GeneratedTags)

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = strings.TrimSpace(raw.GeneratedTitle)
	}

	category := Categorize(raw.ContentType, rawTags, generatedTags, raw.Title, raw.GeneratedTitle)

	mediaLinks, repaired := SplitMediaLinks(raw.MediaLink)
	if repaired > 0 {
		n.logger.Warn("replaced truncated media links",
			zap.String("content_id", raw.ContentID),
			zap.String("content_type", raw.ContentType),
			zap.Int("repaired", repaired),
		)
	}

	image := ""
	if len(mediaLinks) > 0 {
		image = mediaLinks[0]
	}

	thumbnail := image
	if category == models.CategoryYouTubeVideo && thumbnail == "" {
		thumbnail = YouTubeThumbnail(raw.URL)
	}

	link := strings.TrimSpace(raw.URL)
	if link == "" {
		link = strings.TrimSpace(raw.EmbedLink)
	}

	return models.ContentItem{
		ID:            n.deriveID(raw),
		Title:         title,
		Excerpt:       deriveExcerpt(raw),
		Date:          n.resolveDate(raw),
		Category:      category,
		Tags:          MergeTags(generatedTags, rawTags),
		RawTags:       rawTags,
		GeneratedTags: generatedTags,
		Link:          link,
		URL:           strings.TrimSpace(raw.URL),
		Image:         image,
		Thumbnail:     thumbnail,
		MediaLinks:    mediaLinks,
		EmbedLink:     strings.TrimSpace(raw.EmbedLink),
	}
}

// deriveID prefers the pipeline-assigned content_id. Records that predate id
// assignment get a deterministic slug-based id, never a random one, so the
// same row scans to the same id every time.
func (n *Normalizer) deriveID(raw models.RawRecord) string {
	if id := strings.TrimSpace(raw.ContentID); id != "" {
		return id
	}
	slug := slugify(raw.ContentType + "-" + raw.Title + "-" + raw.DatePublished)
	if runes := []rune(slug); len(runes) > derivedIDMaxLen {
		slug = string(runes[:derivedIDMaxLen])
	}
	return derivedIDPrefix + strings.TrimRight(slug, "-")
}

func (n *Normalizer) resolveDate(raw models.RawRecord) string {
	for _, candidate := range []string{raw.DatePublished, raw.ProcessedAt} {
		if t, ok := ParseDate(candidate); ok {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return n.now().UTC().Format(time.RFC3339)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the timestamp formats the ingestion pipeline has written
// over time. Returns false for empty or unrecognized values.
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func deriveExcerpt(raw models.RawRecord) string {
	for _, candidate := range []string{raw.Description, raw.GeneratedDescription, raw.GeneratedContent} {
		if text := strings.TrimSpace(candidate); text != "" {
			return truncateAtWord(text, excerptMaxRunes)
		}
	}
	return ""
}

func truncateAtWord(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n") + "…"
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
