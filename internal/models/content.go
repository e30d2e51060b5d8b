package models

// Category is the canonical content classification. Every stored record maps
// onto exactly one of these via classify.Categorize.
type Category string

const (
	CategoryYouTubeVideo       Category = "youtube-video"
	CategoryLinkedInPost       Category = "linkedin-post"
	CategoryQuickNote          Category = "quick-note"
	CategoryResearchReport     Category = "research-report"
	CategoryComprehensiveStudy Category = "comprehensive-study"
	CategoryMediumPost         Category = "medium-post"
)

// AllCategories lists every category in presentation order.
func AllCategories() []Category {
	return []Category{
		CategoryYouTubeVideo,
		CategoryLinkedInPost,
		CategoryQuickNote,
		CategoryResearchReport,
		CategoryComprehensiveStudy,
		CategoryMediumPost,
	}
}

// Valid reports whether c is one of the canonical categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryYouTubeVideo, CategoryLinkedInPost, CategoryQuickNote,
		CategoryResearchReport, CategoryComprehensiveStudy, CategoryMediumPost:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// RawRecord is one row of the upstream content table, read-only to this
// service. The ingestion pipeline populates it incrementally, so every field
// may be missing or half-written; Tags and GeneratedTags arrive in several
// historical shapes (string, string array, {S: string} wrapper array) and are
// decoded leniently into `any`.
type RawRecord struct {
	ContentID            string `dynamodbav:"content_id"`
	ContentType          string `dynamodbav:"content_type"`
	Title                string `dynamodbav:"title"`
	GeneratedTitle       string `dynamodbav:"generated_title"`
	Description          string `dynamodbav:"description"`
	GeneratedDescription string `dynamodbav:"generated_description"`
	GeneratedContent     string `dynamodbav:"generated_content"`
	Tags                 any    `dynamodbav:"tags"`
	GeneratedTags        any    `dynamodbav:"generated_tags"`
	MediaLink            string `dynamodbav:"media_link"`
	URL                  string `dynamodbav:"url"`
	EmbedLink            string `dynamodbav:"embed_link"`
	DatePublished        string `dynamodbav:"date_published"`
	ProcessedAt          string `dynamodbav:"processed_at"`
}

// ContentItem is the canonical unit served to clients. Immutable once
// produced; its ID is stable across repeated normalization of the same
// RawRecord so client-side deduplication stays correct between requests.
type ContentItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Date          string   `json:"date"`
	Category      Category `json:"category"`
	Tags          []string `json:"tags"`
	RawTags       []string `json:"rawTags"`
	GeneratedTags []string `json:"generatedTags"`
	Link          string   `json:"link"`
	URL           string   `json:"url"`
	Image         string   `json:"image"`
	Thumbnail     string   `json:"thumbnail"`
	MediaLinks    []string `json:"mediaLinks"`
	EmbedLink     string   `json:"embedLink,omitempty"`
}
