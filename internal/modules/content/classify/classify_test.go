package classify

import (
	"testing"

	"github.com/feedfolio/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"absent", nil, []string{}},
		{"string array", []any{"AI", " Data_Engineering "}, []string{"AI", "Data_Engineering"}},
		{"native string slice", []string{"one", "", "two"}, []string{"one", "two"}},
		{"wrapper objects", []any{map[string]any{"S": "golang"}, map[string]any{"S": " cloud "}}, []string{"golang", "cloud"}},
		{"comma separated", "ai, ml ,  ,data", []string{"ai", "ml", "data"}},
		{"mixed array", []any{"plain", map[string]any{"S": "wrapped"}, 42}, []string{"plain", "wrapped"}},
		{"unexpected shape", map[string]any{"tags": "x"}, []string{}},
		{"number", 7, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.in))
		})
	}
}

func TestMergeTags(t *testing.T) {
	merged := MergeTags([]string{"AI", "cloud", "AI"}, []string{"cloud", "ai", "data"})
	// Generated tags first, first occurrence wins, comparison is
	// case-sensitive so "ai" survives next to "AI".
	assert.Equal(t, []string{"AI", "cloud", "ai", "data"}, merged)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		tags        []string
		genTags     []string
		title       string
		genTitle    string
		want        models.Category
	}{
		{"humor tag", "post", []string{"humor"}, nil, "", "", models.CategoryQuickNote},
		{"humor generated tag", "post", nil, []string{"Humor"}, "", "", models.CategoryQuickNote},
		{"humor in title", "post", nil, nil, "This made me LOL today", "", models.CategoryQuickNote},
		{"humor in generated title", "post", nil, nil, "", "a bit of humor", models.CategoryQuickNote},
		{"plain post", "post", []string{}, nil, "Serious thoughts", "", models.CategoryLinkedInPost},
		{"article", "article", nil, nil, "", "", models.CategoryResearchReport},
		{"substack", "substack", nil, nil, "", "", models.CategoryComprehensiveStudy},
		{"medium", "medium", nil, nil, "", "", models.CategoryMediumPost},
		{"youtube", "youtube", nil, nil, "", "", models.CategoryYouTubeVideo},
		{"unknown defaults", "podcast", nil, nil, "", "", models.CategoryResearchReport},
		{"empty defaults", "", nil, nil, "", "", models.CategoryResearchReport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.contentType, tt.tags, tt.genTags, tt.title, tt.genTitle)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYouTubeThumbnail(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"short link", "https://youtu.be/abc123", "https://img.youtube.com/vi/abc123/hqdefault.jpg"},
		{"watch form", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
		{"embed form", "https://www.youtube.com/embed/xyz789", "https://img.youtube.com/vi/xyz789/hqdefault.jpg"},
		{"no match", "https://example.com/video/abc", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YouTubeThumbnail(tt.url))
		})
	}
}

func TestSplitMediaLinks(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		links, repaired := SplitMediaLinks(" https://a.example/x.png || https://b.example/y.png ||")
		assert.Equal(t, []string{"https://a.example/x.png", "https://b.example/y.png"}, links)
		assert.Zero(t, repaired)
	})

	t.Run("empty input", func(t *testing.T) {
		links, _ := SplitMediaLinks("   ")
		assert.Empty(t, links)
	})

	t.Run("truncated cdn fetch is replaced", func(t *testing.T) {
		links, repaired := SplitMediaLinks("https://res.cloudinary.com/feedfolio/image/fetch/w_800,f_auto")
		require.Len(t, links, 1)
		assert.Equal(t, 1, repaired)
		assert.Contains(t, links[0], "content-card.png")
	})

	t.Run("intact cdn fetch passes", func(t *testing.T) {
		in := "https://res.cloudinary.com/feedfolio/image/fetch/w_800/https%3A%2F%2Fimg.example%2Fa.png"
		links, repaired := SplitMediaLinks(in)
		require.Len(t, links, 1)
		assert.Zero(t, repaired)
		assert.Equal(t, in, links[0])
	})
}

func TestNormalizeDeterministicID(t *testing.T) {
	n := NewNormalizer(nil)
	raw := models.RawRecord{
		ContentType:   "youtube",
		Title:         "Building a Data Platform From Scratch",
		DatePublished: "2025-06-01",
	}
	first := n.Normalize(raw)
	second := n.Normalize(raw)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, len(first.ID) > len("dynamo-"), "derived id must not be empty")
	assert.Contains(t, first.ID, "dynamo-")
	assert.LessOrEqual(t, len(first.ID), len("dynamo-")+20)
}

func TestNormalizeUsesContentIDVerbatim(t *testing.T) {
	n := NewNormalizer(nil)
	item := n.Normalize(models.RawRecord{ContentID: "x", ContentType: "article"})
	assert.Equal(t, "x", item.ID)
}

func TestNormalizeFull(t *testing.T) {
	n := NewNormalizer(nil)
	item := n.Normalize(models.RawRecord{
		ContentID:     "yt-1",
		ContentType:   "youtube",
		Title:         "Intro to Stream Processing",
		Description:   "A walkthrough of windowing semantics.",
		Tags:          []any{"streaming", "data"},
		GeneratedTags: "Data_Engineering, streaming",
		URL:           "https://youtu.be/abc123",
		DatePublished: "2025-03-10T09:30:00Z",
	})

	assert.Equal(t, models.CategoryYouTubeVideo, item.Category)
	assert.Equal(t, "2025-03-10T09:30:00Z", item.Date)
	assert.Equal(t, []string{"Data_Engineering", "streaming", "data"}, item.Tags)
	assert.Equal(t, []string{"streaming", "data"}, item.RawTags)
	assert.Equal(t, []string{"Data_Engineering", "streaming"}, item.GeneratedTags)
	assert.Contains(t, item.Thumbnail, "abc123")
	assert.Equal(t, "A walkthrough of windowing semantics.", item.Excerpt)
	assert.Equal(t, "https://youtu.be/abc123", item.Link)
}

func TestNormalizePartialRecord(t *testing.T) {
	n := NewNormalizer(nil)
	// Mid-update rows can be almost empty; normalization must not panic and
	// must still produce usable defaults.
	item := n.Normalize(models.RawRecord{ContentType: "post"})
	assert.Equal(t, models.CategoryLinkedInPost, item.Category)
	assert.Empty(t, item.Tags)
	assert.NotEmpty(t, item.Date, "missing dates fall back to now")
	assert.NotEmpty(t, item.ID)
}

func TestNormalizeGeneratedFallbacks(t *testing.T) {
	n := NewNormalizer(nil)
	item := n.Normalize(models.RawRecord{
		ContentType:          "substack",
		GeneratedTitle:       "Quarterly Deep Dive",
		GeneratedDescription: "Everything shipped this quarter.",
	})
	assert.Equal(t, "Quarterly Deep Dive", item.Title)
	assert.Equal(t, "Everything shipped this quarter.", item.Excerpt)
	assert.Equal(t, models.CategoryComprehensiveStudy, item.Category)
}
