package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/feedfolio/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkItem(id string, category models.Category, tags ...string) models.ContentItem {
	if tags == nil {
		tags = []string{}
	}
	return models.ContentItem{ID: id, Category: category, Tags: tags}
}

func mkItems(n int, category models.Category) []models.ContentItem {
	items := make([]models.ContentItem, n)
	for i := range items {
		items[i] = mkItem(fmt.Sprintf("item-%02d", i), category)
	}
	return items
}

func TestListDeduplicatesByID(t *testing.T) {
	items := []models.ContentItem{
		mkItem("x", models.CategoryLinkedInPost, "newer"),
		mkItem("y", models.CategoryLinkedInPost),
		mkItem("x", models.CategoryLinkedInPost, "older"),
	}

	result := List(items, ListOptions{Limit: 10})
	require.Equal(t, 2, result.Total)
	// First occurrence wins: input is newest-first.
	assert.Equal(t, []string{"newer"}, result.Items[0].Tags)

	seen := map[string]bool{}
	for _, item := range result.Items {
		assert.False(t, seen[item.ID], "duplicate id %s in page", item.ID)
		seen[item.ID] = true
	}
}

func TestListCategoryFilter(t *testing.T) {
	items := append(mkItems(3, models.CategoryYouTubeVideo), mkItems(2, models.CategoryMediumPost)...)
	for i := range items {
		items[i].ID = fmt.Sprintf("%s-%d", items[i].Category, i)
	}

	result := List(items, ListOptions{Category: "youtube-video", Limit: 10})
	assert.Equal(t, 3, result.Total)
	for _, item := range result.Items {
		assert.Equal(t, models.CategoryYouTubeVideo, item.Category)
	}

	all := List(items, ListOptions{Category: "all", Limit: 10})
	assert.Equal(t, 5, all.Total)
}

func TestListTagSearch(t *testing.T) {
	item := mkItem("a", models.CategoryResearchReport, "Data_Engineering", "AI")
	other := mkItem("b", models.CategoryResearchReport, "design")

	tests := []struct {
		name  string
		terms []string
		want  int
	}{
		{"case-insensitive substring", []string{"data"}, 1},
		{"no match", []string{"ml"}, 0},
		{"or across terms", []string{"ml", "ai"}, 1},
		{"matches either item", []string{"design", "ai"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := List([]models.ContentItem{item, other}, ListOptions{Tags: tt.terms, Limit: 10})
			assert.Equal(t, tt.want, result.Total)
		})
	}
}

func TestListCategoryTakesPrecedenceOverTags(t *testing.T) {
	items := []models.ContentItem{
		mkItem("a", models.CategoryYouTubeVideo, "ai"),
		mkItem("b", models.CategoryMediumPost, "ai"),
	}

	result := List(items, ListOptions{Category: "medium-post", Tags: []string{"ai"}, Limit: 10})
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "b", result.Items[0].ID)
}

func TestListPaginationCorrectness(t *testing.T) {
	items := mkItems(7, models.CategoryResearchReport)

	for offset := 0; offset <= 8; offset++ {
		for limit := 1; limit <= 8; limit++ {
			result := List(items, ListOptions{Offset: offset, Limit: limit})
			assert.Equal(t, 7, result.Total)

			wantStart := offset
			if wantStart > 7 {
				wantStart = 7
			}
			wantEnd := wantStart + ClampLimit("", limit)
			if wantEnd > 7 {
				wantEnd = 7
			}
			require.Len(t, result.Items, wantEnd-wantStart, "offset=%d limit=%d", offset, limit)
			for i, item := range result.Items {
				assert.Equal(t, items[wantStart+i].ID, item.ID)
			}
		}
	}
}

func TestListOffsetPastEnd(t *testing.T) {
	result := List(mkItems(3, models.CategoryQuickNote), ListOptions{Offset: 50, Limit: 10})
	assert.Empty(t, result.Items)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 50, result.Offset)
}

func TestListIdempotent(t *testing.T) {
	items := mkItems(5, models.CategoryMediumPost)
	opts := ListOptions{Offset: 1, Limit: 2}
	assert.Equal(t, List(items, opts), List(items, opts))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit("", 0))
	assert.Equal(t, DefaultLimit, ClampLimit("", -5))
	assert.Equal(t, 15, ClampLimit("youtube-video", 15))
	assert.Equal(t, MaxLimit, ClampLimit("youtube-video", 100))
	assert.Equal(t, DeepMaxLimit, ClampLimit("linkedin-post", 100))
	assert.Equal(t, 30, ClampLimit("linkedin-post", 30))
}

type fakeStore struct {
	records []models.RawRecord
	err     error
	scans   int
}

func (f *fakeStore) FetchAll(context.Context) ([]models.RawRecord, error) {
	f.scans++
	if f.err != nil {
		return []models.RawRecord{}, f.err
	}
	return f.records, nil
}

func TestCorpusNormalizesAndSurvivesCrossPageDuplicates(t *testing.T) {
	// Two scan pages erroneously delivered the same content_id; after
	// normalization plus the list dedup step exactly one item remains.
	store := &fakeStore{records: []models.RawRecord{
		{ContentID: "x", ContentType: "youtube", DatePublished: "2025-05-01"},
		{ContentID: "y", ContentType: "post", DatePublished: "2025-04-01"},
		{ContentID: "x", ContentType: "youtube", DatePublished: "2025-05-01"},
	}}
	svc := NewService(store, nil, 0, nil)

	corpus, err := svc.Corpus(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus, 3, "normalization alone must not drop records")

	result := List(corpus, ListOptions{Limit: 10})
	assert.Equal(t, 2, result.Total)

	matches := 0
	for _, item := range result.Items {
		if item.ID == "x" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestCorpusStoreFailure(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("scan failed")}, nil, 0, nil)
	_, err := svc.Corpus(context.Background())
	assert.Error(t, err, "a degraded corpus must not look like an empty one")
}

func TestCategoryCounts(t *testing.T) {
	items := []models.ContentItem{
		mkItem("a", models.CategoryYouTubeVideo),
		mkItem("b", models.CategoryYouTubeVideo),
		mkItem("a", models.CategoryYouTubeVideo), // duplicate id
		mkItem("c", models.CategoryQuickNote),
	}

	counts := CategoryCounts(items)
	assert.Equal(t, 2, counts[models.CategoryYouTubeVideo])
	assert.Equal(t, 1, counts[models.CategoryQuickNote])
	assert.Equal(t, 0, counts[models.CategoryMediumPost])
	assert.Len(t, counts, len(models.AllCategories()))
}
