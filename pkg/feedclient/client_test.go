package feedclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedfolio/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The exported API names items through package-local aliases, so importers
// outside the module never need the internal models path.
var (
	_ ContentItem = models.ContentItem{}
	_ Category    = models.CategoryQuickNote
)

func TestClientList(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/content", r.URL.Path)
		gotQuery = map[string]string{
			"type":   r.URL.Query().Get("type"),
			"tags":   r.URL.Query().Get("tags"),
			"limit":  r.URL.Query().Get("limit"),
			"offset": r.URL.Query().Get("offset"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"posts":[{"id":"a","category":"quick-note"}],"total":1,"offset":5,"limit":3,"type":"quick-note"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", nil)
	page, err := client.List(context.Background(), ListParams{
		Category: "quick-note",
		Limit:    3,
		Offset:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, "quick-note", gotQuery["type"])
	assert.Equal(t, "", gotQuery["tags"])
	assert.Equal(t, "3", gotQuery["limit"])
	assert.Equal(t, "5", gotQuery["offset"])

	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "a", page.Posts[0].ID)
	assert.Equal(t, models.CategoryQuickNote, page.Posts[0].Category)
}

func TestClientListTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ai,cloud", r.URL.Query().Get("tags"))
		assert.Empty(t, r.URL.Query().Get("type"))
		w.Write([]byte(`{"posts":[],"total":0,"offset":0,"limit":10,"type":"all"}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, nil).List(context.Background(), ListParams{Tags: []string{"ai", "cloud"}})
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
}

func TestClientListServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).List(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClientCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/content/counts", r.URL.Path)
		w.Write([]byte(`{"counts":{"youtube-video":2,"linkedin-post":7},"total":9}`))
	}))
	defer srv.Close()

	counts, err := NewClient(srv.URL, nil).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, counts.Total)
	assert.Equal(t, 2, counts.Counts[models.CategoryYouTubeVideo])
	assert.Equal(t, 7, counts.Counts[models.CategoryLinkedInPost])
}
