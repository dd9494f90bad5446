package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const popularBody = `{
  "page": 1,
  "total_pages": 500,
  "results": [
    {"id": 603, "title": "Matrix", "poster_path": "/matrix.jpg", "overview": "Neo", "vote_average": 8.2, "release_date": "1999-03-30"},
    {"id": 155, "title": "El caballero oscuro", "poster_path": null, "overview": "", "vote_average": 8.5, "release_date": "2008-07-16"}
  ]
}`

// newTestClient points a client at a test server and records the last request.
func newTestClient(t *testing.T, status int, body string) (*Client, func() url.URL) {
	t.Helper()
	var (
		mu   sync.Mutex
		last url.URL
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		last = *r.URL
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "k3y", BaseURL: srv.URL + "/3"}, nil)
	require.NoError(t, err)
	return c, func() url.URL {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestPopular(t *testing.T) {
	c, lastReq := newTestClient(t, http.StatusOK, popularBody)

	page, err := c.Popular(context.Background(), 1)
	require.NoError(t, err)

	last := lastReq()
	assert.Equal(t, "/3/movie/popular", last.Path)
	q := last.Query()
	assert.Equal(t, "k3y", q.Get("api_key"))
	assert.Equal(t, "es-ES", q.Get("language"))
	assert.Equal(t, "1", q.Get("page"))

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 500, page.TotalPages)
	require.Len(t, page.Results, 2)
	assert.Equal(t, int64(603), page.Results[0].ID)
	assert.Equal(t, "Matrix", page.Results[0].Title)
	assert.InDelta(t, 8.2, page.Results[0].Rating, 0.001)
	assert.Equal(t, "", page.Results[1].PosterPath)
}

func TestSearch(t *testing.T) {
	c, lastReq := newTestClient(t, http.StatusOK, popularBody)

	_, err := c.Search(context.Background(), "la matrix", 2)
	require.NoError(t, err)

	last := lastReq()
	assert.Equal(t, "/3/search/movie", last.Path)
	assert.Equal(t, "la matrix", last.Query().Get("query"))
	assert.Equal(t, "2", last.Query().Get("page"))
}

func TestGenres(t *testing.T) {
	c, lastReq := newTestClient(t, http.StatusOK, `{"genres":[{"id":28,"name":"Acción"},{"id":18,"name":"Drama"}]}`)

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)

	last := lastReq()
	assert.Equal(t, "/3/genre/movie/list", last.Path)
	require.Len(t, genres, 2)
	assert.Equal(t, "Acción", genres[0].Name)
	assert.Equal(t, int64(18), genres[1].ID)
}

func TestDiscover_SendsOnlySetFilters(t *testing.T) {
	c, lastReq := newTestClient(t, http.StatusOK, popularBody)

	_, err := c.Discover(context.Background(), DiscoverParams{Year: 1999, MinRating: 7.5, GenreID: 28, Page: 3})
	require.NoError(t, err)

	last := lastReq()
	q := last.Query()
	assert.Equal(t, "/3/discover/movie", last.Path)
	assert.Equal(t, "1999", q.Get("primary_release_year"))
	assert.Equal(t, "7.5", q.Get("vote_average.gte"))
	assert.Equal(t, "28", q.Get("with_genres"))
	assert.Equal(t, "3", q.Get("page"))

	_, err = c.Discover(context.Background(), DiscoverParams{})
	require.NoError(t, err)

	last = lastReq()
	q = last.Query()
	assert.False(t, q.Has("primary_release_year"))
	assert.False(t, q.Has("vote_average.gte"))
	assert.False(t, q.Has("with_genres"))
	assert.False(t, q.Has("page"))
}

func TestNon200IsStatusError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnauthorized, `{"status_message":"Invalid API key"}`)

	_, err := c.Popular(context.Background(), 1)

	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "Invalid API key")
}

func TestMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"page": "one"`)

	_, err := c.Popular(context.Background(), 1)
	assert.Error(t, err)
}

func TestMissingAPIKey(t *testing.T) {
	c, err := NewClient(Config{}, nil)
	require.NoError(t, err)

	_, err = c.Popular(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Config{APIKey: "k", BaseURL: base}, nil)
	require.NoError(t, err)

	_, err = c.Genres(context.Background())
	assert.Error(t, err)
}
