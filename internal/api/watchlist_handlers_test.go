package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

func addMovie(t *testing.T, ts *testServer, authz string, movieID int64, title string) *domain.WatchListEntry {
	t.Helper()
	resp := ts.api.Post("/api/v1/watchlist", authz, map[string]any{
		"movie_id": movieID,
		"title":    title,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[*domain.WatchListEntry](t, resp).Data
}

func TestWatchList_AddAndCheck(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")

	entry := addMovie(t, ts, authz, 603, "The Matrix")
	assert.Equal(t, int64(603), entry.MovieID)
	assert.Equal(t, domain.StatusPending, entry.Status)

	resp := ts.api.Get("/api/v1/watchlist/603", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	membership := decode[WatchListMembership](t, resp).Data
	assert.True(t, membership.InWatchList)
	require.NotNil(t, membership.Entry)
	assert.Equal(t, "The Matrix", membership.Entry.Title)

	resp = ts.api.Get("/api/v1/watchlist/604", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	membership = decode[WatchListMembership](t, resp).Data
	assert.False(t, membership.InWatchList)
	assert.Nil(t, membership.Entry)
}

func TestWatchList_AddDuplicateConflicts(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")

	addMovie(t, ts, authz, 603, "The Matrix")

	resp := ts.api.Post("/api/v1/watchlist", authz, map[string]any{
		"movie_id": 603,
		"title":    "The Matrix (again)",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "ALREADY_EXISTS", decode[any](t, resp).Code)

	resp = ts.api.Get("/api/v1/watchlist/all", authz)
	entries := decode[WatchListEntries](t, resp).Data
	require.Equal(t, 1, entries.Total)
	assert.Equal(t, "The Matrix", entries.Items[0].Title)
}

func TestWatchList_AddInvalidStatus(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")

	resp := ts.api.Post("/api/v1/watchlist", authz, map[string]any{
		"movie_id": 603,
		"title":    "The Matrix",
		"status":   "LOVED",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestWatchList_SetStatus(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")
	addMovie(t, ts, authz, 603, "The Matrix")

	resp := ts.api.Put("/api/v1/watchlist/603/status", authz, map[string]any{"status": "watched"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.StatusWatched, decode[*domain.WatchListEntry](t, resp).Data.Status)

	resp = ts.api.Put("/api/v1/watchlist/999/status", authz, map[string]any{"status": "WATCHED"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[any](t, resp).Code)
}

func TestWatchList_Remove(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")
	addMovie(t, ts, authz, 603, "The Matrix")

	resp := ts.api.Delete("/api/v1/watchlist/603", authz)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/watchlist/603", authz)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestWatchList_Paging(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")
	for i := range 7 {
		addMovie(t, ts, authz, int64(100+i), fmt.Sprintf("Movie %d", i))
	}

	var seen []int64
	offset := 0
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "paging did not terminate")

		resp := ts.api.Get(fmt.Sprintf("/api/v1/watchlist?limit=3&offset=%d", offset), authz)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		page := decode[store.OffsetPage[*domain.WatchListEntry]](t, resp).Data

		for _, e := range page.Items {
			seen = append(seen, e.MovieID)
		}
		if page.LastPage {
			break
		}
		offset = page.NextOffset
	}

	// Newest first.
	assert.Equal(t, []int64{106, 105, 104, 103, 102, 101, 100}, seen)
}

func TestWatchList_PageLimitTooLarge(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")

	resp := ts.api.Get("/api/v1/watchlist?limit=500", authz)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestWatchList_ScopedToUser(t *testing.T) {
	ts := setupTestServer(t)
	neo := ts.registerAndLogin(t, "neo")
	trinity := ts.registerAndLogin(t, "trinity")

	addMovie(t, ts, neo, 603, "The Matrix")

	resp := ts.api.Get("/api/v1/watchlist/603", trinity)
	assert.False(t, decode[WatchListMembership](t, resp).Data.InWatchList)

	resp = ts.api.Delete("/api/v1/watchlist/603", trinity)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Trinity may add the same movie independently.
	addMovie(t, ts, trinity, 603, "The Matrix")
}

func TestWatchList_Search(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")
	addMovie(t, ts, authz, 1, "Amélie")
	addMovie(t, ts, authz, 2, "The Matrix")

	resp := ts.api.Get("/api/v1/watchlist/search?q=amelie", authz)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	entries := decode[WatchListEntries](t, resp).Data
	require.Equal(t, 1, entries.Total)
	assert.Equal(t, int64(1), entries.Items[0].MovieID)

	resp = ts.api.Get("/api/v1/watchlist/search?q=", authz)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStats(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")
	addMovie(t, ts, authz, 1, "Alien")
	addMovie(t, ts, authz, 2, "Aliens")
	resp := ts.api.Put("/api/v1/watchlist/2/status", authz, map[string]any{"status": "WATCHING"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/stats", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	stats := decode[domain.WatchListStats](t, resp).Data

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusWatching])
	assert.Equal(t, 0, stats.ByStatus[domain.StatusWatched])
}

func TestStats_Count(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.registerAndLogin(t, "neo")
	addMovie(t, ts, authz, 1, "Alien")
	addMovie(t, ts, authz, 2, "Aliens")
	addMovie(t, ts, authz, 3, "Alien 3")
	resp := ts.api.Put("/api/v1/watchlist/3/status", authz, map[string]any{"status": "ABANDONED"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/stats/count", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 3, decode[CountResponse](t, resp).Data.Count)

	resp = ts.api.Get("/api/v1/stats/count?status=abandoned", authz)
	require.Equal(t, http.StatusOK, resp.Code)
	count := decode[CountResponse](t, resp).Data
	assert.Equal(t, 1, count.Count)
	assert.Equal(t, "ABANDONED", count.Status)

	resp = ts.api.Get("/api/v1/stats/count?status=LOVED", authz)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
