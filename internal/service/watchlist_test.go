package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

func addMovie(t *testing.T, env *testEnv, userID, movieID int64, title string) *domain.WatchListEntry {
	t.Helper()
	e, err := env.watchList.Add(context.Background(), userID, AddRequest{MovieID: movieID, Title: title})
	require.NoError(t, err)
	return e
}

func TestWatchListService_Add(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")

	entry, err := env.watchList.Add(ctx, userID, AddRequest{
		MovieID:    603,
		Title:      "  The Matrix ",
		PosterPath: "/matrix.jpg",
	})
	require.NoError(t, err)
	assert.Positive(t, entry.ID)
	assert.Equal(t, "The Matrix", entry.Title)
	assert.Equal(t, domain.StatusPending, entry.Status)

	ok, err := env.watchList.Exists(ctx, userID, 603)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWatchListService_Add_LowercaseStatus(t *testing.T) {
	env := setupTest(t)
	userID := register(t, env, "ana", "secreto123")

	entry, err := env.watchList.Add(context.Background(), userID, AddRequest{MovieID: 1, Title: "Up", Status: "watched"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWatched, entry.Status)
}

func TestWatchListService_Add_DuplicateIsNoOp(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")

	addMovie(t, env, userID, 603, "The Matrix")
	require.NoError(t, env.watchList.SetStatus(ctx, userID, 603, "WATCHED"))

	_, err := env.watchList.Add(ctx, userID, AddRequest{MovieID: 603, Title: "Matrix (renamed)"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	entries, err := env.watchList.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "The Matrix", entries[0].Title)
	assert.Equal(t, domain.StatusWatched, entries[0].Status)
}

func TestWatchListService_Add_Validation(t *testing.T) {
	env := setupTest(t)
	userID := register(t, env, "ana", "secreto123")

	tests := map[string]AddRequest{
		"zero movie id": {Title: "The Matrix"},
		"blank title":   {MovieID: 603, Title: "   "},
		"bad status":    {MovieID: 603, Title: "The Matrix", Status: "LATER"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := env.watchList.Add(context.Background(), userID, req)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "got %v", err)
		})
	}
}

func TestWatchListService_Remove(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")

	addMovie(t, env, userID, 603, "The Matrix")

	require.NoError(t, env.watchList.Remove(ctx, userID, 603))

	ok, err := env.watchList.Exists(ctx, userID, 603)
	require.NoError(t, err)
	assert.False(t, ok)

	err = env.watchList.Remove(ctx, userID, 603)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	hits, err := env.watchList.Search(ctx, userID, "matrix", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "removed entries leave the index")
}

func TestWatchListService_SetStatus(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")
	otherID := register(t, env, "beto", "secreto123")

	addMovie(t, env, userID, 603, "The Matrix")

	require.NoError(t, env.watchList.SetStatus(ctx, userID, 603, "watching"))
	entry, err := env.watchList.Get(ctx, userID, 603)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWatching, entry.Status)

	err = env.watchList.SetStatus(ctx, userID, 603, "LATER")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	err = env.watchList.SetStatus(ctx, userID, 999, "WATCHED")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = env.watchList.SetStatus(ctx, otherID, 603, "WATCHED")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound), "another user's entry is invisible")
}

func TestWatchListService_Get_NotFound(t *testing.T) {
	env := setupTest(t)
	userID := register(t, env, "ana", "secreto123")

	_, err := env.watchList.Get(context.Background(), userID, 603)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestWatchListService_Page(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")

	for i := int64(1); i <= 45; i++ {
		addMovie(t, env, userID, i, fmt.Sprintf("Movie %d", i))
	}

	var (
		all    []*domain.WatchListEntry
		offset int
		pages  int
	)
	for {
		page, err := env.watchList.Page(ctx, userID, store.OffsetParams{Offset: offset})
		require.NoError(t, err)
		pages++
		all = append(all, page.Items...)
		if page.LastPage {
			assert.Len(t, page.Items, 5)
			break
		}
		assert.Len(t, page.Items, 20)
		offset = page.NextOffset
	}
	assert.Equal(t, 3, pages)

	list, err := env.watchList.List(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, list, all)
	assert.Equal(t, int64(45), all[0].MovieID, "newest first")
}

func TestWatchListService_Page_EmptyList(t *testing.T) {
	env := setupTest(t)
	userID := register(t, env, "ana", "secreto123")

	page, err := env.watchList.Page(context.Background(), userID, store.OffsetParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.True(t, page.LastPage)
	assert.Equal(t, 20, page.Limit)
}

func TestWatchListService_Page_LimitOutOfRange(t *testing.T) {
	env := setupTest(t)
	userID := register(t, env, "ana", "secreto123")

	for _, params := range []store.OffsetParams{
		{Limit: store.MaxPageSize + 1},
		{Limit: -1},
		{Limit: 10, Offset: -5},
	} {
		_, err := env.watchList.Page(context.Background(), userID, params)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "params %+v: got %v", params, err)
	}
}

func TestWatchListService_Search(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")
	otherID := register(t, env, "beto", "secreto123")

	addMovie(t, env, userID, 194, "Amélie")
	addMovie(t, env, userID, 603, "The Matrix")
	addMovie(t, env, otherID, 604, "The Matrix Reloaded")

	hits, err := env.watchList.Search(ctx, userID, "amelie", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(194), hits[0].MovieID)

	hits, err = env.watchList.Search(ctx, userID, "matrix", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(603), hits[0].MovieID)

	_, err = env.watchList.Search(ctx, userID, "  ", 10)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestWatchListService_Reindex(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	userID := register(t, env, "ana", "secreto123")

	// Written straight to the store, so the index has never seen it.
	_, err := env.store.AddEntry(ctx, &domain.WatchListEntry{UserID: userID, MovieID: 13, Title: "Forrest Gump"})
	require.NoError(t, err)

	hits, err := env.watchList.Search(ctx, userID, "gump", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, env.watchList.Reindex(ctx))

	hits, err = env.watchList.Search(ctx, userID, "gump", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Forrest Gump", hits[0].Title)
}
