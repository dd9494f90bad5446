package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/cinesphere/cinesphere-server/internal/auth"
	"github.com/cinesphere/cinesphere-server/internal/catalog"
	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/logger"
	"github.com/cinesphere/cinesphere-server/internal/search"
	"github.com/cinesphere/cinesphere-server/internal/service"
	"github.com/cinesphere/cinesphere-server/internal/session"
	"github.com/cinesphere/cinesphere-server/internal/store/sqlite"
	"github.com/cinesphere/cinesphere-server/internal/validation"
)

// testEnvelope mirrors the success envelope with typed data.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type testServer struct {
	server  *Server
	api     humatest.TestAPI
	catalog *stubCatalog
}

// stubCatalog answers catalog calls without a network.
type stubCatalog struct {
	err error
}

func (c *stubCatalog) Popular(_ context.Context, page int) (*domain.MoviePage, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &domain.MoviePage{Page: max(page, 1), TotalPages: 2, Results: []domain.Movie{{ID: 603, Title: "The Matrix"}}}, nil
}

func (c *stubCatalog) Search(_ context.Context, _ string, page int) (*domain.MoviePage, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &domain.MoviePage{Page: max(page, 1), TotalPages: 1}, nil
}

func (c *stubCatalog) Genres(context.Context) ([]domain.Genre, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []domain.Genre{{ID: 28, Name: "Action"}}, nil
}

func (c *stubCatalog) Discover(_ context.Context, p catalog.DiscoverParams) (*domain.MoviePage, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &domain.MoviePage{Page: max(p.Page, 1), TotalPages: 1}, nil
}

// setupTestServer builds a server over a temporary SQLite database with
// in-memory sessions and search.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.Discard().Logger

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions, err := session.OpenInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	index, err := search.New(search.Options{Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	hasher := auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	v := validation.New()
	cat := &stubCatalog{}

	services := &Services{
		Auth:      service.NewAuthService(st, hasher, tokens, sessions, v, log),
		WatchList: service.NewWatchListService(st, index, v, 20, log),
		Stats:     service.NewStatsService(st, log),
		Catalog:   service.NewCatalogService(cat, log),
	}

	srv := NewServer(st, services, Config{LoginPerMinute: 5}, log)
	t.Cleanup(srv.Close)

	return &testServer{
		server:  srv,
		api:     humatest.Wrap(t, srv.API()),
		catalog: cat,
	}
}

// decode unmarshals an enveloped response.
func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return env
}

// registerAndLogin creates a user and returns an Authorization header.
func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[AuthResponse](t, resp)
	require.NotEmpty(t, env.Data.AccessToken)
	return "Authorization: Bearer " + env.Data.AccessToken
}
