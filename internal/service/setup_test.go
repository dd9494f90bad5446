package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cinesphere/cinesphere-server/internal/auth"
	"github.com/cinesphere/cinesphere-server/internal/logger"
	"github.com/cinesphere/cinesphere-server/internal/search"
	"github.com/cinesphere/cinesphere-server/internal/session"
	"github.com/cinesphere/cinesphere-server/internal/store/sqlite"
	"github.com/cinesphere/cinesphere-server/internal/validation"
)

// testParams keep Argon2id fast in tests.
var testParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type testEnv struct {
	store     *sqlite.Store
	sessions  *session.Store
	index     *search.Index
	tokens    *auth.TokenService
	auth      *AuthService
	watchList *WatchListService
	stats     *StatsService
}

// setupTest wires the services over a temporary SQLite database, an
// in-memory session store and an in-memory search index.
func setupTest(t *testing.T) *testEnv {
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

	v := validation.New()

	return &testEnv{
		store:     st,
		sessions:  sessions,
		index:     index,
		tokens:    tokens,
		auth:      NewAuthService(st, auth.NewHasher(testParams), tokens, sessions, v, log),
		watchList: NewWatchListService(st, index, v, 20, log),
		stats:     NewStatsService(st, log),
	}
}
