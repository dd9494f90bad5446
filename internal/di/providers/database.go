package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/cinesphere/cinesphere-server/internal/config"
	"github.com/cinesphere/cinesphere-server/internal/logger"
	"github.com/cinesphere/cinesphere-server/internal/search"
	"github.com/cinesphere/cinesphere-server/internal/service"
	"github.com/cinesphere/cinesphere-server/internal/session"
	"github.com/cinesphere/cinesphere-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// SessionStoreHandle wraps the session store with shutdown capability.
type SessionStoreHandle struct {
	*session.Store
}

// Shutdown implements do.Shutdownable.
func (h *SessionStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideSessionStore provides the Badger-backed session store.
func ProvideSessionStore(i do.Injector) (*SessionStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dir := cfg.Data.SessionsPath()
	sessions, err := session.Open(dir, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Session store initialized", "path", dir)

	return &SessionStoreHandle{Store: sessions}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve title index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}

// RebuildSearchIndex fills the title index from the database. The index
// lives in memory, so this runs on every start.
func RebuildSearchIndex(i do.Injector) {
	watchList := do.MustInvoke[*service.WatchListService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := watchList.Reindex(context.Background()); err != nil {
		log.Error("Search index rebuild failed", "error", err)
		return
	}

	docCount, _ := indexHandle.DocumentCount()
	log.Info("Search index ready", "documents", docCount)
}
