package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/cinesphere/cinesphere-server/internal/domain"
)

// Index wraps an in-memory Bleve index of watch-list entries.
//
// All public methods are safe for concurrent use. Rebuild takes the write
// lock and swaps the underlying index.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	Logger *slog.Logger // uses slog.Default if nil
}

// New creates an empty in-memory index.
func New(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{index: index, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexEntry adds or replaces the document for e.
func (s *Index) IndexEntry(e *domain.WatchListEntry) error {
	doc := EntryDocument(e)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID(), doc.ToMap())
}

// DeleteEntry removes a user's movie from the index. Deleting a missing
// document is not an error.
func (s *Index) DeleteEntry(userID, movieID int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(DocumentID(userID, movieID))
}

// DocumentCount returns the number of indexed entries.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index contents with entries.
func (s *Index) Rebuild(entries []*domain.WatchListEntry) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	const batchSize = 500

	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))

		batch := fresh.NewBatch()
		for _, e := range entries[i:end] {
			doc := EntryDocument(e)
			if err := batch.Index(doc.ID(), doc.ToMap()); err != nil {
				fresh.Close()
				return fmt.Errorf("batch index %s: %w", doc.ID(), err)
			}
		}
		if err := fresh.Batch(batch); err != nil {
			fresh.Close()
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}

	s.logger.Info("rebuilt search index", "entries", len(entries))
	return nil
}
