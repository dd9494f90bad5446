// Package session keeps login sessions in a Badger key-value store.
//
// Sessions are written with a TTL equal to their remaining lifetime, so
// Badger drops expired sessions on its own.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cinesphere/cinesphere-server/internal/domain"
)

const (
	sessionPrefix       = "session:"
	sessionByUserPrefix = "session:user:"
)

var (
	// ErrSessionNotFound means the session never existed, was deleted or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired means the session's expiry has passed.
	ErrSessionExpired = errors.New("session expired")
)

// Store persists sessions.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a session store in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	return open(opts, logger)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

func userIndexKey(userID int64, sessionID string) []byte {
	return []byte(sessionByUserPrefix + strconv.FormatInt(userID, 10) + ":" + sessionID)
}

// Create stores sess until its ExpiresAt.
func (s *Store) Create(_ context.Context, sess *domain.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(sessionKey(sess.ID), data).WithTTL(ttl)); err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(userIndexKey(sess.UserID, sess.ID), nil).WithTTL(ttl))
	})
}

// Get returns a live session.
func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	// TTL expiry is lazy, so check explicitly.
	if sess.IsExpired(time.Now()) {
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(sessionKey(id)); err != nil {
			return err
		}
		if sess != nil {
			return txn.Delete(userIndexKey(sess.UserID, id))
		}
		return nil
	})
}

// CountForUser returns the number of live sessions the user holds.
func (s *Store) CountForUser(_ context.Context, userID int64) (int, error) {
	prefix := []byte(sessionByUserPrefix + strconv.FormatInt(userID, 10) + ":")
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// CollectGarbage reclaims value-log space left by expired and deleted
// sessions. It returns the number of files rewritten.
func (s *Store) CollectGarbage() (int, error) {
	rewritten := 0
	for {
		err := s.db.RunValueLogGC(0.5)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return rewritten, nil
		default:
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
	}
}
