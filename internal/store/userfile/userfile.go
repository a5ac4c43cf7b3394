package userfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/account"
)

// Store keeps the whole account table in one JSON file. Reads go through a
// TTL cache; a successful save drops the cache so the next load re-reads
// the file. Writes are plain whole-file overwrites: concurrent processes
// race and the last writer wins.
type Store struct {
	path string
	ttl  time.Duration
	log  *zap.Logger

	mu       sync.Mutex
	cached   account.Accounts
	cachedAt time.Time
}

// New builds a file store. A non-positive cacheTTL disables the read cache.
func New(path string, cacheTTL time.Duration, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, ttl: cacheTTL, log: log}
}

// Load returns a snapshot of the table. It fails soft: a missing or
// unreadable file and a document that does not parse all come back as an
// empty table with a nil error. Individually broken records are skipped.
func (s *Store) Load(ctx context.Context) (account.Accounts, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.ttl > 0 && time.Since(s.cachedAt) < s.ttl {
		return s.cached.Clone(), nil
	}

	accounts := s.readFile()
	s.cached = accounts
	s.cachedAt = time.Now()
	return accounts.Clone(), nil
}

func (s *Store) readFile() account.Accounts {
	accounts := account.Accounts{}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("account file unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return accounts
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		s.log.Warn("account file does not parse, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return accounts
	}

	for id, doc := range raw {
		var acc account.Account
		if err := json.Unmarshal(doc, &acc); err != nil {
			s.log.Warn("skipping malformed account record",
				zap.String("id", id), zap.Error(err))
			continue
		}
		accounts[id] = acc
	}
	return accounts
}

// Save overwrites the file with the given table and invalidates the read
// cache. There is deliberately no temp-file dance: a torn write is handled
// by the fail-soft Load, not prevented here.
func (s *Store) Save(ctx context.Context, accounts account.Accounts) error {
	_ = ctx

	b, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.cached = nil
	s.cachedAt = time.Time{}
	return nil
}
