package translate

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Store persists per-repository translation entries (content hash →
// translated text) as one blob per repo. Read-modify-write,
// last-writer-wins; no transactional guarantee is needed because a given
// (repo, hash) key is only ever written with the same value.
type Store interface {
	Load(ctx context.Context, repo string) (map[string]string, error)
	Save(ctx context.Context, repo string, entries map[string]string) error
}

// FileStore keeps one JSON file per repository under a cache directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(repo string) string {
	// Repo names come from the GitHub API but guard against separators
	// anyway.
	name := strings.ReplaceAll(repo, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Load(_ context.Context, repo string) (map[string]string, error) {
	data, err := os.ReadFile(s.path(repo))
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	return entries, nil
}

func (s *FileStore) Save(_ context.Context, repo string, entries map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(s.path(repo), data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

const memoSize = 4096

// Cached wraps a Backend with the persistent store plus an in-process
// LRU memo keyed repo:hash, so repeated texts within and across repos in
// one run never hit the store twice.
type Cached struct {
	backend Backend
	store   Store
	memo    *lru.Cache[string, string]
	logger  *slog.Logger
}

func NewCached(backend Backend, store Store, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	// Size is fixed; lru.New only errors on a non-positive size.
	memo, _ := lru.New[string, string](memoSize)
	return &Cached{backend: backend, store: store, memo: memo, logger: logger}
}

// Begin opens a translation session for one repository, loading its
// persisted entries. Cache read failures are swallowed: the session
// starts empty and every text costs one backend call, which is
// correctness-preserving.
func (c *Cached) Begin(ctx context.Context, repo string) *Session {
	entries, err := c.store.Load(ctx, repo)
	if err != nil {
		c.logger.Debug("translation cache load failed", "repo", repo, "error", err)
		entries = map[string]string{}
	}
	return &Session{cached: c, repo: repo, entries: entries}
}

// Session is one repository's view of the cache. Safe for concurrent
// Translate calls; callers holding the same new text in several places
// must collapse it to one call first, as TranslateBatch does.
type Session struct {
	cached  *Cached
	repo    string
	entries map[string]string

	mu    sync.Mutex
	added bool
}

// Translate resolves text through memo, store entries, then the backend.
func (s *Session) Translate(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusSkipped}, nil
	}
	hash := ContentHashHex([]byte(text))
	memoKey := s.repo + ":" + hash

	if translated, ok := s.cached.memo.Get(memoKey); ok {
		return Result{Text: translated, Status: StatusCached}, nil
	}

	s.mu.Lock()
	translated, ok := s.entries[hash]
	s.mu.Unlock()
	if ok {
		s.cached.memo.Add(memoKey, translated)
		return Result{Text: translated, Status: StatusCached}, nil
	}

	res, err := s.cached.backend.Translate(ctx, text)
	if err != nil || res.Status != StatusTranslated {
		return res, err
	}

	s.mu.Lock()
	s.entries[hash] = res.Text
	s.added = true
	s.mu.Unlock()
	s.cached.memo.Add(memoKey, res.Text)
	return res, nil
}

// Flush persists entries added during the session. Write failures are
// swallowed: the next run repeats the translation call.
func (s *Session) Flush(ctx context.Context) {
	s.mu.Lock()
	added := s.added
	entries := s.entries
	s.mu.Unlock()
	if !added {
		return
	}
	if err := s.cached.store.Save(ctx, s.repo, entries); err != nil {
		s.cached.logger.Debug("translation cache save failed", "repo", s.repo, "error", err)
	}
}
