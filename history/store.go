package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/pagesearch/core"
	"github.com/poiesic/pagesearch/storage"
)

// Storage keys, one per list.
const (
	RecentSearchesKey = "recentSearches"
	SearchHistoryKey  = "searchHistory"
)

const (
	DefaultRecentLimit     = 5
	DefaultHistoryLimit    = 20
	DefaultSuggestionCount = 3
)

// Store records committed queries. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	kv      storage.KeyValueStore
	recent  []string
	history []core.QueryRecord

	recentLimit     int
	historyLimit    int
	suggestionCount int
	minQueryLength  int
	persistent      bool
	now             func() time.Time
	logger          *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithLimits sets how many recent queries and history records are kept.
func WithLimits(recent, history int) Option {
	return func(s *Store) error {
		if recent < 1 || history < 1 {
			return fmt.Errorf("%w: recent=%d history=%d", ErrInvalidLimit, recent, history)
		}
		s.recentLimit = recent
		s.historyLimit = history
		return nil
	}
}

// WithSuggestionCount sets how many recent queries Suggestions returns.
func WithSuggestionCount(n int) Option {
	return func(s *Store) error {
		if n < 1 {
			return fmt.Errorf("%w: suggestions=%d", ErrInvalidLimit, n)
		}
		s.suggestionCount = n
		return nil
	}
}

// WithMinQueryLength sets the shortest query worth recording.
func WithMinQueryLength(n int) Option {
	return func(s *Store) error {
		if n < 1 {
			return fmt.Errorf("%w: min query length=%d", ErrInvalidLimit, n)
		}
		s.minQueryLength = n
		return nil
	}
}

// WithClock overrides the time source used to stamp history records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// New creates a Store and loads both lists from kv. A nil kv gives a
// session-only store.
func New(ctx context.Context, kv storage.KeyValueStore, opts ...Option) (*Store, error) {
	s := &Store{
		kv:              kv,
		recentLimit:     DefaultRecentLimit,
		historyLimit:    DefaultHistoryLimit,
		suggestionCount: DefaultSuggestionCount,
		minQueryLength:  core.MinQueryLength,
		persistent:      kv != nil,
		now:             time.Now,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if kv != nil {
		s.load(ctx)
	}

	return s, nil
}

func (s *Store) load(ctx context.Context) {
	if raw, ok := s.read(ctx, RecentSearchesKey); ok {
		recent, err := storage.UnmarshalQueries([]byte(raw))
		if err != nil {
			s.logger.Warn("discarding unreadable recent searches", "err", err)
		} else {
			for _, q := range recent {
				if core.ValidateQuery(q, s.minQueryLength) == nil && !slices.Contains(s.recent, q) {
					s.recent = append(s.recent, q)
				}
			}
			s.recent = truncate(s.recent, s.recentLimit)
		}
	}

	if raw, ok := s.read(ctx, SearchHistoryKey); ok {
		records, err := storage.UnmarshalQueryRecords([]byte(raw))
		if err != nil {
			s.logger.Warn("discarding unreadable search history", "err", err)
		} else {
			for _, r := range records {
				if err := core.ValidateQueryRecord(&r, s.minQueryLength); err != nil {
					s.logger.Debug("dropping stored history record", "query", r.Query, "err", err)
					continue
				}
				s.history = append(s.history, r)
			}
			s.history = truncate(s.history, s.historyLimit)
		}
	}

	s.logger.Debug("history loaded", "recent", len(s.recent), "history", len(s.history), "persistent", s.persistent)
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("history storage unavailable, continuing for this session only", "key", key, "err", err)
			s.persistent = false
		}
		return "", false
	}
	return raw, true
}

// RecordQuery adds a committed query to both lists and writes them through.
// Queries shorter than the minimum length are ignored. A storage failure is
// returned after the in-memory lists have been updated.
func (s *Store) RecordQuery(ctx context.Context, query string) error {
	query = core.NormalizeQuery(query)
	if core.ValidateQuery(query, s.minQueryLength) != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]string, 0, len(s.recent)+1)
	recent = append(recent, query)
	for _, q := range s.recent {
		if q != query {
			recent = append(recent, q)
		}
	}
	s.recent = truncate(recent, s.recentLimit)

	history := make([]core.QueryRecord, 0, len(s.history)+1)
	history = append(history, core.QueryRecord{Query: query, Timestamp: s.now()})
	history = append(history, s.history...)
	s.history = truncate(history, s.historyLimit)

	return s.persist(ctx)
}

// persist writes both lists. Must hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}

	err := errors.Join(
		s.kv.Set(ctx, RecentSearchesKey, string(storage.MarshalQueries(s.recent))),
		s.kv.Set(ctx, SearchHistoryKey, string(storage.MarshalQueryRecords(s.history))),
	)
	if err != nil {
		if s.persistent {
			s.logger.Warn("history storage unavailable, continuing for this session only", "err", err)
		}
		s.persistent = false
		return fmt.Errorf("%w: %w", storage.ErrStorageUnavailable, err)
	}

	if !s.persistent {
		s.logger.Info("history storage available again")
	}
	s.persistent = true
	return nil
}

// Suggestions returns the most recent queries to offer for an empty input.
func (s *Store) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(truncate(s.recent, s.suggestionCount))
}

// Recent returns the recent queries, most recent first.
func (s *Store) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.recent)
}

// History returns the search log, most recent first.
func (s *Store) History() []core.QueryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Persistent reports whether the lists are currently reaching storage.
func (s *Store) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistent
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
