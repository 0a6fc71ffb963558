package search

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/pagesearch/core"
)

const (
	DefaultTitleMaxLength    = 60
	DefaultDedupPrefixLength = 50
)

// Results is the outcome of one search over a page.
type Results struct {
	Query  string
	Page   string // Page label shown next to each result
	Items  []*core.MatchResult
	Groups []*core.ResultGroup // In order of first appearance
}

// Empty reports whether the search found nothing.
func (r *Results) Empty() bool {
	return len(r.Items) == 0
}

// Searcher runs queries against a single page and keeps the element cache
// used for navigation. It is safe for concurrent use; searches run one at a
// time so the cache always holds a single result set.
type Searcher struct {
	mu sync.Mutex

	page              core.Page
	matcher           *Matcher
	cache             *ResultCache
	minQueryLength    int
	titleMaxLength    int
	dedupPrefixLength int
	now               func() time.Time
	logger            *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCache shares a result cache with a Navigator.
func WithCache(cache *ResultCache) Option {
	return func(s *Searcher) error {
		if cache == nil {
			return ErrCacheRequired
		}
		s.cache = cache
		return nil
	}
}

// WithMinQueryLength sets the shortest query that triggers a scan.
func WithMinQueryLength(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("min query length must be positive, got %d", n)
		}
		s.minQueryLength = n
		return nil
	}
}

// WithTitleMaxLength sets the length at which result titles are truncated.
func WithTitleMaxLength(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("title max length must be positive, got %d", n)
		}
		s.titleMaxLength = n
		return nil
	}
}

// WithDedupPrefixLength sets how much of a title identifies a duplicate.
func WithDedupPrefixLength(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("dedup prefix length must be positive, got %d", n)
		}
		s.dedupPrefixLength = n
		return nil
	}
}

// WithClock overrides the time source used for result ids.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSearcher creates a searcher over page.
func NewSearcher(page core.Page, opts ...Option) (*Searcher, error) {
	if page == nil {
		return nil, ErrPageRequired
	}

	s := &Searcher{
		page:              page,
		cache:             NewResultCache(),
		minQueryLength:    core.MinQueryLength,
		titleMaxLength:    DefaultTitleMaxLength,
		dedupPrefixLength: DefaultDedupPrefixLength,
		now:               time.Now,
		logger:            slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.matcher = NewMatcher(s.logger)
	return s, nil
}

// Cache returns the cache populated by the latest search.
func (s *Searcher) Cache() *ResultCache {
	return s.cache
}

// PerformSearch scans the page for query.
// Returns core.ErrQueryTooShort for queries under the minimum length.
func (s *Searcher) PerformSearch(query string) (*Results, error) {
	return s.PerformSearchWithMonitor(query, nil)
}

// PerformSearchWithMonitor scans the page for query with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) PerformSearchWithMonitor(query string, monitor SearchMonitor) (*Results, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = core.NormalizeQuery(query)
	if err := core.ValidateQuery(query, s.minQueryLength); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	monitor.Start(query)
	s.logger.Debug("searching page", "query", query, "page", s.page.Title())

	// Results from the previous query can no longer be navigated to.
	s.cache.Reset()

	matches, candidates := s.matcher.Match(s.page, query)
	monitor.AfterScan(candidates, matches)

	results := &Results{
		Query: query,
		Page:  pageLabel(s.page.Title()),
		Items: make([]*core.MatchResult, 0, len(matches)),
	}

	seen := make(map[uint64]struct{}, len(matches))
	groups := make(map[core.Category]*core.ResultGroup)
	now := s.now()

	for _, match := range matches {
		c := Classify(match.Ref)
		if c.Title == "" {
			continue
		}

		tag := match.Ref.TagName()
		key := dedupKey(c.Category, c.Title, tag, s.dedupPrefixLength)
		if _, dup := seen[key]; dup {
			monitor.Duplicate(c.Category, c.Title)
			continue
		}
		seen[key] = struct{}{}

		result := &core.MatchResult{
			ID:          core.NewResultID(c.Category, now),
			Category:    c.Category,
			Title:       truncateTitle(c.Title, s.titleMaxLength),
			Description: c.Category.Description(),
			TagName:     tag,
			Page:        results.Page,
			Ref:         match.Ref,
		}
		s.cache.Put(result.ID, result.Ref, result.Category)
		results.Items = append(results.Items, result)
		monitor.Accepted(result)

		group, ok := groups[c.Category]
		if !ok {
			group = &core.ResultGroup{Category: c.Category, Label: c.Category.Label()}
			groups[c.Category] = group
			results.Groups = append(results.Groups, group)
		}
		group.Results = append(group.Results, result)
	}

	s.logger.Debug("search complete", "query", query, "candidates", candidates, "matches", len(matches), "results", len(results.Items))
	monitor.Finish(results)

	return results, nil
}
