package search

import (
	"log/slog"

	"github.com/poiesic/pagesearch/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterScan(candidates int, matches []core.SearchableElement)
	Accepted(result *core.MatchResult)
	Duplicate(category core.Category, title string)
	Finish(results *Results)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterScan(_ int, _ []core.SearchableElement) {}
func (n *noopMonitor) Accepted(_ *core.MatchResult)               {}
func (n *noopMonitor) Duplicate(_ core.Category, _ string)        {}
func (n *noopMonitor) Finish(_ *Results)                          {}

// LoggingMonitor reports every search stage at debug level.
type LoggingMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LoggingMonitor)(nil)

func (m *LoggingMonitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *LoggingMonitor) Start(query string) {
	m.logger().Debug("search started", "query", query)
}

func (m *LoggingMonitor) AfterScan(candidates int, matches []core.SearchableElement) {
	m.logger().Debug("scan complete", "candidates", candidates, "matches", len(matches))
}

func (m *LoggingMonitor) Accepted(result *core.MatchResult) {
	m.logger().Debug("result accepted", "id", result.ID, "category", result.Category, "title", result.Title)
}

func (m *LoggingMonitor) Duplicate(category core.Category, title string) {
	m.logger().Debug("duplicate dropped", "category", category, "title", title)
}

func (m *LoggingMonitor) Finish(results *Results) {
	m.logger().Debug("search finished", "query", results.Query, "results", len(results.Items), "groups", len(results.Groups))
}
