package search

import (
	"log/slog"
	"strings"

	"github.com/poiesic/pagesearch/core"
)

// PayloadAttribute carries extra searchable text that is not rendered.
const PayloadAttribute = "data-search-content"

// CandidateSelector selects every element a scan considers: generic
// text-bearing tags, the site's known content classes and any element with a
// search payload.
const CandidateSelector = `h1, h2, h3, h4, h5, h6, p, span, div, li, td, th, label, button, a,
	.news-item-title, .news-item-description, .news-item-date,
	.post-title, .post-date, .game-update-title, .game-update-info,
	.section-text, .gray-section-text, .mission-text, .focus-text, .commitment-text,
	.dev-name, .dev-username, .role-tag, .credits-title, .credits-subtitle,
	.about-title, .about-subtitle, .section-title, .focus-title, .thank-you-title,
	.contact-item, .stat-label, .nav-section-item, .nav-section-title,
	.emergency-hamburg-title, .role-title, .game-description, .play-button,
	.settings-section, .form-group, .checkbox-label, .status-label, .status-value,
	[data-search-content]`

var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// Matcher finds the page elements whose text contains a query.
type Matcher struct {
	selector      string
	minTextLength int
	logger        *slog.Logger
}

// NewMatcher creates a matcher over CandidateSelector.
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		selector:      CandidateSelector,
		minTextLength: core.MinQueryLength,
		logger:        logger,
	}
}

// Match scans page and returns the matching elements in document order,
// along with the number of candidates considered. The query is expected to be
// normalized; comparison is a case-insensitive substring test.
func (m *Matcher) Match(page core.Page, query string) ([]core.SearchableElement, int) {
	needle := strings.ToLower(query)
	candidates := page.QueryAll(m.selector)
	matches := make([]core.SearchableElement, 0)

	for _, el := range candidates {
		if skippedTags[el.TagName()] {
			continue
		}

		payload, _ := el.Attr(PayloadAttribute)
		payload, ok := sanitizePayload(payload)
		if !ok {
			m.logger.Debug("ignoring malformed search payload", "element", el)
		}

		candidate := core.SearchableElement{
			Text:             el.Text(),
			SupplementalText: payload,
			Ref:              el,
		}
		combined := strings.TrimSpace(candidate.CombinedText())
		if core.QueryLength(combined) < m.minTextLength {
			continue
		}
		if !el.IsRendered() {
			continue
		}

		if strings.Contains(strings.ToLower(combined), needle) {
			matches = append(matches, candidate)
		}
	}

	return matches, len(candidates)
}
