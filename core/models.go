//go:generate go run ../cmd/musgen

package core

import (
	"time"
)

// Category identifies the kind of page content a search match belongs to.
type Category int

const (
	// CategoryContent is the fallback for matches with no recognized context.
	CategoryContent Category = iota
	CategoryNews
	CategoryPost
	CategoryDeveloper
	CategoryGameUpdate
	CategorySection
	CategoryHeading
	CategoryCredits
	CategoryNavigation
	CategoryAbout
	CategorySettings
	CategoryEmergencyHamburg
)

type categoryInfo struct {
	slug        string
	label       string
	description string
}

var categories = map[Category]categoryInfo{
	CategoryContent:          {"content", "Content", "Page content"},
	CategoryNews:             {"news", "News Articles", "News article"},
	CategoryPost:             {"post", "Posts", "Post"},
	CategoryDeveloper:        {"developer", "Team Members", "Team member"},
	CategoryGameUpdate:       {"game-update", "Game Updates", "Game update"},
	CategorySection:          {"section", "Sections", "Section header"},
	CategoryHeading:          {"heading", "Page Content", "Page heading"},
	CategoryCredits:          {"credits", "Credits", "Credits content"},
	CategoryNavigation:       {"navigation", "Navigation", "Navigation link"},
	CategoryAbout:            {"about", "About Content", "About page content"},
	CategorySettings:         {"settings", "Settings", "Settings content"},
	CategoryEmergencyHamburg: {"emergency-hamburg", "Emergency Hamburg", "Emergency Hamburg content"},
}

// String returns the category slug used in result ids and dedup keys.
func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.slug
	}
	return categories[CategoryContent].slug
}

// Label returns the group title shown above results of this category.
func (c Category) Label() string {
	if info, ok := categories[c]; ok {
		return info.label
	}
	return categories[CategoryContent].label
}

// Description returns the secondary line shown under each result.
func (c Category) Description() string {
	if info, ok := categories[c]; ok {
		return info.description
	}
	return categories[CategoryContent].description
}

// SearchableElement is a page element considered during a single scan.
// It is rebuilt on every query evaluation.
type SearchableElement struct {
	Text             string  // Rendered text content
	SupplementalText string  // Out-of-band search payload (data-search-content)
	Ref              Element // Live element, never cloned
}

// CombinedText returns the text a query is matched against.
func (e SearchableElement) CombinedText() string {
	if e.SupplementalText == "" {
		return e.Text
	}
	return e.Text + " " + e.SupplementalText
}

// MatchResult is one visible search result.
type MatchResult struct {
	ID          string
	Category    Category
	Title       string // Truncated for display
	Description string
	TagName     string
	Page        string
	Ref         Element
}

// ResultGroup holds the results of one category, in match order.
type ResultGroup struct {
	Category Category
	Label    string
	Results  []*MatchResult
}

// QueryRecord is an entry of the persisted search history.
type QueryRecord struct {
	Query     string
	Timestamp time.Time
}
