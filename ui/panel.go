package ui

import (
	"fmt"

	"github.com/poiesic/pagesearch/core"
	"github.com/poiesic/pagesearch/search"
)

const (
	suggestionsLabel  = "Recent Searches"
	noResultsHint     = "Try different keywords or check spelling"
	noResultsTemplate = `No results found for "%s"`
)

// RowKind identifies what a panel row displays.
type RowKind int

const (
	RowHeader     RowKind = iota // result count
	RowGroup                     // category or "Recent Searches" heading
	RowResult                    // one match; selecting it navigates
	RowSuggestion                // one recent query; selecting it searches
	RowNoResults                 // empty result message
)

// Row is one line of the results panel.
type Row struct {
	Kind     RowKind
	Text     string
	Detail   string
	Count    int
	ResultID string
	Category core.Category
	Query    string
}

// Selectable reports whether the row can carry the active marker.
func (r Row) Selectable() bool {
	return r.Kind == RowResult || r.Kind == RowSuggestion
}

// PanelMode says what the panel was last filled with.
type PanelMode int

const (
	PanelEmpty PanelMode = iota
	PanelSuggestions
	PanelResults
)

// Panel is the content and visibility of the results dropdown.
type Panel struct {
	Mode    PanelMode
	Visible bool
	Query   string
	Rows    []Row
	// Active indexes Rows; -1 when no row is active.
	Active int
}

func emptyPanel() Panel {
	return Panel{Active: -1}
}

// SuggestionsPanel lists recent queries under a "Recent Searches" heading.
// The panel starts hidden.
func SuggestionsPanel(queries []string) Panel {
	p := Panel{Mode: PanelSuggestions, Active: -1}
	if len(queries) == 0 {
		return p
	}
	p.Rows = append(p.Rows, Row{Kind: RowGroup, Text: suggestionsLabel, Count: len(queries)})
	for _, q := range queries {
		p.Rows = append(p.Rows, Row{Kind: RowSuggestion, Text: q, Query: q})
	}
	return p
}

// ResultsPanel lays out results as a count header followed by each group
// and its rows, or a single no-results row. The panel starts hidden.
func ResultsPanel(results *search.Results) Panel {
	p := Panel{Mode: PanelResults, Query: results.Query, Active: -1}

	if results.Empty() {
		p.Rows = []Row{{
			Kind:   RowNoResults,
			Text:   fmt.Sprintf(noResultsTemplate, results.Query),
			Detail: noResultsHint,
		}}
		return p
	}

	p.Rows = append(p.Rows, Row{Kind: RowHeader, Text: resultCount(len(results.Items)), Count: len(results.Items)})
	for _, g := range results.Groups {
		p.Rows = append(p.Rows, Row{Kind: RowGroup, Text: g.Label, Count: len(g.Results), Category: g.Category})
		for _, r := range g.Results {
			p.Rows = append(p.Rows, Row{
				Kind:     RowResult,
				Text:     r.Title,
				Detail:   r.Description,
				ResultID: r.ID,
				Category: r.Category,
			})
		}
	}
	return p
}

func resultCount(n int) string {
	return fmt.Sprintf("%d results found", n)
}

// ActiveRow returns the row carrying the active marker.
func (p Panel) ActiveRow() (Row, bool) {
	if p.Active < 0 || p.Active >= len(p.Rows) {
		return Row{}, false
	}
	return p.Rows[p.Active], true
}

// move shifts the active marker by delta selectable rows without wrapping.
// With no active row, moving down activates the first selectable row and
// moving up does nothing.
func (p *Panel) move(delta int) bool {
	var selectable []int
	pos := -1
	for i, r := range p.Rows {
		if r.Selectable() {
			if i == p.Active {
				pos = len(selectable)
			}
			selectable = append(selectable, i)
		}
	}

	next := pos + delta
	if pos < 0 && delta < 0 {
		return false
	}
	if next < 0 || next >= len(selectable) {
		return false
	}
	p.Active = selectable[next]
	return true
}
