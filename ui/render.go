package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/pagesearch/search"
)

// Mark wraps a query match in result titles when rendering as text.
func Mark(s string) string {
	return "[" + s + "]"
}

// Render writes the visible panel as plain text, one row per line. Matches of
// the panel's query inside result titles and details are wrapped with Mark.
// A hidden panel writes nothing.
func (p Panel) Render(w io.Writer) error {
	if !p.Visible {
		return nil
	}

	var b strings.Builder
	for i, r := range p.Rows {
		marker := "  "
		if i == p.Active {
			marker = "> "
		}

		switch r.Kind {
		case RowHeader:
			b.WriteString(r.Text)
		case RowGroup:
			if p.Mode == PanelSuggestions {
				b.WriteString(r.Text)
			} else {
				fmt.Fprintf(&b, "%s (%d)", r.Text, r.Count)
			}
		case RowResult:
			fmt.Fprintf(&b, "%s%s  %s",
				marker,
				search.Highlight(r.Text, p.Query, Mark),
				search.Highlight(r.Detail, p.Query, Mark))
		case RowSuggestion:
			fmt.Fprintf(&b, "%s%s", marker, r.Text)
		case RowNoResults:
			fmt.Fprintf(&b, "%s\n%s", r.Text, r.Detail)
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders the panel to a string.
func (p Panel) String() string {
	var b strings.Builder
	_ = p.Render(&b)
	return b.String()
}
