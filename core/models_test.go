package core

import (
	"strings"
	"testing"
	"time"
)

func TestCategory_Strings(t *testing.T) {
	tests := []struct {
		category    Category
		slug        string
		label       string
		description string
	}{
		{CategoryNews, "news", "News Articles", "News article"},
		{CategoryDeveloper, "developer", "Team Members", "Team member"},
		{CategoryGameUpdate, "game-update", "Game Updates", "Game update"},
		{CategoryHeading, "heading", "Page Content", "Page heading"},
		{CategoryContent, "content", "Content", "Page content"},
		{Category(99), "content", "Content", "Page content"},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := tt.category.String(); got != tt.slug {
				t.Errorf("String() = %q, want %q", got, tt.slug)
			}
			if got := tt.category.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
			if got := tt.category.Description(); got != tt.description {
				t.Errorf("Description() = %q, want %q", got, tt.description)
			}
		})
	}
}

func TestSearchableElement_CombinedText(t *testing.T) {
	e := SearchableElement{Text: "Felix"}
	if got := e.CombinedText(); got != "Felix" {
		t.Errorf("CombinedText() = %q", got)
	}

	e.SupplementalText = "developer programmer"
	if got := e.CombinedText(); got != "Felix developer programmer" {
		t.Errorf("CombinedText() = %q", got)
	}
}

func TestNewResultID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a := NewResultID(CategoryNews, now)
	b := NewResultID(CategoryNews, now)

	if a == b {
		t.Fatalf("NewResultID() returned duplicate id %q", a)
	}
	if !strings.HasPrefix(a, "search_news_1700000000000_") {
		t.Errorf("NewResultID() = %q, unexpected format", a)
	}
}
