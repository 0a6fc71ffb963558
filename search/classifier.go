package search

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/poiesic/pagesearch/core"
)

// rule assigns a category when the element carries one of classes, sits
// inside one of containers, or has one of tags.
type rule struct {
	category   core.Category
	classes    []string
	containers []string
	tags       []string
}

// Rules are evaluated in order; the first match wins.
var classificationRules = []rule{
	{category: core.CategoryNews, classes: []string{"news-item-title"}, containers: []string{".news-item"}},
	{category: core.CategoryPost, classes: []string{"post-title"}, containers: []string{".post-item"}},
	{category: core.CategoryDeveloper, classes: []string{"dev-name"}, containers: []string{".dev-card"}},
	{category: core.CategoryGameUpdate, classes: []string{"game-update-title"}, containers: []string{".game-update-container"}},
	{category: core.CategorySection, classes: []string{"section-text", "gray-section-text"}},
	{category: core.CategoryHeading, tags: []string{"h1", "h2", "h3", "h4", "h5", "h6"}},
	{category: core.CategoryEmergencyHamburg, classes: []string{"emergency-hamburg-title", "role-title"}},
	{category: core.CategorySettings, classes: []string{"status-label"}, containers: []string{".settings-section"}},
	{category: core.CategoryAbout, classes: []string{"about-title", "mission-text", "focus-text", "commitment-text"}},
	{category: core.CategoryCredits, classes: []string{"credits-title"}, containers: []string{".credits-main"}},
	{category: core.CategoryNavigation, classes: []string{"nav-section-item", "nav-section-title"}, containers: []string{"nav"}},
}

func (r rule) matches(el core.Element) bool {
	for _, c := range r.classes {
		if el.HasClass(c) {
			return true
		}
	}
	for _, sel := range r.containers {
		if _, ok := el.Closest(sel); ok {
			return true
		}
	}
	tag := el.TagName()
	for _, t := range r.tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Classification is the category and display title derived for a match.
type Classification struct {
	Category core.Category
	Title    string
}

// Classify assigns el to a category and picks its title. Team member matches
// inside a card are titled with the card's name.
func Classify(el core.Element) Classification {
	c := Classification{
		Category: core.CategoryContent,
		Title:    strings.TrimSpace(el.Text()),
	}

	for _, r := range classificationRules {
		if r.matches(el) {
			c.Category = r.category
			break
		}
	}

	if c.Category == core.CategoryDeveloper {
		if card, ok := el.Closest(".dev-card"); ok {
			if name, ok := card.Find(".dev-name"); ok {
				if t := strings.TrimSpace(name.Text()); t != "" {
					c.Title = t
				}
			}
		}
	}

	return c
}

// dedupKey identifies results that would look identical in the panel.
func dedupKey(category core.Category, title, tag string, prefixLength int) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%s-%s-%s", category, prefix(strings.TrimSpace(title), prefixLength), tag))
}
