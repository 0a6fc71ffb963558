package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	pageTitleSuffix  = " - EHAMBURG DAILY"
	defaultPageLabel = "Home"
	ellipsis         = "..."
)

// pageLabel derives the short page name shown next to results.
func pageLabel(title string) string {
	label := strings.TrimSpace(strings.Replace(title, pageTitleSuffix, "", 1))
	if label == "" {
		return defaultPageLabel
	}
	return label
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// truncateTitle shortens titles longer than limit characters and marks the cut.
func truncateTitle(title string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(title) <= limit {
		return title
	}
	return prefix(title, limit) + ellipsis
}

// sanitizePayload returns the supplemental search payload, or "" when it has
// no visible characters. ok is false for invalid UTF-8 and control-only input.
func sanitizePayload(payload string) (string, bool) {
	if payload == "" {
		return "", true
	}
	if !utf8.ValidString(payload) {
		return "", false
	}
	control := false
	for _, r := range payload {
		switch {
		case unicode.IsSpace(r):
		case unicode.IsControl(r):
			control = true
		default:
			return payload, true
		}
	}
	return "", !control
}

// Highlight wraps every case-insensitive occurrence of query in text with
// mark. The query is matched literally.
func Highlight(text, query string, mark func(string) string) string {
	query = strings.TrimSpace(query)
	if query == "" || mark == nil {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, mark)
}
