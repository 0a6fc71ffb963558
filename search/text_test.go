package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "short", truncateTitle("short", 60))
	assert.Equal(t, "abc...", truncateTitle("abcdef", 3))
	assert.Equal(t, "Grüße...", truncateTitle("Grüße aus Hamburg", 5))
	assert.Equal(t, "exact", truncateTitle("exact", 5))
}

func TestSanitizePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		ok      bool
	}{
		{name: "absent", payload: "", want: "", ok: true},
		{name: "plain", payload: "developer programmer", want: "developer programmer", ok: true},
		{name: "invalid utf8", payload: "\xff\xfe", want: "", ok: false},
		{name: "control only", payload: "\x01\x02\t", want: "", ok: false},
		{name: "whitespace only", payload: "   ", want: "", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sanitizePayload(tt.payload)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestHighlight(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	assert.Equal(t, "Hamburg Weather [Up]date", Highlight("Hamburg Weather Update", "up", mark))
	assert.Equal(t, "[a.b] and axb", Highlight("a.b and axb", "a.b", mark), "query is literal")
	assert.Equal(t, "[Ha]mburg [ha]", Highlight("Hamburg ha", "HA", mark))
	assert.Equal(t, "unchanged", Highlight("unchanged", "", mark))
	assert.Equal(t, "unchanged", Highlight("unchanged", "x", nil))
}
