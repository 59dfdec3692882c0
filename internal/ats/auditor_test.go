package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodResume() string {
	header := "Jane Doe\njane@example.com\n(555) 123-4567\n" +
		"Experience\nData Analyst at Acme, Jan 2019 - 2023\n" +
		"Education\nB.Sc Statistics\n" +
		"Skills\nSQL, Python, Excel\n"
	return header + strings.Repeat("analysed quarterly sales data ", 50)
}

func TestAuditCleanResume(t *testing.T) {
	out := Audit(goodResume())
	require.False(t, out.Degraded)
	assert.Equal(t, 100, out.Value.Score)
	assert.Empty(t, out.Value.Issues)
}

func TestAuditBareText(t *testing.T) {
	out := Audit("just a few plain words here")
	assert.Equal(t, 28, out.Value.Score)
	assert.Equal(t, []string{
		"Email address missing",
		"Phone number missing or poorly formatted",
		"Resume too short (less than 200 words)",
		"Experience section not clearly marked",
		"Education section not clearly marked",
		"Skills section not clearly marked",
		"Employment dates not clearly formatted",
	}, out.Value.Issues)
}

func TestAuditEveryCheckFails(t *testing.T) {
	out := Audit("★★ ☆☆ ♥♥ words")
	assert.Equal(t, 18, out.Value.Score)
	assert.Len(t, out.Value.Issues, 8)
	assert.Equal(t, "Too many special characters", out.Value.Issues[3])
}

func TestAuditChecks(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		issue string
		score int
	}{
		{
			name:  "too long",
			text:  goodResume() + strings.Repeat("word ", 1000),
			issue: "Resume too long (over 1000 words)",
			score: 95,
		},
		{
			name:  "unseparated international phone",
			text:  strings.Replace(goodResume(), "(555) 123-4567", "+15551234567890", 1),
			issue: "",
			score: 100,
		},
		{
			name:  "singular skill heading counts",
			text:  strings.Replace(goodResume(), "Skills\n", "Skill\n", 1),
			score: 100,
		},
		{
			name:  "dates missing",
			text:  strings.Replace(goodResume(), "Jan 2019 - 2023", "recently", 1),
			issue: "Employment dates not clearly formatted",
			score: 92,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Audit(tt.text)
			assert.Equal(t, tt.score, out.Value.Score)
			if tt.issue != "" {
				assert.Contains(t, out.Value.Issues, tt.issue)
			}
		})
	}
}

func TestAuditIsMonotonic(t *testing.T) {
	// each step removes one more passing feature
	steps := []func(string) string{
		func(s string) string { return strings.Replace(s, "jane@example.com", "", 1) },
		func(s string) string { return strings.Replace(s, "(555) 123-4567", "", 1) },
		func(s string) string { return strings.Replace(s, "Experience\n", "", 1) },
		func(s string) string { return strings.Replace(s, "Education\n", "", 1) },
		func(s string) string { return strings.Replace(s, "Skills\n", "", 1) },
		func(s string) string { return strings.Replace(s, "Jan 2019 - 2023", "", 1) },
		func(s string) string { return s[:200] },
	}

	text := goodResume()
	prev := Audit(text).Value
	for i, step := range steps {
		text = step(text)
		got := Audit(text).Value
		assert.LessOrEqual(t, got.Score, prev.Score, "step %d", i)
		assert.GreaterOrEqual(t, len(got.Issues), len(prev.Issues), "step %d", i)
		assert.GreaterOrEqual(t, got.Score, 0)
		prev = got
	}
}
