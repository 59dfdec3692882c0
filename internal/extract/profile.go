package extract

import (
	"math"
	"strconv"
	"strings"

	"resumescan/internal/catalog"
)

// maxEducationLines caps how many education lines are reported
const maxEducationLines = 3

var educationKeywords = []string{
	"bachelor", "master", "phd", "doctorate", "diploma", "certificate",
	"b.tech", "b.sc", "m.tech", "m.sc", "mba", "bca", "mca",
}

// ExperienceYears returns the years of experience stated in text.
// The second result is false when no experience statement is found.
func ExperienceYears(text string) (int, bool) {
	m, ok := FirstSubmatch(ExperiencePatterns, text)
	if !ok {
		return 0, false
	}
	years, err := strconv.Atoi(m)
	if err != nil {
		// captures are digits only, so the sole failure is overflow
		return math.MaxInt, true
	}
	return years, true
}

// Education returns up to three trimmed lines mentioning a degree or certificate,
// in document order.
func Education(text string) []string {
	var found []string
	for _, line := range strings.Split(text, "\n") {
		if !containsAny(strings.ToLower(line), educationKeywords) {
			continue
		}
		found = append(found, strings.TrimSpace(line))
		if len(found) == maxEducationLines {
			break
		}
	}
	return found
}

// Industries tags text with every catalog industry that has a keyword hit.
// Keywords match case-insensitively on word boundaries, so "AI" does not
// match inside "maintain". Results follow catalog order.
func Industries(text string, c *catalog.Catalog) []string {
	var tags []string
	for _, ind := range c.Industries() {
		if ind.Matches(text) {
			tags = append(tags, ind.Name)
		}
	}
	return tags
}
