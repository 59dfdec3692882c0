package extract

import (
	"strings"
	"unicode"

	"resumescan/internal/types"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	NotFound     = "Not found"
	NameNotFound = "Name not found"
)

// nameScanLines is how many non-empty lines from the top are considered for the name
const nameScanLines = 5

var (
	nameSkipKeywords = []string{
		"resume", "curriculum vitae", "cv", "summary", "objective",
		"contact", "profile", "about", "personal", "details",
	}
	nameFalsePositives = []string{"bachelor of", "master of", "dear sir", "to whom", "human resources"}
)

// Contact extracts all four contact fields. A field whose extractor fails
// carries its error sentinel and marks the outcome degraded.
func Contact(text string) types.Outcome[types.ContactInfo] {
	var notes []string
	field := func(sentinel string, fn func(string) string) string {
		out := types.Guard(sentinel, func() string { return fn(text) })
		if out.Degraded {
			notes = append(notes, sentinel+": "+out.Note)
		}
		return out.Value
	}

	info := types.ContactInfo{
		Name:     field("Error extracting name", Name),
		Email:    field("Error extracting email", Email),
		Phone:    field("Error extracting phone", Phone),
		LinkedIn: field("Error extracting LinkedIn", LinkedIn),
	}
	if len(notes) > 0 {
		return types.Degrade(info, strings.Join(notes, "; "))
	}
	return types.Ok(info)
}

// Name guesses the candidate name from the first few non-empty lines
func Name(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > nameScanLines {
			break
		}

		lower := strings.ToLower(line)
		if containsAny(lower, nameSkipKeywords) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}
		if isUpper(line) && len(words) <= 4 && allWords(words, isAlpha) {
			// a Caser keeps state between calls, so each call gets its own
			return cases.Title(language.Und).String(strings.ToLower(line))
		}
		if allWords(words, isCapitalized) && !containsAny(lower, nameFalsePositives) {
			return line
		}
	}
	return NameNotFound
}

// Email returns the first email address in text
func Email(text string) string {
	if m := EmailPattern.Re.FindString(text); m != "" {
		return m
	}
	return NotFound
}

// Phone returns the first match of the highest priority phone pattern that matches
func Phone(text string) string {
	if m, ok := FirstMatch(PhonePatterns, text); ok {
		return m
	}
	return NotFound
}

// LinkedIn returns the first linkedin.com/in/ profile path
func LinkedIn(text string) string {
	if m := LinkedInPattern.Re.FindString(text); m != "" {
		return m
	}
	return NotFound
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func allWords(words []string, pred func(string) bool) bool {
	for _, w := range words {
		if !pred(w) {
			return false
		}
	}
	return true
}

func isAlpha(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isCapitalized(w string) bool {
	if !isAlpha(w) {
		return false
	}
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lower-case ones
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
