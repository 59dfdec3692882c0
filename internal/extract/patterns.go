// Package extract pulls structured facts out of raw resume text.
//
// Every extractor is a pure function of its input. Pattern lists are ordered
// decision tables: the first pattern that matches anything wins.
package extract

import "regexp"

// Pattern is one named entry in an ordered pattern table
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

func pattern(name, expr string) Pattern {
	return Pattern{Name: name, Re: regexp.MustCompile(expr)}
}

// FirstMatch returns the first match of the first pattern in table that matches text
func FirstMatch(table []Pattern, text string) (string, bool) {
	for _, p := range table {
		if m := p.Re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// FirstSubmatch is FirstMatch for tables whose patterns capture one group
func FirstSubmatch(table []Pattern, text string) (string, bool) {
	for _, p := range table {
		if m := p.Re.FindStringSubmatch(text); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}

// AnyMatch reports whether any pattern in table matches text
func AnyMatch(table []Pattern, text string) bool {
	for _, p := range table {
		if p.Re.MatchString(text) {
			return true
		}
	}
	return false
}

var (
	// EmailPattern matches local@domain.tld with a two-letter or longer TLD.
	// The '|' in the TLD class is a literal pipe.
	EmailPattern = pattern("email", `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// LinkedInPattern matches a profile path such as linkedin.com/in/jane-doe
	LinkedInPattern = pattern("linkedin", `(?i)linkedin\.com/in/[\w-]+`)

	// PhonePatterns is ordered from the most explicit format to the most ambiguous
	PhonePatterns = []Pattern{
		pattern("international", `\+\d{1,3}[-.\s]?\d{3,4}[-.\s]?\d{3,4}[-.\s]?\d{4}`),
		pattern("area_code", `\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
		pattern("grouped", `\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
		pattern("contiguous", `\b\d{10}\b`),
		pattern("dotted", `\d{3}\.\d{3}\.\d{4}`),
		pattern("spaced", `\d{3}\s\d{3}\s\d{4}`),
		pattern("international_compact", `\+\d{1,3}\s?\d{3,4}\s?\d{3,4}\s?\d{4}`),
		pattern("reversed", `\d{4}[-.\s]?\d{3}[-.\s]?\d{3}`),
	}

	// ExperiencePatterns capture the number of years in group 1
	ExperiencePatterns = []Pattern{
		pattern("years_of_experience", `(?i)(\d+)\+?\s*years?\s*of\s*experience`),
		pattern("years_experience", `(?i)(\d+)\+?\s*years?\s*experience`),
		pattern("experience_years", `(?i)experience\s*:?\s*(\d+)\+?\s*years?`),
		pattern("yrs_exp", `(?i)(\d+)\+?\s*yrs?\s*exp`),
	}

	// DateRangePatterns recognize employment date formats
	DateRangePatterns = []Pattern{
		pattern("year_range", `(?i)\b\d{4}\s*[-–]\s*\d{4}\b`),
		pattern("month_year_range", `(?i)\b\d{1,2}/\d{4}\s*[-–]\s*\d{1,2}/\d{4}\b`),
		pattern("month_name_year", `(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\s+\d{4}\b`),
		pattern("year_present", `(?i)\b\d{4}\s*[-–]\s*present\b`),
	}
)
