// Package ats audits resume text for applicant tracking system friendliness.
package ats

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resumescan/internal/extract"
	"resumescan/internal/types"
)

const (
	baselineScore = 100

	minWords = 200
	maxWords = 1000

	// maxSpecialRatio is the share of characters allowed outside the plain set
	maxSpecialRatio = 0.05
)

// Penalties per failed check
const (
	PenaltyEmail    = 15
	PenaltyPhone    = 10
	PenaltyTooShort = 15
	PenaltyTooLong  = 5
	PenaltySpecial  = 10
	PenaltySection  = 8
	PenaltyDates    = 8
)

var (
	// atsPhonePatterns omits the compact international and reversed forms
	atsPhonePatterns = extract.PhonePatterns[:6]

	specialChar = regexp.MustCompile(`[^\p{L}\p{N}\p{Mn}_\s\v\p{Z}\-.,()@]`)

	sections = []extract.Pattern{
		{Name: "Experience section", Re: regexp.MustCompile(`(?i)\bexperience\b`)},
		{Name: "Education section", Re: regexp.MustCompile(`(?i)\beducation\b`)},
		{Name: "Skills section", Re: regexp.MustCompile(`(?i)\bskills?\b`)},
	}
)

// check is one ATS rule. It returns the issue text and penalty when the rule fails.
type check func(text string) (issue string, penalty int, failed bool)

var checks = []check{
	func(text string) (string, int, bool) {
		return "Email address missing", PenaltyEmail, !extract.EmailPattern.Re.MatchString(text)
	},
	func(text string) (string, int, bool) {
		return "Phone number missing or poorly formatted", PenaltyPhone, !extract.AnyMatch(atsPhonePatterns, text)
	},
	func(text string) (string, int, bool) {
		words := len(strings.Fields(text))
		switch {
		case words < minWords:
			return "Resume too short (less than 200 words)", PenaltyTooShort, true
		case words > maxWords:
			return "Resume too long (over 1000 words)", PenaltyTooLong, true
		}
		return "", 0, false
	},
	func(text string) (string, int, bool) {
		special := len(specialChar.FindAllStringIndex(text, -1))
		limit := float64(utf8.RuneCountInString(text)) * maxSpecialRatio
		return "Too many special characters", PenaltySpecial, float64(special) > limit
	},
}

// Audit runs every check independently and subtracts the penalty of each failure
// from a baseline of 100. Issues keep check order; the score never drops below 0.
func Audit(text string) types.Outcome[types.ATSAudit] {
	out := types.Guard(types.ATSAudit{}, func() types.ATSAudit { return audit(text) })
	if out.Degraded {
		out.Value.Issues = []string{"Error analyzing ATS compatibility: " + out.Note}
		out.Note = "ats audit failed: " + out.Note
	}
	return out
}

func audit(text string) types.ATSAudit {
	result := types.ATSAudit{Score: baselineScore, Issues: []string{}}
	fail := func(issue string, penalty int) {
		result.Issues = append(result.Issues, issue)
		result.Score -= penalty
	}

	for _, c := range checks {
		if issue, penalty, failed := c(text); failed {
			fail(issue, penalty)
		}
	}
	for _, s := range sections {
		if !s.Re.MatchString(text) {
			fail(s.Name+" not clearly marked", PenaltySection)
		}
	}
	if !extract.AnyMatch(extract.DateRangePatterns, text) {
		fail("Employment dates not clearly formatted", PenaltyDates)
	}

	result.Score = max(0, result.Score)
	return result
}
