package scoring

import (
	"strings"

	"resumescan/internal/catalog"
	"resumescan/internal/types"
)

// Match levels, from best to worst
const (
	LevelExcellent = "Excellent Match"
	LevelStrong    = "Strong Match"
	LevelGood      = "Good Match"
	LevelPartial   = "Partial Match"
	LevelNeedsWork = "Needs Improvement"
	LevelError     = "Error in Analysis"
)

// ScoreSkills computes the weighted share of profile skills present in text.
// Matching is case-insensitive substring containment.
func ScoreSkills(text string, profile catalog.RoleProfile) types.Outcome[types.SkillMatch] {
	fallback := types.SkillMatch{Level: LevelError, FoundSkills: []string{}, SkillCounts: map[string]int{}}
	out := types.Guard(fallback, func() types.SkillMatch {
		return scoreSkills(text, profile)
	})
	if out.Degraded {
		out.Note = "skill scoring failed: " + out.Note
	}
	return out
}

func scoreSkills(text string, profile catalog.RoleProfile) types.SkillMatch {
	lower := strings.ToLower(text)
	match := types.SkillMatch{FoundSkills: []string{}, SkillCounts: map[string]int{}}

	actual := 0
	for _, tier := range catalog.Tiers {
		for _, skill := range profile.Skills(tier) {
			needle := strings.ToLower(skill)
			if !strings.Contains(lower, needle) {
				continue
			}
			match.FoundSkills = append(match.FoundSkills, skill)
			match.SkillCounts[skill] = strings.Count(lower, needle)
			actual += tier.Weight()
		}
	}

	if maxScore := profile.MaxScore(); maxScore > 0 {
		match.Percentage = min(100, max(0, float64(actual)/float64(maxScore)*100))
	}
	match.Level = Level(match.Percentage)
	return match
}

// Level maps a percentage to its qualitative bucket
func Level(pct float64) string {
	switch {
	case pct >= 80:
		return LevelExcellent
	case pct >= 60:
		return LevelStrong
	case pct >= 40:
		return LevelGood
	case pct >= 20:
		return LevelPartial
	default:
		return LevelNeedsWork
	}
}
