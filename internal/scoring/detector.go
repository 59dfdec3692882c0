// Package scoring matches resume text against catalog role profiles.
package scoring

import (
	"strings"

	"resumescan/internal/catalog"
	"resumescan/internal/types"
)

// roleNameBonus is added per literal occurrence of the role name
const roleNameBonus = 10

// DetectedRole is the best matching catalog role. Name is empty when nothing matched.
type DetectedRole struct {
	Name       string
	Score      int
	Confidence float64
}

// Detected reports whether a role was found
func (d DetectedRole) Detected() bool { return d.Name != "" }

// DetectRole scores every catalog role against text and returns the highest.
// Ties go to the role declared first in the catalog.
func DetectRole(text string, c *catalog.Catalog) types.Outcome[DetectedRole] {
	out := types.Guard(DetectedRole{}, func() DetectedRole {
		return detectRole(text, c)
	})
	if out.Degraded {
		out.Note = "role detection failed: " + out.Note
	}
	return out
}

func detectRole(text string, c *catalog.Catalog) DetectedRole {
	lower := strings.ToLower(text)

	var best DetectedRole
	for _, role := range c.Roles() {
		score := roleNameBonus * strings.Count(lower, strings.ToLower(role.Name()))
		for _, tier := range catalog.Tiers {
			for _, skill := range role.Skills(tier) {
				if strings.Contains(lower, strings.ToLower(skill)) {
					score += tier.Weight()
				}
			}
		}
		// strict comparison keeps the earlier role on a tie
		if score > best.Score {
			best = DetectedRole{Name: role.Name(), Score: score}
		}
	}

	if best.Score == 0 {
		return DetectedRole{}
	}
	best.Confidence = min(100, float64(best.Score)*2)
	return best
}
