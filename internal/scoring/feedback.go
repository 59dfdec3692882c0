package scoring

import (
	"fmt"
	"slices"
	"strings"

	"resumescan/internal/catalog"
	"resumescan/internal/extract"
	"resumescan/internal/types"
)

// maxMissingListed caps how many missing skills are named per tier
const maxMissingListed = 3

// FeedbackInput is everything Feedback needs. It does not rescan the resume text.
type FeedbackInput struct {
	Match   types.SkillMatch
	Profile catalog.RoleProfile
	Contact types.ContactInfo
	// ExperienceYears is nil when no experience statement was found
	ExperienceYears *int
}

// Feedback renders the guidance lines in their fixed order, joined by newlines.
func Feedback(in FeedbackInput) types.Outcome[string] {
	out := types.Guard("", func() string { return feedback(in) })
	if out.Degraded {
		out.Value = "Error generating feedback: " + out.Note
		out.Note = "feedback generation failed: " + out.Note
	}
	return out
}

func feedback(in FeedbackInput) string {
	var lines []string

	switch score := in.Match.Percentage; {
	case score >= 80:
		lines = append(lines, "🎉 Excellent match for this role!")
	case score >= 60:
		lines = append(lines, "✅ Good alignment with role requirements.")
	default:
		lines = append(lines, "⚠️ Resume needs improvement to match role requirements.")
	}

	if missing := missingSkills(in.Profile, catalog.Core, in.Match.FoundSkills); len(missing) > 0 {
		lines = append(lines, "🔴 Critical skills missing: "+strings.Join(missing, ", "))
	}
	if missing := missingSkills(in.Profile, catalog.Important, in.Match.FoundSkills); len(missing) > 0 {
		lines = append(lines, "🟡 Important skills to add: "+strings.Join(missing, ", "))
	}

	var contact []string
	if in.Contact.Email == extract.NotFound {
		contact = append(contact, "email")
	}
	if in.Contact.Phone == extract.NotFound {
		contact = append(contact, "phone")
	}
	if in.Contact.LinkedIn == extract.NotFound {
		contact = append(contact, "LinkedIn profile")
	}
	if len(contact) > 0 {
		lines = append(lines, "📧 Add missing contact info: "+strings.Join(contact, ", "))
	}

	if in.ExperienceYears != nil {
		lines = append(lines, fmt.Sprintf("💼 Experience: %d years detected", *in.ExperienceYears))
	} else {
		lines = append(lines, "💼 Consider clearly stating years of experience")
	}

	return strings.Join(lines, "\n")
}

func missingSkills(p catalog.RoleProfile, tier catalog.Tier, found []string) []string {
	var missing []string
	for _, skill := range p.Skills(tier) {
		if slices.Contains(found, skill) {
			continue
		}
		missing = append(missing, skill)
		if len(missing) == maxMissingListed {
			break
		}
	}
	return missing
}

// SkillBreakdown renders the per-tier found/total footer appended to feedback
func SkillBreakdown(match types.SkillMatch, p catalog.RoleProfile) string {
	count := func(t catalog.Tier) (int, int) {
		skills := p.Skills(t)
		found := 0
		for _, s := range skills {
			if slices.Contains(match.FoundSkills, s) {
				found++
			}
		}
		return found, len(skills)
	}

	var b strings.Builder
	b.WriteString("\n\n📊 Skill Analysis:\n")
	f, n := count(catalog.Core)
	fmt.Fprintf(&b, "• Core skills found: %d/%d\n", f, n)
	f, n = count(catalog.Important)
	fmt.Fprintf(&b, "• Important skills found: %d/%d\n", f, n)
	f, n = count(catalog.NiceToHave)
	fmt.Fprintf(&b, "• Nice-to-have skills found: %d/%d", f, n)
	return b.String()
}
