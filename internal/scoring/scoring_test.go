package scoring

import (
	"strings"
	"testing"

	"resumescan/internal/catalog"
	"resumescan/internal/extract"
	"resumescan/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(t *testing.T, name string) catalog.RoleProfile {
	t.Helper()
	p, ok := catalog.Default().Lookup(name)
	require.True(t, ok, "role %q missing from default catalog", name)
	return p
}

func TestDetectRole(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		name       string
		text       string
		want       string
		confidence float64
	}{
		{name: "role name bonus", text: "Data Analyst, data analyst. SQL", want: "Data Analyst", confidence: 46},
		{name: "skills only", text: "HTML CSS JavaScript Responsive Design", want: "Web Developer", confidence: 24},
		{name: "confidence capped", text: strings.Repeat("software engineer ", 6), want: "Software Engineer", confidence: 100},
		{name: "nothing matches", text: "qqq", want: "", confidence: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DetectRole(tt.text, c)
			assert.False(t, out.Degraded)
			assert.Equal(t, tt.want, out.Value.Name)
			assert.InDelta(t, tt.confidence, out.Value.Confidence, 0.001)
			assert.Equal(t, tt.want != "", out.Value.Detected())
		})
	}
}

func TestDetectRoleTieGoesToFirstDeclared(t *testing.T) {
	first, err := catalog.NewRoleProfile("Backend", []string{"Go"}, nil, nil)
	require.NoError(t, err)
	second, err := catalog.NewRoleProfile("Platform", []string{"Go"}, nil, nil)
	require.NoError(t, err)

	for _, order := range [][]catalog.RoleProfile{{first, second}, {second, first}} {
		c, err := catalog.New(order, catalog.Default().Generic(), nil)
		require.NoError(t, err)

		out := DetectRole("Go", c)
		assert.Equal(t, order[0].Name(), out.Value.Name)
		assert.InDelta(t, 6.0, out.Value.Confidence, 0.001)
	}
}

func TestScoreSkills(t *testing.T) {
	t.Run("full core set only", func(t *testing.T) {
		out := ScoreSkills("SQL, Python, Excel, Statistics, Data Visualization", profile(t, "Data Analyst"))
		require.False(t, out.Degraded)
		assert.InDelta(t, 50.0, out.Value.Percentage, 0.001)
		assert.Equal(t, LevelGood, out.Value.Level)
		assert.Equal(t, []string{"SQL", "Python", "Excel", "Statistics", "Data Visualization"}, out.Value.FoundSkills)
	})

	t.Run("counts occurrences of found skills only", func(t *testing.T) {
		out := ScoreSkills("Python and python, plus SQL", profile(t, "Data Analyst"))
		assert.Equal(t, map[string]int{"SQL": 1, "Python": 2}, out.Value.SkillCounts)
	})

	t.Run("no skills", func(t *testing.T) {
		out := ScoreSkills("qqq", profile(t, "Data Analyst"))
		assert.Zero(t, out.Value.Percentage)
		assert.Equal(t, LevelNeedsWork, out.Value.Level)
		assert.Empty(t, out.Value.FoundSkills)
		assert.NotNil(t, out.Value.SkillCounts)
	})

	t.Run("every skill", func(t *testing.T) {
		p := profile(t, "DevOps Engineer")
		var all []string
		for _, tier := range catalog.Tiers {
			all = append(all, p.Skills(tier)...)
		}
		out := ScoreSkills(strings.Join(all, " "), p)
		assert.InDelta(t, 100.0, out.Value.Percentage, 0.001)
		assert.Equal(t, LevelExcellent, out.Value.Level)
	})
}

func TestScoreSkillsIsMonotonic(t *testing.T) {
	for _, p := range catalog.Default().Roles() {
		t.Run(p.Name(), func(t *testing.T) {
			var text []string
			prev := ScoreSkills("", p).Value.Percentage
			for _, tier := range catalog.Tiers {
				for _, skill := range p.Skills(tier) {
					text = append(text, skill)
					got := ScoreSkills(strings.Join(text, " "), p).Value.Percentage
					assert.GreaterOrEqual(t, got, prev)
					assert.GreaterOrEqual(t, got, 0.0)
					assert.LessOrEqual(t, got, 100.0)
					prev = got
				}
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, LevelExcellent},
		{80, LevelExcellent},
		{79.9, LevelStrong},
		{60, LevelStrong},
		{40, LevelGood},
		{20, LevelPartial},
		{19.99, LevelNeedsWork},
		{0, LevelNeedsWork},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.pct), "pct %.2f", tt.pct)
	}
}

func TestFeedback(t *testing.T) {
	five := 5

	t.Run("partial match with some contact missing", func(t *testing.T) {
		out := Feedback(FeedbackInput{
			Match: types.SkillMatch{
				Percentage:  50,
				FoundSkills: []string{"SQL", "Python", "Excel", "Statistics", "Data Visualization"},
			},
			Profile:         profile(t, "Data Analyst"),
			Contact:         types.ContactInfo{Email: "a@b.com", Phone: extract.NotFound, LinkedIn: extract.NotFound},
			ExperienceYears: &five,
		})
		require.False(t, out.Degraded)
		assert.Equal(t, strings.Join([]string{
			"⚠️ Resume needs improvement to match role requirements.",
			"🟡 Important skills to add: R, Tableau, Power BI",
			"📧 Add missing contact info: phone, LinkedIn profile",
			"💼 Experience: 5 years detected",
		}, "\n"), out.Value)
	})

	t.Run("high score with nothing found lists three per tier", func(t *testing.T) {
		out := Feedback(FeedbackInput{
			Match:   types.SkillMatch{Percentage: 85},
			Profile: catalog.Default().Generic(),
			Contact: types.ContactInfo{Email: "a@b.com", Phone: "555-123-4567", LinkedIn: "linkedin.com/in/a"},
		})
		assert.Equal(t, strings.Join([]string{
			"🎉 Excellent match for this role!",
			"🔴 Critical skills missing: Communication, Teamwork, Problem Solving",
			"🟡 Important skills to add: Leadership, Time Management, Adaptability",
			"💼 Consider clearly stating years of experience",
		}, "\n"), out.Value)
	})

	t.Run("strong band headline", func(t *testing.T) {
		out := Feedback(FeedbackInput{Match: types.SkillMatch{Percentage: 60}, Profile: profile(t, "Web Developer")})
		assert.True(t, strings.HasPrefix(out.Value, "✅ Good alignment with role requirements."))
	})
}

func TestSkillBreakdown(t *testing.T) {
	match := types.SkillMatch{FoundSkills: []string{"SQL", "Python", "Excel", "Statistics", "Data Visualization", "ETL"}}
	assert.Equal(t,
		"\n\n📊 Skill Analysis:\n• Core skills found: 5/5\n• Important skills found: 0/5\n• Nice-to-have skills found: 1/5",
		SkillBreakdown(match, profile(t, "Data Analyst")))
}
