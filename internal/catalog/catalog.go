// Package catalog holds the role skill profiles that resumes are scored against.
// A Catalog is built once at startup and is read-only afterwards.
package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"resumescan/internal/types"
)

// Tier is a skill importance level within a role profile
type Tier int

const (
	Core Tier = iota
	Important
	NiceToHave
)

// Tiers lists every tier in scoring order
var Tiers = []Tier{Core, Important, NiceToHave}

// Weight is the score a single found skill of this tier contributes
func (t Tier) Weight() int {
	switch t {
	case Core:
		return 3
	case Important:
		return 2
	case NiceToHave:
		return 1
	default:
		return 0
	}
}

func (t Tier) String() string {
	switch t {
	case Core:
		return "core"
	case Important:
		return "important"
	case NiceToHave:
		return "nice_to_have"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// RoleProfile is a named set of three disjoint skill tiers
type RoleProfile struct {
	name  string
	tiers [3][]string
}

// NewRoleProfile builds a profile and checks that no skill appears twice,
// within a tier or across tiers (case-insensitive).
func NewRoleProfile(name string, core, important, niceToHave []string) (RoleProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RoleProfile{}, fmt.Errorf("role name cannot be empty")
	}

	p := RoleProfile{name: name}
	seen := make(map[string]Tier)
	for i, skills := range [][]string{core, important, niceToHave} {
		tier := Tier(i)
		for _, skill := range skills {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				return RoleProfile{}, fmt.Errorf("role %q: empty skill in %s tier", name, tier)
			}
			key := strings.ToLower(skill)
			if prev, dup := seen[key]; dup {
				return RoleProfile{}, fmt.Errorf("role %q: skill %q appears in both %s and %s tiers", name, skill, prev, tier)
			}
			seen[key] = tier
			p.tiers[i] = append(p.tiers[i], skill)
		}
	}
	return p, nil
}

// Name returns the role name
func (p RoleProfile) Name() string { return p.name }

// Skills returns a copy of the skills in the given tier, in declaration order
func (p RoleProfile) Skills(t Tier) []string {
	if t < Core || t > NiceToHave {
		return nil
	}
	return slices.Clone(p.tiers[t])
}

// Tier reports which tier holds skill, matching the declared spelling exactly
func (p RoleProfile) Tier(skill string) (Tier, bool) {
	for _, t := range Tiers {
		if slices.Contains(p.tiers[t], skill) {
			return t, true
		}
	}
	return 0, false
}

// MaxScore is the weighted score of a resume that contains every skill
func (p RoleProfile) MaxScore() int {
	total := 0
	for _, t := range Tiers {
		total += len(p.tiers[t]) * t.Weight()
	}
	return total
}

// Industry is a named keyword group used to tag resumes with sectors
type Industry struct {
	Name     string
	Keywords []string

	patterns []*regexp.Regexp
}

func newIndustry(name string, keywords []string) Industry {
	ind := Industry{Name: name, Keywords: slices.Clone(keywords)}
	ind.patterns = make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		ind.patterns[i] = keywordPattern(kw)
	}
	return ind
}

// Matches reports whether any keyword occurs in text as a whole word,
// ignoring case. Industries built by New carry precompiled patterns.
func (ind Industry) Matches(text string) bool {
	if len(ind.patterns) != len(ind.Keywords) {
		ind = newIndustry(ind.Name, ind.Keywords)
	}
	for _, re := range ind.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func keywordPattern(kw string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
}

// Catalog is the ordered set of role profiles plus the generic fallback profile.
// Role order is significant: it breaks ties during role detection.
type Catalog struct {
	roles      []RoleProfile
	index      map[string]int
	generic    RoleProfile
	industries []Industry
}

// New assembles a catalog, rejecting duplicate role names
func New(roles []RoleProfile, generic RoleProfile, industries []Industry) (*Catalog, error) {
	if len(roles) == 0 {
		return nil, fmt.Errorf("catalog must define at least one role")
	}
	if generic.name == "" {
		return nil, fmt.Errorf("catalog must define a generic profile")
	}

	c := &Catalog{
		roles:   slices.Clone(roles),
		index:   make(map[string]int, len(roles)),
		generic: generic,
	}
	for i, r := range c.roles {
		if _, dup := c.index[r.name]; dup {
			return nil, fmt.Errorf("duplicate role %q", r.name)
		}
		c.index[r.name] = i
	}
	for _, ind := range industries {
		c.industries = append(c.industries, newIndustry(ind.Name, ind.Keywords))
	}
	return c, nil
}

// Roles returns the role profiles in declaration order
func (c *Catalog) Roles() []RoleProfile {
	return slices.Clone(c.roles)
}

// RoleNames returns the role names in declaration order
func (c *Catalog) RoleNames() []string {
	names := make([]string, len(c.roles))
	for i, r := range c.roles {
		names[i] = r.name
	}
	return names
}

// Lookup finds a role by its exact name
func (c *Catalog) Lookup(name string) (RoleProfile, bool) {
	i, ok := c.index[name]
	if !ok {
		return RoleProfile{}, false
	}
	return c.roles[i], true
}

// Generic is the soft-skills profile used when a role is unknown
func (c *Catalog) Generic() RoleProfile {
	return c.generic
}

// Industries returns the industry keyword groups in declaration order
func (c *Catalog) Industries() []Industry {
	out := make([]Industry, len(c.industries))
	for i, ind := range c.industries {
		out[i] = Industry{Name: ind.Name, Keywords: slices.Clone(ind.Keywords), patterns: ind.patterns}
	}
	return out
}

// Listing flattens the catalog for display
func (c *Catalog) Listing() types.RoleListing {
	entry := func(p RoleProfile) types.RoleEntry {
		return types.RoleEntry{
			Name:       p.name,
			Core:       p.Skills(Core),
			Important:  p.Skills(Important),
			NiceToHave: p.Skills(NiceToHave),
		}
	}

	listing := types.RoleListing{
		Roles:      make([]types.RoleEntry, len(c.roles)),
		Generic:    entry(c.generic),
		Industries: make([]string, len(c.industries)),
	}
	for i, r := range c.roles {
		listing.Roles[i] = entry(r)
	}
	for i, ind := range c.industries {
		listing.Industries[i] = ind.Name
	}
	return listing
}

// Default returns the built-in catalog. It is built on first use and shared afterwards.
func Default() *Catalog {
	return defaultCatalog()
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(
		[]RoleProfile{
			mustProfile("Data Analyst",
				[]string{"SQL", "Python", "Excel", "Statistics", "Data Visualization"},
				[]string{"R", "Tableau", "Power BI", "Pandas", "NumPy"},
				[]string{"SAS", "SPSS", "Jupyter", "Machine Learning", "ETL"}),
			mustProfile("Project Manager",
				[]string{"Project Planning", "Risk Management", "Team Leadership", "Communication"},
				[]string{"Agile", "Scrum", "Jira", "MS Project", "Stakeholder Management"},
				[]string{"PMI", "PMP", "Kanban", "Budget Management", "Six Sigma"}),
			mustProfile("Software Engineer",
				[]string{"Programming", "Problem Solving", "Git", "Debugging"},
				[]string{"Java", "Python", "JavaScript", "System Design", "OOP"},
				[]string{"Docker", "Kubernetes", "AWS", "Testing", "CI/CD"}),
			mustProfile("Digital Marketing Specialist",
				[]string{"SEO", "Content Marketing", "Social Media", "Analytics"},
				[]string{"Google Analytics", "PPC", "Email Marketing", "Facebook Ads"},
				[]string{"A/B Testing", "Conversion Optimization", "Marketing Automation"}),
			mustProfile("Web Developer",
				[]string{"HTML", "CSS", "JavaScript", "Responsive Design"},
				[]string{"React", "Node.js", "API", "Database"},
				[]string{"Vue.js", "Angular", "TypeScript", "GraphQL", "MongoDB"}),
			mustProfile("DevOps Engineer",
				[]string{"Docker", "CI/CD", "Cloud Platforms", "Monitoring"},
				[]string{"Kubernetes", "AWS", "Jenkins", "Terraform"},
				[]string{"Ansible", "Prometheus", "ELK Stack", "Microservices"}),
		},
		mustProfile("Generic",
			[]string{"Communication", "Teamwork", "Problem Solving"},
			[]string{"Leadership", "Time Management", "Adaptability"},
			[]string{"Innovation", "Customer Service", "Technical Skills"}),
		[]Industry{
			{Name: "Data Science", Keywords: []string{"machine learning", "deep learning", "neural networks", "AI", "data science"}},
			{Name: "Finance", Keywords: []string{"financial analysis", "investment", "portfolio", "risk assessment", "trading"}},
			{Name: "Healthcare", Keywords: []string{"medical", "clinical", "patient", "healthcare", "pharmaceutical"}},
			{Name: "E-commerce", Keywords: []string{"online retail", "e-commerce", "marketplace", "customer experience"}},
			{Name: "Education", Keywords: []string{"teaching", "curriculum", "student", "academic", "learning"}},
		},
	)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
})

func mustProfile(name string, core, important, niceToHave []string) RoleProfile {
	p, err := NewRoleProfile(name, core, important, niceToHave)
	if err != nil {
		panic(err)
	}
	return p
}
