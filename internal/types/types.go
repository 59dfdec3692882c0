package types

import "encoding/json"

// ContactInfo holds the contact fields pulled from a resume.
// Each field is either an extracted value, a "not found" default or an error sentinel.
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
}

// SkillMatch is the weighted skill score of a resume against one role profile
type SkillMatch struct {
	Percentage  float64        `json:"percentage"`
	Level       string         `json:"level"`
	FoundSkills []string       `json:"found_skills"`
	SkillCounts map[string]int `json:"skill_counts"`
}

// ATSAudit is the format compliance score and the issues that lowered it
type ATSAudit struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// AnalysisDetails exposes the numeric values behind the formatted result strings
type AnalysisDetails struct {
	Role            string         `json:"role"`
	RoleDetected    bool           `json:"role_detected"`
	Confidence      float64        `json:"confidence"`
	Percentage      float64        `json:"percentage"`
	Level           string         `json:"level"`
	ExperienceYears *int           `json:"experience_years"`
	SkillCounts     map[string]int `json:"skill_counts"`
	Diagnostics     []string       `json:"diagnostics,omitempty"`
}

// AnalysisResult is the assembled output of a successful analysis
type AnalysisResult struct {
	Summary    string          `json:"summary"`
	Score      string          `json:"score"`
	Role       string          `json:"role"`
	Skills     string          `json:"skills"`
	Feedback   string          `json:"feedback"`
	Contact    ContactInfo     `json:"contact"`
	Education  []string        `json:"education"`
	ATS        ATSAudit        `json:"ats"`
	Industries []string        `json:"industries"`
	Details    AnalysisDetails `json:"details"`
}

// Analysis is either a result or an error message, never both.
// Callers must check Failed before reading Result.
type Analysis struct {
	Result *AnalysisResult
	Error  string
}

// Failed reports whether the analysis produced an error instead of a result
func (a Analysis) Failed() bool {
	return a.Error != "" || a.Result == nil
}

// MarshalJSON encodes the result object, or {"error": ...} for a failed analysis
func (a Analysis) MarshalJSON() ([]byte, error) {
	if a.Failed() {
		msg := a.Error
		if msg == "" {
			msg = "analysis produced no result"
		}
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: msg})
	}
	return json.Marshal(a.Result)
}

// Failure builds an error-shaped Analysis
func Failure(msg string) Analysis {
	return Analysis{Error: msg}
}

// Success builds a result-shaped Analysis
func Success(r *AnalysisResult) Analysis {
	return Analysis{Result: r}
}

// RoleEntry lists the skill tiers of one role profile
type RoleEntry struct {
	Name       string   `json:"name"`
	Core       []string `json:"core"`
	Important  []string `json:"important"`
	NiceToHave []string `json:"nice_to_have"`
}

// RoleListing describes a role catalog for display
type RoleListing struct {
	Roles      []RoleEntry `json:"roles"`
	Generic    RoleEntry   `json:"generic"`
	Industries []string    `json:"industries"`
}
