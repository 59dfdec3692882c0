package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumescan/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Analysis", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "Analysis", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "RoleListing", &RoleListingTextFormatter{})
	registry.RegisterFormatter("markdown", "RoleListing", &RoleListingMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Analysis:
		return "Analysis"
	case types.RoleListing:
		return "RoleListing"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter renders an analysis for the terminal
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	analysis, ok := data.(types.Analysis)
	if !ok {
		return "", fmt.Errorf("expected Analysis, got %T", data)
	}
	if analysis.Failed() {
		return fmt.Sprintf("Error: %s\n", analysis.Error), nil
	}
	r := analysis.Result

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n")
	fmt.Fprintf(&output, "Role: %s\n", r.Role)
	fmt.Fprintf(&output, "Skill Match: %s\n", r.Score)
	if r.Details.ExperienceYears != nil {
		fmt.Fprintf(&output, "Experience: %d years\n", *r.Details.ExperienceYears)
	}
	output.WriteString("\n")

	output.WriteString("=== SUMMARY ===\n")
	output.WriteString(r.Summary)
	output.WriteString("\n\n")

	output.WriteString("=== SKILLS ===\n")
	output.WriteString(r.Skills)
	output.WriteString("\n\n")

	output.WriteString("=== CONTACT ===\n")
	fmt.Fprintf(&output, "Name: %s\n", r.Contact.Name)
	fmt.Fprintf(&output, "Email: %s\n", r.Contact.Email)
	fmt.Fprintf(&output, "Phone: %s\n", r.Contact.Phone)
	fmt.Fprintf(&output, "LinkedIn: %s\n\n", r.Contact.LinkedIn)

	output.WriteString("=== EDUCATION ===\n")
	for _, e := range r.Education {
		output.WriteString(e)
		output.WriteString("\n")
	}
	output.WriteString("\n")

	if len(r.Industries) > 0 {
		output.WriteString("=== INDUSTRIES ===\n")
		output.WriteString(strings.Join(r.Industries, ", "))
		output.WriteString("\n\n")
	}

	output.WriteString("=== ATS COMPATIBILITY ===\n")
	fmt.Fprintf(&output, "Score: %d/100\n", r.ATS.Score)
	for _, issue := range r.ATS.Issues {
		fmt.Fprintf(&output, "- %s\n", issue)
	}
	output.WriteString("\n")

	output.WriteString("=== FEEDBACK ===\n")
	output.WriteString(r.Feedback)
	output.WriteString("\n")

	if len(r.Details.Diagnostics) > 0 {
		output.WriteString("\n=== DIAGNOSTICS ===\n")
		for _, d := range r.Details.Diagnostics {
			fmt.Fprintf(&output, "- %s\n", d)
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "Analysis"
}

// AnalysisMarkdownFormatter renders an analysis as a markdown report
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	analysis, ok := data.(types.Analysis)
	if !ok {
		return "", fmt.Errorf("expected Analysis, got %T", data)
	}
	if analysis.Failed() {
		return fmt.Sprintf("# Resume Analysis\n\n> **Error:** %s\n", analysis.Error), nil
	}
	r := analysis.Result

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&output, "| **Role** | %s |\n", r.Role)
	fmt.Fprintf(&output, "| **Skill Match** | %s |\n", r.Score)
	fmt.Fprintf(&output, "| **ATS Score** | %d/100 |\n", r.ATS.Score)
	if r.Details.ExperienceYears != nil {
		fmt.Fprintf(&output, "| **Experience** | %d years |\n", *r.Details.ExperienceYears)
	}
	output.WriteString("\n")

	output.WriteString("## Summary\n\n")
	output.WriteString(r.Summary)
	output.WriteString("\n\n")

	output.WriteString("## Skills\n\n")
	output.WriteString(r.Skills)
	output.WriteString("\n\n")

	output.WriteString("## Contact\n\n")
	fmt.Fprintf(&output, "- **Name:** %s\n", r.Contact.Name)
	fmt.Fprintf(&output, "- **Email:** %s\n", r.Contact.Email)
	fmt.Fprintf(&output, "- **Phone:** %s\n", r.Contact.Phone)
	fmt.Fprintf(&output, "- **LinkedIn:** %s\n\n", r.Contact.LinkedIn)

	output.WriteString("## Education\n\n")
	for _, e := range r.Education {
		fmt.Fprintf(&output, "- %s\n", e)
	}
	output.WriteString("\n")

	if len(r.Industries) > 0 {
		output.WriteString("## Industries\n\n")
		for _, ind := range r.Industries {
			fmt.Fprintf(&output, "- %s\n", ind)
		}
		output.WriteString("\n")
	}

	output.WriteString("## ATS Compatibility\n\n")
	if len(r.ATS.Issues) == 0 {
		output.WriteString("No issues found.\n")
	}
	for _, issue := range r.ATS.Issues {
		fmt.Fprintf(&output, "- %s\n", issue)
	}
	output.WriteString("\n")

	output.WriteString("## Feedback\n\n")
	for _, line := range strings.Split(r.Feedback, "\n") {
		// keep single newlines as markdown line breaks
		if line == "" {
			output.WriteString("\n")
			continue
		}
		output.WriteString(line)
		output.WriteString("  \n")
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "Analysis"
}

// RoleListingTextFormatter prints the catalog as indented tiers
type RoleListingTextFormatter struct{}

func (rtf *RoleListingTextFormatter) Format(data any) (string, error) {
	listing, ok := data.(types.RoleListing)
	if !ok {
		return "", fmt.Errorf("expected RoleListing, got %T", data)
	}

	var output strings.Builder
	writeRole := func(r types.RoleEntry) {
		output.WriteString(r.Name)
		output.WriteString("\n")
		fmt.Fprintf(&output, "  core:         %s\n", strings.Join(r.Core, ", "))
		fmt.Fprintf(&output, "  important:    %s\n", strings.Join(r.Important, ", "))
		fmt.Fprintf(&output, "  nice to have: %s\n", strings.Join(r.NiceToHave, ", "))
	}

	output.WriteString("=== ROLES ===\n")
	for _, r := range listing.Roles {
		writeRole(r)
	}
	output.WriteString("\n=== FALLBACK PROFILE ===\n")
	writeRole(listing.Generic)

	if len(listing.Industries) > 0 {
		output.WriteString("\n=== INDUSTRIES ===\n")
		output.WriteString(strings.Join(listing.Industries, ", "))
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (rtf *RoleListingTextFormatter) SupportedType() string {
	return "RoleListing"
}

// RoleListingMarkdownFormatter renders the catalog as a markdown table
type RoleListingMarkdownFormatter struct{}

func (rmf *RoleListingMarkdownFormatter) Format(data any) (string, error) {
	listing, ok := data.(types.RoleListing)
	if !ok {
		return "", fmt.Errorf("expected RoleListing, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Role Catalog\n\n")
	output.WriteString("| Role | Core (×3) | Important (×2) | Nice to have (×1) |\n")
	output.WriteString("|---|---|---|---|\n")
	for _, r := range slices.Concat(listing.Roles, []types.RoleEntry{listing.Generic}) {
		fmt.Fprintf(&output, "| %s | %s | %s | %s |\n",
			r.Name, strings.Join(r.Core, ", "), strings.Join(r.Important, ", "), strings.Join(r.NiceToHave, ", "))
	}

	if len(listing.Industries) > 0 {
		output.WriteString("\n## Industries\n\n")
		for _, ind := range listing.Industries {
			fmt.Fprintf(&output, "- %s\n", ind)
		}
	}
	return output.String(), nil
}

func (rmf *RoleListingMarkdownFormatter) SupportedType() string {
	return "RoleListing"
}

var GlobalRegistry = NewFormatterRegistry()
