// Package analyzer runs the full resume analysis pipeline: validation, field
// extraction, role detection, skill scoring, feedback, ATS audit and summary.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"resumescan/internal/ai"
	"resumescan/internal/ats"
	"resumescan/internal/catalog"
	"resumescan/internal/errors"
	"resumescan/internal/extract"
	"resumescan/internal/observability"
	"resumescan/internal/scoring"
	"resumescan/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AutoDetect is the target role value that keeps the detected role
const AutoDetect = "Auto-detect"

// Rejection messages returned for input that cannot be analyzed
const (
	MsgUnreadable = "Invalid or unreadable resume."
	MsgNotResume  = "The uploaded file does not appear to be a resume. Please upload a valid resume document containing sections like experience, education, skills, or qualifications."
)

const (
	minResumeChars = 50
	notDetected    = "Not Detected"
	noSkills       = "❌ No matching skills found"
	noEducation    = "❌ No education information found"
)

var resumeIndicators = []string{"experience", "education", "skills", "contact", "work history", "qualifications"}

// Request is one analysis input. JobDescription and TargetRole are optional.
type Request struct {
	Resume         string
	JobDescription string
	TargetRole     string
}

// Options configures an Analyzer
type Options struct {
	SummaryMaxLength int
	SummaryMinLength int
	Logger           *errors.Logger
	Metrics          *observability.Metrics
}

// Analyzer holds only read-only collaborators and is safe for concurrent use
type Analyzer struct {
	catalog    *catalog.Catalog
	summarizer ai.Summarizer
	logger     *errors.Logger
	metrics    *observability.Metrics
	maxLen     int
	minLen     int
}

// New creates an Analyzer. A nil catalog means the built-in one and a nil
// summarizer means deterministic summaries.
func New(c *catalog.Catalog, s ai.Summarizer, opts Options) *Analyzer {
	if c == nil {
		c = catalog.Default()
	}
	if s == nil {
		s = ai.FallbackSummarizer{}
	}
	if opts.Logger == nil {
		opts.Logger = errors.Discard()
	}
	if opts.SummaryMaxLength <= 0 {
		opts.SummaryMaxLength = 150
	}
	if opts.SummaryMinLength <= 0 {
		opts.SummaryMinLength = 30
	}
	return &Analyzer{
		catalog:    c,
		summarizer: s,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		maxLen:     opts.SummaryMaxLength,
		minLen:     opts.SummaryMinLength,
	}
}

// Catalog returns the role catalog the analyzer scores against
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

// Analyze never panics and never returns an error value: problems with the
// input come back as a failed Analysis, component failures as diagnostics.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (analysis types.Analysis) {
	start := time.Now()
	ctx, span := otel.Tracer("resumescan/analyzer").Start(ctx, "analyzer.analyze")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			a.logger.LogError(
				errors.NewInternalError(errors.ErrCodeAnalysisFailed, "resume analysis panicked", fmt.Errorf("%v", r)),
				"Analysis aborted",
			)
			analysis = types.Failure(fmt.Sprintf("Error analyzing resume: %v", r))
		}
		a.finish(ctx, span, analysis, time.Since(start))
	}()

	if msg, ok := validate(req.Resume); !ok {
		a.logger.Warn("Resume rejected", "reason", msg, "chars", utf8.RuneCountInString(req.Resume))
		return types.Failure(msg)
	}
	return types.Success(a.analyze(ctx, req))
}

func validate(text string) (string, bool) {
	if utf8.RuneCountInString(text) < minResumeChars {
		return MsgUnreadable, false
	}
	lower := strings.ToLower(text)
	for _, kw := range resumeIndicators {
		if strings.Contains(lower, kw) {
			return "", true
		}
	}
	return MsgNotResume, false
}

func (a *Analyzer) analyze(ctx context.Context, req Request) *types.AnalysisResult {
	text := req.Resume
	var diagnostics []string
	note := func(degraded bool, msg string) {
		if degraded {
			diagnostics = append(diagnostics, msg)
		}
	}

	contact := extract.Contact(text)
	note(contact.Degraded, contact.Note)

	var years *int
	if y, ok := extract.ExperienceYears(text); ok {
		years = &y
	}

	education := extract.Education(text)
	industries := types.Guard([]string{}, func() []string {
		if tags := extract.Industries(text, a.catalog); tags != nil {
			return tags
		}
		return []string{}
	})
	note(industries.Degraded, "industry tagging failed: "+industries.Note)

	roleSource := text
	if req.JobDescription != "" {
		roleSource = req.JobDescription
	}
	detected := scoring.DetectRole(roleSource, a.catalog)
	note(detected.Degraded, detected.Note)
	role, confidence := detected.Value.Name, detected.Value.Confidence

	if req.TargetRole != "" && req.TargetRole != AutoDetect {
		role, confidence = req.TargetRole, 0
		if p, ok := a.catalog.Lookup(role); ok {
			confidence = scoring.ScoreSkills(text, p).Value.Percentage
		}
	}

	profile := a.catalog.Generic()
	if p, ok := a.catalog.Lookup(role); ok {
		profile = p
	} else if role != "" {
		a.logger.Debug("Role not in catalog, scoring against generic profile", "role", role)
	}

	match := scoring.ScoreSkills(text, profile)
	note(match.Degraded, match.Note)

	fb := scoring.Feedback(scoring.FeedbackInput{
		Match:           match.Value,
		Profile:         profile,
		Contact:         contact.Value,
		ExperienceYears: years,
	})
	note(fb.Degraded, fb.Note)

	audit := ats.Audit(text)
	note(audit.Degraded, audit.Note)

	summary, err := a.summarizer.Summarize(ctx, text, a.maxLen, a.minLen)
	if err != nil {
		a.logger.LogError(err, "Summarizer failed, using fallback summary")
		summary = ai.Fallback(text)
		note(true, "summarization failed: "+err.Error())
	}

	return &types.AnalysisResult{
		Summary:    summary,
		Score:      fmt.Sprintf("%.1f%% (%s)", match.Value.Percentage, match.Value.Level),
		Role:       fmt.Sprintf("%s (Confidence: %.1f%%)", orDefault(role, notDetected), confidence),
		Skills:     formatSkills(match.Value.FoundSkills),
		Feedback:   fb.Value + scoring.SkillBreakdown(match.Value, profile),
		Contact:    contact.Value,
		Education:  formatEducation(education),
		ATS:        audit.Value,
		Industries: industries.Value,
		Details: types.AnalysisDetails{
			Role:            role,
			RoleDetected:    role != "",
			Confidence:      confidence,
			Percentage:      match.Value.Percentage,
			Level:           match.Value.Level,
			ExperienceYears: years,
			SkillCounts:     match.Value.SkillCounts,
			Diagnostics:     diagnostics,
		},
	}
}

func (a *Analyzer) finish(ctx context.Context, span trace.Span, analysis types.Analysis, elapsed time.Duration) {
	rec := observability.AnalysisRecord{Success: !analysis.Failed(), Duration: elapsed}
	if analysis.Failed() {
		span.SetStatus(codes.Error, analysis.Error)
		a.metrics.RecordAnalysis(ctx, rec)
		return
	}

	r := analysis.Result
	rec.Role = r.Details.Role
	rec.Percentage = r.Details.Percentage
	rec.ATSScore = r.ATS.Score
	a.metrics.RecordAnalysis(ctx, rec)

	span.SetAttributes(
		attribute.String("analysis.role", r.Details.Role),
		attribute.Float64("analysis.percentage", r.Details.Percentage),
		attribute.Int("analysis.ats_score", r.ATS.Score),
		attribute.Int("analysis.diagnostics", len(r.Details.Diagnostics)),
	)
	span.SetStatus(codes.Ok, "")

	a.logger.Info("Resume analyzed",
		"role", orDefault(r.Details.Role, notDetected),
		"percentage", r.Details.Percentage,
		"level", r.Details.Level,
		"ats_score", r.ATS.Score,
		"duration_ms", elapsed.Milliseconds(),
		"degraded", len(r.Details.Diagnostics),
	)
}

func formatSkills(found []string) string {
	if len(found) == 0 {
		return noSkills
	}
	return strings.Join(found, ", ")
}

func formatEducation(lines []string) []string {
	if len(lines) == 0 {
		return []string{noEducation}
	}
	out := make([]string, len(lines))
	for i, e := range lines {
		out[i] = "🎓 " + e
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
