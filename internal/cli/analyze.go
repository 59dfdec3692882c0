package cli

import (
	"context"
	"fmt"
	"unicode/utf8"

	"resumescan/internal/analyzer"
	"resumescan/internal/catalog"
	"resumescan/internal/common"
	"resumescan/internal/errors"
	"resumescan/internal/types"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Analyze a resume and score it against a role",
	Long: `Analyze a resume (PDF, DOCX or TXT) and report:

- the detected or requested role and how well the resume matches it
- matched skills with per-tier feedback
- contact details, education and industries
- an ATS compatibility score with the issues found
- a short summary

The role is detected from --jd when given, otherwise from the resume itself.
Use --role to score against a specific role, or --pick-role to choose one
interactively from the catalog.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(analyzeOpts.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		analyzeOpts.OutputFormat = format
		return nil
	},
	RunE: runAnalyze,
}

type analyzeOptions struct {
	common.CommandConfig
	JDFile      string
	TargetRole  string
	PickRole    bool
	CatalogFile string
}

var analyzeOpts analyzeOptions

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVarP(&analyzeOpts.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&analyzeOpts.OutputFormat, "format", "", "Output format: json, text, or markdown")
	flags.StringVar(&analyzeOpts.JDFile, "jd", "", "Job description file used for role detection (PDF, DOCX or TXT)")
	flags.StringVarP(&analyzeOpts.TargetRole, "role", "r", "", `Role to score against (default from config, "Auto-detect")`)
	flags.BoolVar(&analyzeOpts.PickRole, "pick-role", false, "Choose the target role interactively")
	flags.StringVar(&analyzeOpts.CatalogFile, "catalog", "", "YAML role catalog (overrides analysis.catalogFile)")
	analyzeCmd.MarkFlagsMutuallyExclusive("role", "pick-role")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return getConfigFromContext(cmd.Context()).App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = analyzeCmd.RegisterFlagCompletionFunc("role", completeRoles)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	a, _, err := buildAnalyzer(cfg, analyzeOpts.CatalogFile, logger, nil)
	if err != nil {
		return err
	}

	targetRole := analyzeOpts.TargetRole
	if analyzeOpts.PickRole {
		targetRole, err = pickRole(a.Catalog())
		if err != nil {
			return fmt.Errorf("role selection cancelled: %w", err)
		}
	}
	if targetRole == "" {
		targetRole = cfg.Analysis.DefaultTargetRole
	}

	createInput := func(contents []string) (analyzer.Request, error) {
		if len(contents) != 2 {
			return analyzer.Request{}, fmt.Errorf("expected resume and job description slots, got %d", len(contents))
		}
		return analyzer.Request{
			Resume:         contents[0],
			JobDescription: contents[1],
			TargetRole:     targetRole,
		}, nil
	}

	logDetails := func(req analyzer.Request, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_chars", utf8.RuneCountInString(req.Resume),
			"jd_chars", utf8.RuneCountInString(req.JobDescription),
			"target_role", req.TargetRole,
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, req analyzer.Request) (types.Analysis, error) {
		return a.Analyze(ctx, req), nil
	}

	analysis, err := common.RunDocumentCommand(
		cmd.Context(),
		common.Runner{Logger: logger, Stdout: cmd.OutOrStdout()},
		analyzeOpts.CommandConfig,
		[]string{args[0], analyzeOpts.JDFile},
		createInput,
		analyzeOperation,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	// the rejection message was already written with the output
	if analysis.Failed() {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, analysis.Error, nil)
	}
	logger.Info("Resume analysis completed successfully", "role", analysis.Result.Details.Role)
	return nil
}

// completeRoles offers the roles of the catalog that analyze would load
func completeRoles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := loadCatalog(getConfigFromContext(cmd.Context()), analyzeOpts.CatalogFile, errors.Discard())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return append([]string{analyzer.AutoDetect}, c.RoleNames()...), cobra.ShellCompDirectiveNoFileComp
}

// pickRole asks for a catalog role, with Auto-detect first
func pickRole(c *catalog.Catalog) (string, error) {
	prompt := promptui.Select{
		Label: "Target role",
		Items: append([]string{analyzer.AutoDetect}, c.RoleNames()...),
		Size:  10,
	}
	_, role, err := prompt.Run()
	return role, err
}
