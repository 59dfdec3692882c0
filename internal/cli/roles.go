package cli

import (
	"fmt"

	"resumescan/internal/common"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the role catalog with its skill tiers",
	Long: `List every role profile with its core, important and nice-to-have skills,
the generic fallback profile and the industries used for tagging.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(rolesOpts.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		rolesOpts.OutputFormat = format
		return nil
	},
	RunE: runRoles,
}

var rolesOpts struct {
	common.CommandConfig
	CatalogFile string
}

func init() {
	rolesCmd.Flags().StringVarP(&rolesOpts.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rolesCmd.Flags().StringVar(&rolesOpts.OutputFormat, "format", "", "Output format: json, text, or markdown")
	rolesCmd.Flags().StringVar(&rolesOpts.CatalogFile, "catalog", "", "YAML role catalog (overrides analysis.catalogFile)")
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	c, err := loadCatalog(cfg, rolesOpts.CatalogFile, logger)
	if err != nil {
		return err
	}

	handler := common.NewOutputHandlerTo(cmd.OutOrStdout(), logger)
	if err := handler.HandleOutput(c.Listing(), rolesOpts.CommandConfig); err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	return nil
}
