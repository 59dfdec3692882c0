package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"resumescan/internal/common"
	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/types"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliResume = "Jane Doe\njane@example.com\n" +
	"Experience: 5 years of experience with SQL, Python, Excel and Tableau.\n" +
	"Education: B.Tech in Computer Science\nSkills: SQL, Python"

const cliCatalog = `roles:
  - name: Backend Engineer
    core: [Go, PostgreSQL]
    important: [Docker]
    niceToHave: [Kafka]
`

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.DefaultFormat = "text"
	cfg.App.SupportedFormats = []string{"json", "text", "markdown"}
	cfg.AI.Provider = config.ProviderNone
	cfg.Analysis.DefaultTargetRole = "Auto-detect"
	cfg.Analysis.SummaryInputChars = 1000
	cfg.Analysis.SummaryMaxLength = 150
	cfg.Analysis.SummaryMinLength = 30
	cfg.Server.TLS.Mode = "disabled"
	return cfg
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// execute runs the root command with fresh option state and captures stdout
func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	analyzeOpts = analyzeOptions{}
	rolesOpts.CommandConfig = common.CommandConfig{}
	rolesOpts.CatalogFile = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := Execute(context.Background(), cfg, errors.Discard())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testConfig(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumescan version dev")
}

func TestAnalyzeCommand(t *testing.T) {
	resume := writeTemp(t, "resume.txt", cliResume)

	t.Run("json to stdout", func(t *testing.T) {
		out, err := execute(t, testConfig(), "analyze", resume, "--format", "json")
		require.NoError(t, err)

		var result types.AnalysisResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "jane@example.com", result.Contact.Email)
		assert.NotEmpty(t, result.Score)
	})

	t.Run("default format from config", func(t *testing.T) {
		out, err := execute(t, testConfig(), "analyze", resume)
		require.NoError(t, err)
		assert.Contains(t, out, "=== RESUME ANALYSIS ===")
	})

	t.Run("explicit role", func(t *testing.T) {
		out, err := execute(t, testConfig(), "analyze", resume, "--role", "Astronaut", "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"role": "Astronaut (Confidence: 0.0%)"`)
	})

	t.Run("job description drives detection", func(t *testing.T) {
		jd := writeTemp(t, "jd.txt", "Looking for a Web Developer with HTML, CSS, JavaScript")
		out, err := execute(t, testConfig(), "analyze", resume, "--jd", jd, "--format", "json")
		require.NoError(t, err)

		var result types.AnalysisResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "Web Developer", result.Details.Role)
	})

	t.Run("custom catalog", func(t *testing.T) {
		catalogFile := writeTemp(t, "catalog.yaml", cliCatalog)
		goResume := writeTemp(t, "go.txt", "John Smith\nExperience: 3 years of experience\nSkills: Go, PostgreSQL, Docker, Kafka")
		out, err := execute(t, testConfig(), "analyze", goResume, "--catalog", catalogFile, "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, "Backend Engineer")
	})

	t.Run("rejected resume", func(t *testing.T) {
		short := writeTemp(t, "short.txt", "too short")
		out, err := execute(t, testConfig(), "analyze", short, "--format", "json")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		assert.JSONEq(t, `{"error":"Invalid or unreadable resume."}`, out)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := execute(t, testConfig(), "analyze", resume, "--format", "yaml")
		assert.Error(t, err)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, testConfig(), "analyze")
		assert.Error(t, err)
	})
}

func TestRolesCommand(t *testing.T) {
	t.Run("built-in catalog", func(t *testing.T) {
		out, err := execute(t, testConfig(), "roles")
		require.NoError(t, err)
		assert.Contains(t, out, "=== ROLES ===")
		assert.Contains(t, out, "Data Analyst")
	})

	t.Run("catalog from config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Analysis.CatalogFile = writeTemp(t, "catalog.yaml", cliCatalog)
		out, err := execute(t, cfg, "roles", "--format", "json")
		require.NoError(t, err)

		var listing types.RoleListing
		require.NoError(t, json.Unmarshal([]byte(out), &listing))
		require.Len(t, listing.Roles, 1)
		assert.Equal(t, "Backend Engineer", listing.Roles[0].Name)
	})

	t.Run("invalid catalog", func(t *testing.T) {
		_, err := execute(t, testConfig(), "roles", "--catalog", writeTemp(t, "bad.yaml", "roles: []\n"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})
}

func TestApplyServeFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("port", "p", "", "")
	cmd.Flags().String("host", "", "")
	cmd.Flags().String("tls-mode", "", "")
	cmd.Flags().String("cert-file", "", "")
	cmd.Flags().String("key-file", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9090", "--tls-mode", "server"}))

	cfg := config.ServerConfig{Host: "0.0.0.0", Port: "8080"}
	cfg.TLS.Mode = "disabled"
	applyServeFlags(cmd, &cfg)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host, "unset flags keep config values")
	assert.Equal(t, "server", cfg.TLS.Mode)
}

func TestCompleteRoles(t *testing.T) {
	complete := func(cfg *config.Config, catalogFile string) ([]string, cobra.ShellCompDirective) {
		analyzeOpts = analyzeOptions{CatalogFile: catalogFile}
		t.Cleanup(func() { analyzeOpts = analyzeOptions{} })

		cmd := &cobra.Command{}
		cmd.SetContext(context.WithValue(context.Background(), configKey, cfg))
		return completeRoles(cmd, nil, "")
	}

	t.Run("built-in catalog", func(t *testing.T) {
		roles, directive := complete(testConfig(), "")
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		assert.Equal(t, "Auto-detect", roles[0])
		assert.Contains(t, roles, "Data Analyst")
	})

	t.Run("catalog flag", func(t *testing.T) {
		roles, _ := complete(testConfig(), writeTemp(t, "catalog.yaml", cliCatalog))
		assert.Equal(t, []string{"Auto-detect", "Backend Engineer"}, roles)
	})

	t.Run("catalog from config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Analysis.CatalogFile = writeTemp(t, "catalog.yaml", cliCatalog)
		roles, _ := complete(cfg, "")
		assert.Equal(t, []string{"Auto-detect", "Backend Engineer"}, roles)
	})

	t.Run("unreadable catalog", func(t *testing.T) {
		roles, directive := complete(testConfig(), writeTemp(t, "bad.yaml", "roles: []\n"))
		assert.Nil(t, roles)
		assert.Equal(t, cobra.ShellCompDirectiveError, directive)
	})
}
