package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe/config"
	"github.com/jmgilman/go/ghprobe/internal/fakegithub"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/jmgilman/go/ghprobe/runner"
	"github.com/jmgilman/go/ghprobe/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeToken = "ghp_fake"

// fakeEnvironment points the process environment at a fake GitHub server and
// returns a config file that writes reports to a temporary directory.
func fakeEnvironment(t *testing.T, token string) (configPath, reportDir string) {
	t.Helper()

	server := fakegithub.New(fakeToken, fakegithub.User{Login: "octocat", ID: 1})
	t.Cleanup(server.Close)

	t.Setenv(config.EnvBaseURL, server.URL)
	t.Setenv(config.EnvToken, token)
	t.Setenv(config.EnvOwner, "octocat")
	t.Setenv(config.EnvStepSummary, "")
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvTransport, "")

	reportDir = filepath.Join(t.TempDir(), "reports")
	configPath = filepath.Join(t.TempDir(), "ghprobe.yaml")
	data := "report:\n  dir: " + reportDir + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0o600))

	return configPath, reportDir
}

func TestOverrides_Apply(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	overrides{}.apply(cfg)
	assert.Equal(t, config.Default(), cfg, "zero overrides change nothing")

	overrides{
		parallel:  4,
		include:   []string{"user"},
		html:      "out.html",
		markdown:  "summary.md",
		logLevel:  "debug",
		transport: config.TransportCLI,
	}.apply(cfg)

	assert.Equal(t, 4, cfg.Run.Parallel)
	assert.Equal(t, []string{"user"}, cfg.Run.Include)
	assert.Equal(t, "out.html", cfg.Report.HTML)
	assert.Equal(t, "summary.md", cfg.Report.Markdown)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.TransportCLI, cfg.GitHub.Transport)
}

func TestLoadConfig(t *testing.T) {
	path, dir := fakeEnvironment(t, fakeToken)

	cfg, err := loadConfig(path, overrides{parallel: 2})

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Report.Dir)
	assert.Equal(t, 2, cfg.Run.Parallel)
	assert.Equal(t, "octocat", cfg.GitHub.Owner)

	_, err = loadConfig(path, overrides{logLevel: "loud"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf).Warn("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(config.LogConfig{Level: "info", Format: "text"}, &buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "summary.md")
	snap := report.Snapshot{
		Title: "Run",
		Entries: []report.EntrySnapshot{
			{Name: "testGetUserProfile_Success", Status: report.StatusPass},
		},
		Passed: 1,
	}

	require.NoError(t, writeSummary(path, snap))
	require.NoError(t, writeSummary(path, snap), "existing summaries are replaced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Run")
	assert.Contains(t, string(data), "testGetUserProfile_Success")
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	logger := newLogger(config.LogConfig{Level: "error"}, &bytes.Buffer{})

	tests := []struct {
		name     string
		cfg      config.GitHubConfig
		wantCode errors.ErrorCode
	}{
		{
			name: "sdk transport",
			cfg:  config.GitHubConfig{BaseURL: "https://api.github.com", Token: "ghp_test", Owner: "octocat", Transport: config.TransportSDK},
		},
		{
			name: "cli transport",
			cfg:  config.GitHubConfig{BaseURL: "https://api.github.com", Token: "ghp_test", Owner: "octocat", Transport: config.TransportCLI, Timeout: time.Minute},
		},
		{
			name: "cli transport with the gh login",
			cfg:  config.GitHubConfig{BaseURL: "https://api.github.com", Owner: "octocat", Transport: config.TransportCLI},
		},
		{
			name:     "sdk transport without token",
			cfg:      config.GitHubConfig{BaseURL: "https://api.github.com", Owner: "octocat", Transport: config.TransportSDK},
			wantCode: errors.CodeInvalidInput,
		},
		{
			name:     "unknown transport",
			cfg:      config.GitHubConfig{BaseURL: "https://api.github.com", Token: "ghp_test", Owner: "octocat", Transport: "curl"},
			wantCode: errors.CodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := newClient(tt.cfg, logger)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "octocat", client.Owner())
		})
	}
}

func TestCheckToken(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		path, _ := fakeEnvironment(t, fakeToken)
		cfg, err := loadConfig(path, overrides{})
		require.NoError(t, err)
		client, err := newClient(cfg.GitHub, newLogger(cfg.Log, &bytes.Buffer{}))
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, checkToken(context.Background(), client, &out))
		assert.Contains(t, out.String(), "authenticated as octocat")
	})

	t.Run("rejected token", func(t *testing.T) {
		path, _ := fakeEnvironment(t, "ghp_wrong")
		cfg, err := loadConfig(path, overrides{})
		require.NoError(t, err)
		client, err := newClient(cfg.GitHub, newLogger(cfg.Log, &bytes.Buffer{}))
		require.NoError(t, err)

		var out bytes.Buffer
		err = checkToken(context.Background(), client, &out)
		require.Error(t, err)
		assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))
		assert.Contains(t, out.String(), "token rejected")
	})
}

func TestRunScenarios(t *testing.T) {
	t.Run("passing run writes the report", func(t *testing.T) {
		path, dir := fakeEnvironment(t, fakeToken)
		summary := filepath.Join(t.TempDir(), "summary.md")

		err := runScenarios(context.Background(), path, overrides{parallel: 3, markdown: summary})

		require.NoError(t, err)
		html, err := os.ReadFile(filepath.Join(dir, report.DefaultHTMLName))
		require.NoError(t, err)
		assert.Contains(t, string(html), "testCreateIssue_Success")

		md, err := os.ReadFile(summary)
		require.NoError(t, err)
		assert.Contains(t, string(md), "**15** tests: **15** passed, **0** failed")
	})

	t.Run("failing scenario fails the run", func(t *testing.T) {
		path, _ := fakeEnvironment(t, "ghp_wrong")

		err := runScenarios(context.Background(), path, overrides{include: []string{"user"}})

		assert.True(t, errors.Is(err, errFailed))
	})

	t.Run("no matching scenarios", func(t *testing.T) {
		path, _ := fakeEnvironment(t, fakeToken)

		err := runScenarios(context.Background(), path, overrides{include: []string{"nothing"}})

		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printError(&out, errors.Wrap(errFailed, errors.CodeExecutionFailed, "run"))
	assert.Empty(t, out.String(), "failed runs are reported by their summary")

	printError(&out, errors.New(errors.CodeInvalidConfig, "bad parallel"))
	assert.Equal(t, "Error: [INVALID_CONFIGURATION] bad parallel\n", out.String())
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	summary := runner.Summary{
		Results: []runner.Result{
			{Name: "testGetUserProfile_Success", Duration: 12 * time.Millisecond},
			{Name: "testDeleteRepository_Success", Err: errors.New(errors.CodeExecutionFailed, "Repository should be deleted successfully")},
		},
		Duration: time.Second,
	}

	out := renderSummary(summary, newStyles())

	assert.Contains(t, out, "testGetUserProfile_Success")
	assert.Contains(t, out, "Repository should be deleted successfully")
	assert.Contains(t, out, "1 passed, 1 failed in 1s")
	assert.Contains(t, out, "FAIL")
}

func TestRenderCatalogue(t *testing.T) {
	t.Parallel()

	out := renderCatalogue(suite.All(), newStyles())

	for _, group := range []string{suite.GroupUser, suite.GroupRepository, suite.GroupIssue, suite.GroupListing, suite.GroupDeletion} {
		assert.Contains(t, out, group)
	}
	assert.Contains(t, out, "testListRepositories_WhenEmpty")
	assert.Contains(t, out, "15 scenarios")
}
