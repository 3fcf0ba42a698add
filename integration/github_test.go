//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/ghprobe/config"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/jmgilman/go/ghprobe/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGitHub runs every scenario against the API named by GITHUB_API_BASEURL
// (default api.github.com) with GITHUB_TOKEN and GITHUB_DEFAULT_OWNER.
// Scenarios create and delete real repositories in the owner's account.
func TestGitHub(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	if cfg.GitHub.Token == "" || cfg.GitHub.Owner == "" {
		t.Skipf("%s and %s must be set", config.EnvToken, config.EnvOwner)
	}
	cfg.GitHub.Timeout = 30 * time.Second
	require.NoError(t, cfg.Validate())

	client, err := newClient(cfg.GitHub)
	require.NoError(t, err)
	env := suite.NewEnv(client)

	dir := os.Getenv("GHPROBE_REPORT_DIR")
	if dir == "" {
		dir = t.TempDir()
	}
	rep := report.New(
		report.WithStore(report.NewFSStore(osfs.New(dir))),
		report.WithRenderers(
			report.NewHTMLRenderer(report.DefaultHTMLName),
			report.NewMarkdownRenderer("ghprobe-summary.md"),
		),
	)
	t.Cleanup(func() {
		assert.NoError(t, rep.Close(context.Background()))
		t.Logf("report written to %s", dir)
	})

	for _, s := range suite.All() {
		t.Run(s.Name, func(t *testing.T) {
			entry, err := rep.Start(t.Name(), s.Name)
			require.NoError(t, err)

			rec := &failureRecorder{T: t}

			// Finish runs after FailNow as well.
			defer func() {
				assert.NoError(t, rep.Finish(t.Name(), rec.err()))
			}()

			s.Run(rec, env, entry)
		})
	}
}
