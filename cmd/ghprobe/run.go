package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe/runner"
	"github.com/jmgilman/go/ghprobe/suite"
	"github.com/spf13/cobra"
)

// errFailed is returned when at least one scenario failed. The summary has
// already been printed, so main only sets the exit code.
var errFailed = errors.New(errors.CodeExecutionFailed, "one or more scenarios failed")

func runCmd(configPath *string) *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the API scenarios",
		Long: `Runs the selected scenarios against the configured GitHub API. The HTML
report is rewritten after every scenario. Exits non-zero if any scenario fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd.Context(), *configPath, o)
		},
	}

	cmd.Flags().IntVarP(&o.parallel, "parallel", "p", 0, "Number of scenarios to run at once")
	cmd.Flags().StringSliceVarP(&o.include, "include", "i", nil, "Glob selecting scenarios by name, group or group/name")
	cmd.Flags().StringVar(&o.html, "report", "", "HTML report file name")
	cmd.Flags().StringVar(&o.markdown, "markdown", "", "Write a Markdown summary to this path")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&o.transport, "transport", "", "API transport (sdk, cli)")

	return cmd
}

func runScenarios(ctx context.Context, configPath string, o overrides) error {
	cfg, err := loadConfig(configPath, o)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log, os.Stderr)
	logger.Debug("configuration loaded", "github", cfg.GitHub, "parallel", cfg.Run.Parallel)

	scenarios, err := suite.Select(cfg.Run.Include)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return errors.WithContext(
			errors.New(errors.CodeInvalidInput, "no scenarios match"),
			"include", cfg.Run.Include,
		)
	}

	client, err := newClient(cfg.GitHub, logger)
	if err != nil {
		return err
	}

	rep, err := newReport(cfg.Report, logger)
	if err != nil {
		return err
	}

	r, err := runner.New(suite.NewEnv(client), rep,
		runner.WithParallelism(cfg.Run.Parallel),
		runner.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	summary, runErr := r.Run(ctx, scenarios)

	// Publishing and the summary file must happen even when the run was
	// interrupted.
	closeErr := rep.Close(context.WithoutCancel(ctx))
	if cfg.Report.Markdown != "" {
		if err := writeSummary(cfg.Report.Markdown, rep.Snapshot()); err != nil {
			logger.Error("failed to write summary", "path", cfg.Report.Markdown, "error", err)
		}
	}

	fmt.Println(renderSummary(summary, newStyles()))

	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}
	if !summary.OK() {
		return errFailed
	}
	return nil
}
