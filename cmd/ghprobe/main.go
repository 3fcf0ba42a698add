// Command ghprobe runs the GitHub API test scenarios and writes an HTML report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// printError reports err on w. A failed run has already printed its summary.
func printError(w io.Writer, err error) {
	if errors.Is(err, errFailed) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ghprobe",
		Short: "Integration tests for the GitHub REST API",
		Long: `ghprobe exercises the GitHub REST API (user profile, repository CRUD,
issue creation and closing), asserts on status codes and payloads, and
records every request and response in an HTML report.

Configuration is read from a YAML file (--config or GHPROBE_CONFIG) and the
environment (GITHUB_TOKEN, GITHUB_DEFAULT_OWNER, GITHUB_API_BASEURL).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")

	cmd.AddCommand(runCmd(&configPath))
	cmd.AddCommand(listCmd())
	cmd.AddCommand(checkCmd(&configPath))

	return cmd
}
