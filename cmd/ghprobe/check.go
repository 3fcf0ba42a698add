package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe"
	"github.com/spf13/cobra"
)

func checkCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured token",
		Long:  `Fetches the authenticated user to confirm the API is reachable and the token is accepted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, overrides{})
			if err != nil {
				return err
			}

			client, err := newClient(cfg.GitHub, newLogger(cfg.Log, os.Stderr))
			if err != nil {
				return err
			}

			return checkToken(cmd.Context(), client, cmd.OutOrStdout())
		},
	}
}

// checkToken prints the login the token belongs to.
func checkToken(ctx context.Context, client *ghprobe.Client, w io.Writer) error {
	styles := newStyles()

	resp, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		fmt.Fprintln(w, styles.fail.Render("✗ token rejected by "+client.BaseURL()))
		return errors.WithContext(err, "base_url", client.BaseURL())
	}

	user, err := ghprobe.DecodeUserProfile(resp)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, styles.pass.Render("✓ authenticated as "+user.Login))
	return nil
}
