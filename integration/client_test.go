//go:build integration

// Package integration runs the scenario catalogue against a live GitHub API.
package integration

import (
	"net/http"

	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/config"
	"github.com/jmgilman/go/ghprobe/providers/cli"
	"github.com/jmgilman/go/ghprobe/providers/sdk"
)

func newClient(cfg config.GitHubConfig) (*ghprobe.Client, error) {
	valid, err := newTransport(cfg, cfg.Token)
	if err != nil {
		return nil, err
	}

	invalid, err := newTransport(cfg, ghprobe.InvalidToken)
	if err != nil {
		return nil, err
	}

	return ghprobe.NewClient(valid,
		ghprobe.WithBaseURL(cfg.BaseURL),
		ghprobe.WithOwner(cfg.Owner),
		ghprobe.WithUnauthorizedTransport(invalid),
	)
}

func newTransport(cfg config.GitHubConfig, token string) (ghprobe.Transport, error) {
	if cfg.Transport == config.TransportCLI {
		return cli.NewTransport(cli.WithToken(token), cli.WithTimeout(cfg.Timeout))
	}
	return sdk.NewTransport(
		sdk.WithToken(token),
		sdk.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
}
