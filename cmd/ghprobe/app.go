package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/config"
	"github.com/jmgilman/go/ghprobe/providers/cli"
	"github.com/jmgilman/go/ghprobe/providers/sdk"
	"github.com/jmgilman/go/ghprobe/report"
)

// overrides are command-line values layered over the loaded configuration.
// Zero values leave the configuration untouched.
type overrides struct {
	parallel  int
	include   []string
	html      string
	markdown  string
	logLevel  string
	transport string
}

func (o overrides) apply(cfg *config.Config) {
	if o.parallel != 0 {
		cfg.Run.Parallel = o.parallel
	}
	if len(o.include) > 0 {
		cfg.Run.Include = o.include
	}
	if o.html != "" {
		cfg.Report.HTML = o.html
	}
	if o.markdown != "" {
		cfg.Report.Markdown = o.markdown
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.transport != "" {
		cfg.GitHub.Transport = o.transport
	}
}

// loadConfig resolves, loads, overrides and validates the configuration.
func loadConfig(path string, o overrides) (*config.Config, error) {
	cfg, err := config.Load(config.ConfigPath(path, os.LookupEnv))
	if err != nil {
		return nil, err
	}

	o.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newClient builds a client with a valid and an invalid credential.
func newClient(cfg config.GitHubConfig, logger *slog.Logger) (*ghprobe.Client, error) {
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
		ghprobe.WithLogger(logger),
	)
}

// newTransport returns the configured transport presenting token. The gh
// transport keeps its stored login when token is empty.
func newTransport(cfg config.GitHubConfig, token string) (ghprobe.Transport, error) {
	switch cfg.Transport {
	case config.TransportCLI:
		opts := []cli.Option{cli.WithTimeout(cfg.Timeout)}
		if token != "" {
			opts = append(opts, cli.WithToken(token))
		}
		transport, err := cli.NewTransport(opts...)
		if err != nil {
			return nil, err
		}
		return transport, nil
	case config.TransportSDK, "":
		transport, err := sdk.NewTransport(
			sdk.WithToken(token),
			sdk.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
		if err != nil {
			return nil, err
		}
		return transport, nil
	default:
		err := errors.Newf(errors.CodeInvalidConfig, "unknown transport %q", cfg.Transport)
		return nil, errors.WithContext(err, "field", "github.transport")
	}
}

// newReport builds the report written under cfg.Dir, with an upload to object
// storage when publishing is configured.
func newReport(cfg config.ReportConfig, logger *slog.Logger) (*report.Report, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to create report directory"),
			"dir", cfg.Dir,
		)
	}

	opts := []report.Option{
		report.WithTitle(cfg.Title),
		report.WithStore(report.NewFSStore(osfs.New(cfg.Dir))),
		report.WithRenderers(report.NewHTMLRenderer(cfg.HTML)),
		report.WithLogger(logger),
	}

	if cfg.Publish.Enabled() {
		publisher, err := report.NewMinIOPublisher(report.MinIOConfig{
			Endpoint:  cfg.Publish.Endpoint,
			AccessKey: cfg.Publish.AccessKey,
			SecretKey: cfg.Publish.SecretKey,
			UseSSL:    cfg.Publish.UseSSL,
			Bucket:    cfg.Publish.Bucket,
			Prefix:    cfg.Publish.Prefix,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, report.WithPublisher(publisher))
	}

	return report.New(opts...), nil
}

// writeSummary renders the Markdown summary to path, replacing any existing
// file. A relative path is resolved against the working directory.
func writeSummary(path string, snap report.Snapshot) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidInput, "invalid summary path"),
			"path", path,
		)
	}

	renderer := report.NewMarkdownRenderer(filepath.Base(abs))

	var buf bytes.Buffer
	if err := renderer.Render(&buf, snap); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to render summary")
	}

	store := report.NewFSStore(osfs.New(filepath.Dir(abs)))
	return store.Write(renderer.Name(), buf.Bytes())
}
