// Package config loads and validates ghprobe configuration.
//
// Values are layered, lowest precedence first: Default, a YAML file, the
// environment (ApplyEnv), then command-line flags applied by the caller.
// Validate checks the result against an embedded CUE schema and reports
// every problem at once.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv and ConfigPath.
const (
	EnvBaseURL     = "GITHUB_API_BASEURL"
	EnvToken       = "GITHUB_TOKEN"
	EnvOwner       = "GITHUB_DEFAULT_OWNER"
	EnvStepSummary = "GITHUB_STEP_SUMMARY"
	EnvConfig      = "GHPROBE_CONFIG"
	EnvTransport   = "GHPROBE_TRANSPORT"
)

// Transports selectable through GitHubConfig.Transport.
const (
	TransportSDK = "sdk"
	TransportCLI = "cli"
)

//go:embed schema.cue
var schemaSource string

// Config is the complete ghprobe configuration.
type Config struct {
	GitHub GitHubConfig `yaml:"github" json:"github"`
	Report ReportConfig `yaml:"report" json:"report"`
	Run    RunConfig    `yaml:"run" json:"run"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// GitHubConfig selects the API and the credentials used against it.
//
// Transport is TransportSDK (go-github over HTTP) or TransportCLI (the gh
// binary). The CLI transport may run without Token, using gh's stored login.
type GitHubConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Token     string        `yaml:"token" json:"token"`
	Owner     string        `yaml:"owner" json:"owner"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	Transport string        `yaml:"transport" json:"transport"`
}

// LogValue implements slog.LogValuer. The token is never logged.
func (g GitHubConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", g.BaseURL),
		slog.String("owner", g.Owner),
		slog.Bool("token_set", g.Token != ""),
		slog.Duration("timeout", g.Timeout),
		slog.String("transport", g.Transport),
	)
}

// ReportConfig controls the generated artifacts.
type ReportConfig struct {
	Title    string        `yaml:"title" json:"title"`
	HTML     string        `yaml:"html" json:"html"`
	Markdown string        `yaml:"markdown" json:"markdown"`
	Dir      string        `yaml:"dir" json:"dir"`
	Publish  PublishConfig `yaml:"publish" json:"publish"`
}

// PublishConfig configures upload to S3-compatible storage.
// Publishing is disabled while Endpoint is empty.
type PublishConfig struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	Prefix    string `yaml:"prefix" json:"prefix"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl"`
}

// Enabled reports whether publishing is configured.
func (p PublishConfig) Enabled() bool {
	return p.Endpoint != ""
}

// RunConfig controls scenario selection and scheduling.
type RunConfig struct {
	Parallel int      `yaml:"parallel" json:"parallel"`
	Include  []string `yaml:"include" json:"include"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// SlogLevel converts Level to a slog level. Unknown levels map to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com",
			Transport: TransportSDK,
		},
		Report: ReportConfig{
			Title: "GitHub API Test Report",
			HTML:  "ghprobe-report.html",
			Dir:   ".",
			Publish: PublishConfig{
				UseSSL: true,
			},
		},
		Run: RunConfig{
			Parallel: 1,
			Include:  []string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path and then the
// process environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile merges the YAML file at path into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read configuration file"),
			"path", path,
		)
	}
	return c.LoadYAML(data)
}

// LoadYAML merges YAML data into c. Keys absent from data keep their values.
func (c *Config) LoadYAML(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse configuration")
	}
	return nil
}

// ApplyEnv overrides values from the environment through lookup
// (os.LookupEnv in production). GITHUB_STEP_SUMMARY only sets the markdown
// path when none is configured.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.GitHub.BaseURL = v
	}
	if v, ok := lookup(EnvToken); ok && v != "" {
		c.GitHub.Token = v
	}
	if v, ok := lookup(EnvOwner); ok && v != "" {
		c.GitHub.Owner = v
	}
	if v, ok := lookup(EnvTransport); ok && v != "" {
		c.GitHub.Transport = v
	}
	if v, ok := lookup(EnvStepSummary); ok && v != "" && c.Report.Markdown == "" {
		c.Report.Markdown = v
	}
}

// ConfigPath returns the configuration file to load: flag if set, otherwise
// GHPROBE_CONFIG, otherwise empty.
func ConfigPath(flag string, lookup func(string) (string, bool)) string {
	if flag != "" {
		return flag
	}
	if v, ok := lookup(EnvConfig); ok {
		return v
	}
	return ""
}

// Validate checks c against the configuration schema.
// All violations are reported in a single CodeInvalidConfig error whose
// "issues" context lists them as "path: message".
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "configuration schema is invalid")
	}

	normalized := *c
	if normalized.Run.Include == nil {
		normalized.Run.Include = []string{}
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode configuration")
	}

	value := ctx.CompileBytes(data, cue.Filename("config.json"))
	if err := value.Err(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to load configuration")
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true), cue.All()); err != nil {
		list := issues(err)
		wrapped := errors.New(errors.CodeInvalidConfig, "invalid configuration: "+strings.Join(list, "; "))
		return errors.WithContext(wrapped, "issues", list)
	}

	return nil
}

// issues flattens a CUE error into "path: message" lines.
func issues(err error) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		line := fmt.Sprintf("%s: %s", strings.Join(e.Path(), "."), fmt.Sprintf(format, args...))
		if !seen[line] {
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}
