package ghprobe

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/jmgilman/go/errors"
)

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL sets the API root (default https://api.github.com).
// A trailing slash is ignored.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidInput, "invalid base URL"),
				"field", "base_url",
			)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return newInvalidInputError("base_url", "scheme must be http or https")
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithOwner sets the default owner used when deleting repositories.
func WithOwner(owner string) Option {
	return func(c *Client) error {
		if owner == "" {
			return newInvalidInputError("owner", "cannot be empty")
		}
		c.owner = owner
		return nil
	}
}

// WithUnauthorizedTransport sets the transport used by the Unauthorized
// variants. It should authenticate with InvalidToken.
func WithUnauthorizedTransport(transport Transport) Option {
	return func(c *Client) error {
		if transport == nil {
			return newInvalidInputError("unauthorized transport", "cannot be nil")
		}
		c.unauthorized = transport
		return nil
	}
}

// WithRecorder sets the recorder that receives every exchange.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) error {
		if recorder == nil {
			recorder = nopRecorder{}
		}
		c.recorder = recorder
		return nil
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// ListOptions controls paging and ordering of repository listings.
// Zero fields are omitted from the query string.
type ListOptions struct {
	PerPage   int    `url:"per_page,omitempty"`
	Page      int    `url:"page,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Direction string `url:"direction,omitempty"`
}

// addOptions appends the encoded options to path.
func addOptions(path string, opts ListOptions) (string, error) {
	values, err := query.Values(opts)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidInput, "failed to encode list options")
	}
	if len(values) == 0 {
		return path, nil
	}
	return path + "?" + values.Encode(), nil
}
