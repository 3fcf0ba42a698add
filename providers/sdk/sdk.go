// Package sdk provides a ghprobe.Transport implementation using the go-github SDK.
//
// The transport uses go-github only for request construction and dispatch
// (default headers, user agent, rate-limit bookkeeping). Responses are
// returned raw: an error status from GitHub is a successful round trip, not a
// Go error, because the test suite asserts on those statuses directly.
package sdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/go-github/v67/github"
	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe"
	"golang.org/x/oauth2"
)

// Transport implements ghprobe.Transport using the go-github SDK.
type Transport struct {
	client *github.Client
}

// NewTransport creates a transport using the GitHub SDK.
//
// Example with token authentication:
//
//	transport, err := sdk.NewTransport(sdk.WithToken("ghp_..."))
//
// Example with a custom base HTTP client:
//
//	httpClient := &http.Client{Timeout: 30 * time.Second}
//	transport, err := sdk.NewTransport(
//	    sdk.WithToken("ghp_..."),
//	    sdk.WithHTTPClient(httpClient),
//	)
func NewTransport(opts ...Option) (*Transport, error) {
	cfg := &config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.client == nil {
		if cfg.token == "" {
			err := errors.New(errors.CodeInvalidInput, "either token or client must be provided")
			return nil, errors.WithContext(err, "field", "token or client")
		}
		cfg.client = github.NewClient(oauthClient(cfg.token, cfg.httpClient))
	}

	return &Transport{
		client: cfg.client,
	}, nil
}

// oauthClient wraps base with a static bearer token.
func oauthClient(token string, base *http.Client) *http.Client {
	ctx := context.Background()
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	if base != nil {
		client.Timeout = base.Timeout
	}
	return client
}

// config holds configuration for Transport.
type config struct {
	client     *github.Client
	httpClient *http.Client
	token      string
}

// Option configures the SDK transport.
type Option func(*config) error

// WithToken sets the authentication token for the transport.
func WithToken(token string) Option {
	return func(cfg *config) error {
		if token == "" {
			err := errors.New(errors.CodeInvalidInput, "token cannot be empty")
			return errors.WithContext(err, "field", "token")
		}
		cfg.token = token
		return nil
	}
}

// WithHTTPClient sets the base HTTP client that carries token-authenticated
// requests. Its Timeout is preserved.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			err := errors.New(errors.CodeInvalidInput, "http client cannot be nil")
			return errors.WithContext(err, "field", "http client")
		}
		cfg.httpClient = client
		return nil
	}
}

// WithClient sets a custom GitHub client for the transport.
// This allows full control over the HTTP client configuration,
// authentication, and other advanced settings. WithToken is ignored.
func WithClient(client *github.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			err := errors.New(errors.CodeInvalidInput, "client cannot be nil")
			return errors.WithContext(err, "field", "client")
		}
		cfg.client = client
		return nil
	}
}

// Do sends req and returns GitHub's response whatever its status.
func (t *Transport) Do(ctx context.Context, req *ghprobe.Request) (*ghprobe.Response, error) {
	// An untyped nil keeps go-github from encoding a "null" body.
	var body interface{}
	if req.Body != nil {
		body = json.RawMessage(req.Body)
	}

	httpReq, err := t.client.NewRequest(req.Method, req.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to build request")
	}
	for key, values := range req.Header {
		httpReq.Header[key] = values
	}

	resp, err := t.client.BareDo(ctx, httpReq)
	if resp == nil || resp.Response == nil {
		return nil, wrapError(err, "request failed")
	}
	defer resp.Body.Close()

	if err != nil && ctx.Err() != nil {
		return nil, wrapError(ctx.Err(), "request cancelled")
	}

	data, readErr := readBody(resp, err)
	if readErr != nil {
		return nil, wrapError(readErr, "failed to read response body")
	}

	return &ghprobe.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// readBody returns the response payload. go-github consumes the body of a
// 202 into AcceptedError and restores error bodies after parsing them.
func readBody(resp *github.Response, callErr error) ([]byte, error) {
	var accepted *github.AcceptedError
	if errors.As(callErr, &accepted) {
		return accepted.Raw, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var errResp *github.ErrorResponse
	if len(data) == 0 && errors.As(callErr, &errResp) && errResp.Message != "" {
		return json.Marshal(errResp)
	}
	return data, nil
}

// wrapError wraps a failed round trip as a network error.
func wrapError(err error, message string) error {
	if err == nil {
		return errors.New(errors.CodeNetwork, message)
	}
	return errors.Wrap(err, errors.CodeNetwork, message)
}
