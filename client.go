package ghprobe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jmgilman/go/errors"
)

const (
	// DefaultBaseURL is the public GitHub API root.
	DefaultBaseURL = "https://api.github.com"

	// InvalidToken is the credential used by the Unauthorized variants.
	InvalidToken = "INVALID_TOKEN"
)

// Client issues the GitHub REST calls exercised by the test suite.
//
// Every method performs exactly one round trip and returns the raw Response.
// The status code is never interpreted: a 404 or 422 is returned with a nil
// error, because for the caller it is usually the expected result.
type Client struct {
	baseURL      string
	owner        string
	transport    Transport
	unauthorized Transport
	recorder     Recorder
	logger       *slog.Logger
}

// NewClient creates a client that sends requests through transport.
//
// Example:
//
//	client, err := ghprobe.NewClient(transport,
//	    ghprobe.WithBaseURL("https://api.github.com"),
//	    ghprobe.WithOwner("octocat"),
//	)
func NewClient(transport Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, newInvalidInputError("transport", "cannot be nil")
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		transport: transport,
		recorder:  nopRecorder{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordTo returns a copy of the client that records its exchanges to r.
// The copy shares the receiver's transports and configuration.
func (c *Client) RecordTo(r Recorder) *Client {
	clone := *c
	if r == nil {
		r = nopRecorder{}
	}
	clone.recorder = r
	return &clone
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Owner returns the default owner.
func (c *Client) Owner() string {
	return c.owner
}

// AuthenticatedUser fetches the user the token belongs to (GET /user).
func (c *Client) AuthenticatedUser(ctx context.Context) (*Response, error) {
	return c.send(ctx, c.transport, http.MethodGet, "/user", nil)
}

// AuthenticatedUserUnauthorized is AuthenticatedUser sent with InvalidToken.
func (c *Client) AuthenticatedUserUnauthorized(ctx context.Context) (*Response, error) {
	c.recorder.Info("Attempting to retrieve the authenticated user without authorization")
	return c.send(ctx, c.unauthorized, http.MethodGet, "/user", nil)
}

// ListRepositories lists the authenticated user's repositories
// (GET /user/repos).
func (c *Client) ListRepositories(ctx context.Context, opts ListOptions) (*Response, error) {
	path, err := addOptions("/user/repos", opts)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, c.transport, http.MethodGet, path, nil)
}

type createIssueRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateIssue opens an issue (POST /repos/{owner}/{repo}/issues).
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (*Response, error) {
	return c.send(ctx, c.transport, http.MethodPost, issuesPath(owner, repo),
		createIssueRequest{Title: title, Body: body})
}

// CreateIssueUnauthorized is CreateIssue sent with InvalidToken.
func (c *Client) CreateIssueUnauthorized(ctx context.Context, owner, repo, title, body string) (*Response, error) {
	c.recorder.Info("Attempting to create issue without authorization: " + title)
	return c.send(ctx, c.unauthorized, http.MethodPost, issuesPath(owner, repo),
		createIssueRequest{Title: title, Body: body})
}

type closeIssueRequest struct {
	State string `json:"state"`
}

// CloseIssue closes an issue (PATCH /repos/{owner}/{repo}/issues/{number}).
func (c *Client) CloseIssue(ctx context.Context, owner, repo string, number int) (*Response, error) {
	path := fmt.Sprintf("%s/%d", issuesPath(owner, repo), number)
	return c.send(ctx, c.transport, http.MethodPatch, path, closeIssueRequest{State: "closed"})
}

type createRepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

// CreateRepository creates a repository for the authenticated user
// (POST /user/repos).
func (c *Client) CreateRepository(ctx context.Context, name, description string, private bool) (*Response, error) {
	return c.send(ctx, c.transport, http.MethodPost, "/user/repos",
		createRepositoryRequest{Name: name, Description: description, Private: private})
}

// CreateRepositoryUnauthorized is CreateRepository sent with InvalidToken.
func (c *Client) CreateRepositoryUnauthorized(ctx context.Context, name string) (*Response, error) {
	c.recorder.Info("Attempting to create repository without authorization: " + name)
	return c.send(ctx, c.unauthorized, http.MethodPost, "/user/repos", createRepositoryRequest{
		Name:        name,
		Description: "Repository created without authorization",
		Private:     false,
	})
}

// DeleteRepository deletes a repository (DELETE /repos/{owner}/{name}).
//
// The repository is always addressed under the client's default owner, even
// when it was created in another namespace.
func (c *Client) DeleteRepository(ctx context.Context, name string) (*Response, error) {
	return c.send(ctx, c.transport, http.MethodDelete, repoPath(c.owner, name), nil)
}

// DeleteRepositoryUnauthorized is DeleteRepository sent with InvalidToken.
func (c *Client) DeleteRepositoryUnauthorized(ctx context.Context, name string) (*Response, error) {
	c.recorder.Info("Attempting to delete repository without authorization: " + name)
	return c.send(ctx, c.unauthorized, http.MethodDelete, repoPath(c.owner, name), nil)
}

// send performs one round trip and records it.
func (c *Client) send(ctx context.Context, transport Transport, method, path string, body interface{}) (*Response, error) {
	if transport == nil {
		err := errors.New(errors.CodeInvalidConfig, "no unauthorized transport configured")
		return nil, errors.WithContext(err, "path", path)
	}

	req, err := newRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := transport.Do(ctx, req)
	elapsed := time.Since(start)

	exchange := Exchange{
		Method:      req.Method,
		URL:         req.URL,
		RequestBody: req.Body,
		Duration:    elapsed,
	}

	if err != nil {
		exchange.Err = err
		c.recorder.RecordExchange(exchange)
		c.logger.Debug("github request failed",
			"method", req.Method,
			"url", req.URL,
			"duration", elapsed,
			"error", err,
		)
		return nil, wrapTransportError(err, req)
	}

	if resp.Duration == 0 {
		resp.Duration = elapsed
	}
	exchange.StatusCode = resp.StatusCode
	exchange.ResponseBody = resp.Body
	c.recorder.RecordExchange(exchange)

	c.logger.Debug("github request",
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	return resp, nil
}

func repoPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
}

func issuesPath(owner, repo string) string {
	return repoPath(owner, repo) + "/issues"
}
